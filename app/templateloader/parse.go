package templateloader

import (
	"strings"

	"github.com/Guerrilla-Interactive/site-assembler/app/templatecommon"
	"github.com/Guerrilla-Interactive/site-assembler/app/templatemodel"
)

// parseSlottedTemplates scans content for {{#Name}}...{{/Name}}
// occurrences, deduping by name (first occurrence wins).
func parseSlottedTemplates(content string) []templatemodel.SlottedTemplate {
	var result []templatemodel.SlottedTemplate
	seen := map[string]bool{}
	pos := 0
	for {
		start := strings.Index(content[pos:], "{{#")
		if start == -1 {
			return result
		}
		start += pos
		nameStart := start + 3
		nameEnd := strings.Index(content[nameStart:], "}}")
		if nameEnd == -1 {
			return result
		}
		nameEnd += nameStart
		name := strings.TrimSpace(content[nameStart:nameEnd])
		if name == "" || !templatecommon.IsAlphanumeric(name) {
			pos = start + 1
			continue
		}
		openTag := "{{#" + name + "}}"
		closeTag := "{{/" + name + "}}"
		afterOpen := nameEnd + 2
		closeIdx := templatecommon.FindMatchingCloseTag(content, afterOpen, openTag, closeTag)
		if closeIdx == -1 {
			pos = start + 1
			continue
		}
		closeEnd := closeIdx + len(closeTag)
		fullMatch := content[start:closeEnd]
		inner := content[afterOpen:closeIdx]
		if !seen[name] {
			seen[name] = true
			result = append(result, templatemodel.SlottedTemplate{
				Name:         name,
				StartIndex:   start,
				EndIndex:     closeEnd,
				FullMatch:    fullMatch,
				InnerContent: inner,
				Slots:        parseSlots(inner),
				TemplateKey:  strings.ToLower(name),
			})
		}
		pos = closeEnd
	}
}

// parseSlots scans innerContent for {{@HTMLPLACEHOLDER[n]}}...
// {{/HTMLPLACEHOLDER[n]}} occurrences.
func parseSlots(innerContent string) []templatemodel.SlotPlaceholder {
	var result []templatemodel.SlotPlaceholder
	const prefix = "{{@HTMLPLACEHOLDER"
	pos := 0
	for {
		start := strings.Index(innerContent[pos:], prefix)
		if start == -1 {
			return result
		}
		start += pos
		numStart := start + len(prefix)
		numEnd := numStart
		for numEnd < len(innerContent) && innerContent[numEnd] >= '0' && innerContent[numEnd] <= '9' {
			numEnd++
		}
		if numEnd+2 > len(innerContent) || innerContent[numEnd:numEnd+2] != "}}" {
			pos = start + 1
			continue
		}
		number := innerContent[numStart:numEnd]
		var openTag, closeTag, slotKey string
		if number == "" {
			openTag = "{{@HTMLPLACEHOLDER}}"
			closeTag = "{{/HTMLPLACEHOLDER}}"
			slotKey = "{{$HTMLPLACEHOLDER}}"
		} else {
			openTag = "{{@HTMLPLACEHOLDER" + number + "}}"
			closeTag = "{{/HTMLPLACEHOLDER" + number + "}}"
			slotKey = "{{$HTMLPLACEHOLDER" + number + "}}"
		}
		afterOpen := numEnd + 2
		closeIdx := templatecommon.FindMatchingCloseTag(innerContent, afterOpen, openTag, closeTag)
		if closeIdx == -1 {
			pos = start + 1
			continue
		}
		closeEnd := closeIdx + len(closeTag)
		slotContent := innerContent[afterOpen:closeIdx]
		result = append(result, templatemodel.SlotPlaceholder{
			Number:                 number,
			Content:                slotContent,
			SlotKey:                slotKey,
			OpenTag:                openTag,
			CloseTag:               closeTag,
			NestedSlottedTemplates: parseSlottedTemplates(slotContent),
			NestedPlaceholders:     parsePlaceholderTemplates(slotContent),
		})
		pos = closeEnd
	}
}

// parsePlaceholderTemplates scans content for {{Name}} occurrences,
// skipping the #, @, $, and / prefixed forms, deduping by name.
func parsePlaceholderTemplates(content string) []templatemodel.TemplatePlaceholder {
	var result []templatemodel.TemplatePlaceholder
	seen := map[string]bool{}
	pos := 0
	for {
		start := strings.Index(content[pos:], "{{")
		if start == -1 {
			return result
		}
		start += pos
		if start+2 >= len(content) {
			return result
		}
		next := content[start+2]
		if next == '#' || next == '@' || next == '$' || next == '/' {
			pos = start + 2
			continue
		}
		nameEnd := strings.Index(content[start+2:], "}}")
		if nameEnd == -1 {
			return result
		}
		nameEnd += start + 2
		name := strings.TrimSpace(content[start+2 : nameEnd])
		closeEnd := nameEnd + 2
		if name == "" || !templatecommon.IsAlphanumeric(name) {
			pos = start + 2
			continue
		}
		if !seen[name] {
			seen[name] = true
			result = append(result, templatemodel.TemplatePlaceholder{
				Name:        name,
				StartIndex:  start,
				EndIndex:    closeEnd,
				FullMatch:   content[start:closeEnd],
				TemplateKey: strings.ToLower(name),
			})
		}
		pos = closeEnd
	}
}
