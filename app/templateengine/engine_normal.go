package templateengine

import (
	"sort"
	"strings"

	assemblerjson "github.com/Guerrilla-Interactive/site-assembler/app/json"
	"github.com/Guerrilla-Interactive/site-assembler/app/jsonbinding"
	"github.com/Guerrilla-Interactive/site-assembler/app/templatecommon"
	"github.com/Guerrilla-Interactive/site-assembler/app/templateloader"
)

// EngineNormal resolves every reference by rescanning raw HTML on
// each merge call. It never mutates or caches anything beyond the
// lifetime of one MergeTemplates call.
type EngineNormal struct {
	ViewPrefix string
}

// MergeTemplates resolves appFile within appSite's raw templates and
// returns the fully merged HTML, or "" if the entry template cannot
// be found.
func (e *EngineNormal) MergeTemplates(appSite, appFile, appView string, templates map[string]templateloader.RawTemplate, enableJSON bool) string {
	if len(templates) == 0 {
		return ""
	}
	keys := rawKeySet(templates)
	mainKey, ok := resolveKey(appSite, appFile, appView, e.ViewPrefix, true, func(k string) (string, bool) {
		return findKeyCaseInsensitive(keys, k)
	})
	if !ok {
		return ""
	}

	mainContent := templates[mainKey].HTML
	if enableJSON && templates[mainKey].JSON != "" {
		mainContent = jsonbinding.Apply(mainContent, assemblerjson.Parse(templates[mainKey].JSON))
	}

	processed := map[string]string{}
	jsonValuePool := map[string]string{}

	if enableJSON && templates[mainKey].JSON != "" {
		collectScalarPool(assemblerjson.Parse(templates[mainKey].JSON), jsonValuePool)
	}
	for _, key := range sortedRawKeys(templates) {
		raw := templates[key]
		html := raw.HTML
		if enableJSON && raw.JSON != "" {
			data := assemblerjson.Parse(raw.JSON)
			html = jsonbinding.Apply(html, data)
			collectScalarPool(data, jsonValuePool)
		}
		processed[key] = html
	}
	processed[mainKey] = mainContent

	result := mainContent
	for {
		next := mergeTemplateSlots(result, appSite, appView, e.ViewPrefix, processed)
		next = replacePlaceholdersWithJSON(next, appSite, appView, e.ViewPrefix, processed, jsonValuePool)
		if next == result {
			return result
		}
		result = next
	}
}

func rawKeySet(templates map[string]templateloader.RawTemplate) map[string]bool {
	keys := make(map[string]bool, len(templates))
	for k := range templates {
		keys[k] = true
	}
	return keys
}

// sortedRawKeys returns templates' keys in fixed ascending order, so
// that collectScalarPool's last-writer-wins collision tiebreak is
// reproducible across runs and agrees with the preprocess engine's
// SortedKeys() iteration.
func sortedRawKeys(templates map[string]templateloader.RawTemplate) []string {
	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func collectScalarPool(data *assemblerjson.Object, pool map[string]string) {
	for _, key := range data.Keys() {
		val, _ := data.Get(key)
		if val.Kind == assemblerjson.KindString {
			pool[key] = val.Str
		}
	}
}

// mergeTemplateSlots repeatedly expands {{#Name}}...{{/Name}} slotted
// references until a full pass makes no change.
func mergeTemplateSlots(content, appSite, appView, viewPrefix string, templates map[string]string) string {
	if content == "" || len(templates) == 0 {
		return content
	}
	for {
		next := processTemplateSlotsOnce(content, appSite, appView, viewPrefix, templates)
		if next == content {
			return content
		}
		content = next
	}
}

func processTemplateSlotsOnce(content, appSite, appView, viewPrefix string, templates map[string]string) string {
	pos := 0
	for {
		start := strings.Index(content[pos:], "{{#")
		if start == -1 {
			return content
		}
		start += pos
		nameStart := start + 3
		nameEnd := strings.Index(content[nameStart:], "}}")
		if nameEnd == -1 {
			return content
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
		innerContent := content[afterOpen:closeIdx]

		keys := strKeySet(templates)
		targetKey, ok := resolveKey(appSite, name, appView, viewPrefix, true, func(k string) (string, bool) {
			return findKeyCaseInsensitive(keys, k)
		})
		if !ok {
			pos = start + 1
			continue
		}
		targetHTML := templates[targetKey]
		slots := extractSlotContents(innerContent, appSite, appView, viewPrefix, templates)
		processedTemplate := targetHTML
		for slotKey, slotValue := range slots {
			processedTemplate = strings.ReplaceAll(processedTemplate, slotKey, slotValue)
		}
		if len(slots) == 0 && strings.TrimSpace(innerContent) != "" {
			processedTemplate = strings.ReplaceAll(processedTemplate, "{{$HTMLPLACEHOLDER}}", strings.TrimSpace(innerContent))
		}
		processedTemplate = templatecommon.RemoveRemainingSlotPlaceholders(processedTemplate)

		content = content[:start] + processedTemplate + content[closeEnd:]
		pos = start + len(processedTemplate)
	}
}

func strKeySet(m map[string]string) map[string]bool {
	keys := make(map[string]bool, len(m))
	for k := range m {
		keys[k] = true
	}
	return keys
}

func extractSlotContents(innerContent, appSite, appView, viewPrefix string, templates map[string]string) map[string]string {
	result := map[string]string{}
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
			openTag, closeTag, slotKey = "{{@HTMLPLACEHOLDER}}", "{{/HTMLPLACEHOLDER}}", "{{$HTMLPLACEHOLDER}}"
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
		slotContent = mergeTemplateSlots(slotContent, appSite, appView, viewPrefix, templates)
		slotContent = replaceTemplatePlaceholders(slotContent, appSite, appView, viewPrefix, templates)
		result[slotKey] = slotContent
		pos = closeEnd
	}
}

// replaceTemplatePlaceholders resolves plain {{Name}} references to
// fragment content, without any JSON scalar handling.
func replaceTemplatePlaceholders(content, appSite, appView, viewPrefix string, templates map[string]string) string {
	pos := 0
	for {
		start := strings.Index(content[pos:], "{{")
		if start == -1 {
			return content
		}
		start += pos
		if start+2 >= len(content) {
			return content
		}
		next := content[start+2]
		if next == '#' || next == '@' || next == '$' || next == '/' {
			pos = start + 2
			continue
		}
		nameEnd := strings.Index(content[start+2:], "}}")
		if nameEnd == -1 {
			return content
		}
		nameEnd += start + 2
		name := strings.TrimSpace(content[start+2 : nameEnd])
		closeEnd := nameEnd + 2
		if name == "" || !templatecommon.IsAlphanumeric(name) {
			pos = closeEnd
			continue
		}
		keys := strKeySet(templates)
		targetKey, ok := resolveKey(appSite, name, appView, viewPrefix, true, func(k string) (string, bool) {
			return findKeyCaseInsensitive(keys, k)
		})
		if !ok {
			pos = closeEnd
			continue
		}
		resolved := replaceTemplatePlaceholders(templates[targetKey], appSite, appView, viewPrefix, templates)
		content = content[:start] + resolved + content[closeEnd:]
		pos = start + len(resolved)
	}
}

// replacePlaceholdersWithJSON is the hybrid scan used at the outer
// merge loop: {{$Key}} resolves against the scalar pool first,
// alphanumeric names resolve as fragment references (recursing into
// this same function) and fall back to the scalar pool when no
// fragment matches; any other token is left as is.
func replacePlaceholdersWithJSON(content, appSite, appView, viewPrefix string, templates map[string]string, jsonValues map[string]string) string {
	pos := 0
	for {
		start := strings.Index(content[pos:], "{{")
		if start == -1 {
			return content
		}
		start += pos
		if start+2 >= len(content) {
			return content
		}
		next := content[start+2]
		if next == '#' || next == '@' || next == '/' {
			pos = start + 2
			continue
		}
		nameEnd := strings.Index(content[start+2:], "}}")
		if nameEnd == -1 {
			return content
		}
		nameEnd += start + 2
		raw := strings.TrimSpace(content[start+2 : nameEnd])
		closeEnd := nameEnd + 2
		if raw == "" {
			pos = closeEnd
			continue
		}

		var replacement string
		found := false

		if strings.HasPrefix(raw, "$") {
			jsonKey := raw[1:]
			if v, ok := jsonValues[jsonKey]; ok {
				replacement, found = v, true
			}
		} else if templatecommon.IsAlphanumeric(raw) {
			keys := strKeySet(templates)
			targetKey, ok := resolveKey(appSite, raw, appView, viewPrefix, true, func(k string) (string, bool) {
				return findKeyCaseInsensitive(keys, k)
			})
			if ok {
				replacement = replacePlaceholdersWithJSON(templates[targetKey], appSite, appView, viewPrefix, templates, jsonValues)
				found = true
			} else if v, ok := jsonValues[raw]; ok {
				replacement, found = v, true
			}
		}

		if !found {
			pos = closeEnd
			continue
		}
		content = content[:start] + replacement + content[closeEnd:]
		pos = start + len(replacement)
	}
}
