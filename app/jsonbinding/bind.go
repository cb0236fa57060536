// Package jsonbinding implements the JSON-to-HTML binding rules used
// by the scan template engine: array block expansion, conditional
// blocks, empty-array blocks, and scalar placeholder substitution.
// The preprocess loader (app/templateloader) does not call this
// package; it builds its JSON mappings with its own copy of the
// array-block, conditional and empty-block routines, which follow the
// same rules.
package jsonbinding

import (
	"strings"

	assemblerjson "github.com/Guerrilla-Interactive/site-assembler/app/json"
	"github.com/Guerrilla-Interactive/site-assembler/app/templatecommon"
)

// Apply binds data into content: it expands array blocks (with their
// conditional blocks) until none is left, then resolves empty-array
// blocks and substitutes scalar placeholders, each in a single pass.
func Apply(content string, data *assemblerjson.Object) string {
	if data == nil || data.IsEmpty() {
		return content
	}
	result := content
	for {
		next, changed := expandOneArrayBlock(result, data)
		if !changed {
			break
		}
		result = next
	}
	result = applyEmptyArrayBlocks(result, data)
	result = applyScalarSubstitution(result, data)
	return result
}

// expandOneArrayBlock finds the first JSON array key whose block tag
// appears in content and expands it, returning the new content and
// true. It processes only one block per call so that byte offsets
// computed before the splice stay valid; the caller loops until no
// block remains.
func expandOneArrayBlock(content string, data *assemblerjson.Object) (string, bool) {
	lower := strings.ToLower(content)
	present := collectTagNames(lower)

	for _, key := range data.Keys() {
		val, _ := data.Get(key)
		arr, ok := val.AsArray()
		if !ok {
			continue
		}
		keyNorm := strings.ToLower(key)
		tag, ok := matchArrayTag(keyNorm, present)
		if !ok {
			continue
		}
		openTag := "{{@" + tag + "}}"
		closeTag := "{{/" + tag + "}}"
		startIdx := templatecommon.FindCaseInsensitive(content, openTag)
		if startIdx == -1 {
			continue
		}
		afterOpen := startIdx + len(openTag)
		closeIdx := templatecommon.FindMatchingCloseTag(content, afterOpen, openTag, closeTag)
		if closeIdx == -1 {
			continue
		}
		blockContent := content[afterOpen:closeIdx]
		closeEnd := closeIdx + len(closeTag)
		rendered := renderArrayBlock(blockContent, arr)
		return content[:startIdx] + rendered + content[closeEnd:], true
	}
	return content, false
}

func collectTagNames(lowerContent string) map[string]bool {
	names := make(map[string]bool)
	const prefix = "{{@"
	pos := 0
	for {
		idx := strings.Index(lowerContent[pos:], prefix)
		if idx == -1 {
			return names
		}
		start := pos + idx + len(prefix)
		end := strings.Index(lowerContent[start:], "}}")
		if end == -1 {
			return names
		}
		name := lowerContent[start : start+end]
		if name != "" {
			names[name] = true
		}
		pos = start + end + 2
	}
}

// arrayTagCandidates returns the tag names a normalized array key may
// appear as in markup: itself, its singular (trailing 's' stripped),
// and its plural (trailing 's' appended).
func arrayTagCandidates(keyNorm string) []string {
	candidates := []string{keyNorm}
	if strings.HasSuffix(keyNorm, "s") {
		candidates = append(candidates, strings.TrimSuffix(keyNorm, "s"))
	}
	candidates = append(candidates, keyNorm+"s")
	return candidates
}

// matchArrayTag tries the key as-is, then singular (strip trailing
// 's'), then plural (append 's'), against the set of array tags
// actually present in the content.
func matchArrayTag(keyNorm string, present map[string]bool) (string, bool) {
	for _, c := range arrayTagCandidates(keyNorm) {
		if present[c] {
			return c, true
		}
	}
	return "", false
}

func renderArrayBlock(blockContent string, arr *assemblerjson.Array) string {
	condKeys := collectConditionalKeys(blockContent)
	var sb strings.Builder
	for _, item := range arr.Items() {
		obj, ok := item.AsObject()
		if !ok {
			continue
		}
		itemBlock := blockContent
		for _, key := range obj.Keys() {
			val, _ := obj.Get(key)
			placeholder := "{{$" + key + "}}"
			itemBlock = templatecommon.ReplaceAllCaseInsensitive(itemBlock, placeholder, scalarText(val))
		}
		for _, condKey := range condKeys {
			_, val, found := obj.GetCaseInsensitive(condKey)
			truthy := found && val.Truthy()
			itemBlock = applyConditional(itemBlock, condKey, truthy)
		}
		sb.WriteString(itemBlock)
	}
	return sb.String()
}

// scalarText stringifies a value for substitution inside an array
// item. Null and nested Array/Object values render as empty string in
// both engines, per the resolved equivalence requirement.
func scalarText(v assemblerjson.Value) string {
	switch v.Kind {
	case assemblerjson.KindNull, assemblerjson.KindArray, assemblerjson.KindObject:
		return ""
	default:
		return v.String()
	}
}

func collectConditionalKeys(content string) []string {
	lower := strings.ToLower(content)
	var keys []string
	seen := make(map[string]bool)
	const prefix = "{{@"
	pos := 0
	for {
		idx := strings.Index(lower[pos:], prefix)
		if idx == -1 {
			return keys
		}
		start := pos + idx + len(prefix)
		end := strings.Index(lower[start:], "}}")
		if end == -1 {
			return keys
		}
		name := strings.TrimSpace(content[start : start+end])
		if name != "" && !seen[strings.ToLower(name)] {
			seen[strings.ToLower(name)] = true
			keys = append(keys, name)
		}
		pos = start + end + 2
	}
}

// applyConditional resolves every {{@Key}}...{{/Key}} or
// {{@Key}}...{{ /Key}} span in input: keeps the inner content (tags
// stripped) when truthy is true, removes tags and content when false.
func applyConditional(input, key string, truthy bool) string {
	result := input
	for _, closeTag := range []string{"{{ /" + key + "}}", "{{/" + key + "}}"} {
		openTag := "{{@" + key + "}}"
		for {
			startIdx := templatecommon.FindCaseInsensitive(result, openTag)
			if startIdx == -1 {
				break
			}
			afterOpen := startIdx + len(openTag)
			closeIdx := templatecommon.FindCaseInsensitive(result[afterOpen:], closeTag)
			if closeIdx == -1 {
				break
			}
			closeIdx += afterOpen
			inner := result[afterOpen:closeIdx]
			closeEnd := closeIdx + len(closeTag)
			if truthy {
				result = result[:startIdx] + inner + result[closeEnd:]
			} else {
				result = result[:startIdx] + result[closeEnd:]
			}
		}
	}
	return result
}

func applyEmptyArrayBlocks(content string, data *assemblerjson.Object) string {
	result := content
	for _, key := range data.Keys() {
		val, _ := data.Get(key)
		arr, ok := val.AsArray()
		if !ok {
			continue
		}
		keyNorm := strings.ToLower(key)
		for _, tag := range arrayTagCandidates(keyNorm) {
			openTag := "{{^" + tag + "}}"
			closeTag := "{{/" + tag + "}}"
			startIdx := templatecommon.FindCaseInsensitive(result, openTag)
			if startIdx == -1 {
				continue
			}
			afterOpen := startIdx + len(openTag)
			closeIdx := templatecommon.FindMatchingCloseTag(result, afterOpen, openTag, closeTag)
			if closeIdx == -1 {
				continue
			}
			inner := result[afterOpen:closeIdx]
			closeEnd := closeIdx + len(closeTag)
			replacement := ""
			if arr.IsEmpty() {
				replacement = inner
			}
			result = result[:startIdx] + replacement + result[closeEnd:]
			break
		}
	}
	return result
}

func applyScalarSubstitution(content string, data *assemblerjson.Object) string {
	result := content
	for _, key := range data.Keys() {
		val, _ := data.Get(key)
		switch val.Kind {
		case assemblerjson.KindArray, assemblerjson.KindObject:
			continue
		}
		placeholder := "{{$" + key + "}}"
		text := scalarText(val)
		if strings.Contains(result, placeholder) {
			result = strings.ReplaceAll(result, placeholder, text)
		} else {
			result = templatecommon.ReplaceAllCaseInsensitive(result, placeholder, text)
		}
	}
	return result
}
