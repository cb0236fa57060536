package templateloader

import (
	"strings"

	assemblerjson "github.com/Guerrilla-Interactive/site-assembler/app/json"
	"github.com/Guerrilla-Interactive/site-assembler/app/templatecommon"
	"github.com/Guerrilla-Interactive/site-assembler/app/templatemodel"
)

// createJSONArrayReplacementMappings builds, for each array-typed
// top-level JSON key, a mapping from the literal array block text to
// its rendered items, and (if present) a mapping from the matching
// {{^tag}}...{{/tag}} empty block to its resolved text.
func createJSONArrayReplacementMappings(t *templatemodel.PreprocessedTemplate, content string) {
	for _, key := range t.JSONData.Keys() {
		val, _ := t.JSONData.Get(key)
		arr, ok := val.AsArray()
		if !ok {
			continue
		}
		keyNorm := strings.ToLower(key)
		candidates := []string{key, keyNorm}
		if strings.HasSuffix(keyNorm, "s") {
			candidates = append(candidates, strings.TrimSuffix(keyNorm, "s"))
		}
		candidates = append(candidates, keyNorm+"s")

		for _, tag := range candidates {
			openTag := "{{@" + tag + "}}"
			closeTag := "{{/" + tag + "}}"
			startIdx := templatecommon.FindCaseInsensitive(content, openTag)
			if startIdx == -1 {
				continue
			}
			afterOpen := startIdx + len(openTag)
			closeIdx := templatecommon.FindMatchingCloseTag(content, afterOpen, openTag, closeTag)
			if closeIdx == -1 || closeIdx <= afterOpen-1 {
				continue
			}
			blockContent := content[afterOpen:closeIdx]
			fullBlock := content[startIdx : closeIdx+len(closeTag)]
			rendered := renderArrayBlockItems(blockContent, arr)
			t.ReplacementMappings = append(t.ReplacementMappings, templatemodel.ReplacementMapping{
				Kind:            templatemodel.MappingJSONPlaceholder,
				OriginalText:    fullBlock,
				ReplacementText: rendered,
			})
			break
		}

		// The {{^tag}} empty-array block is mapped independently of
		// whether a sibling {{@tag}} block exists in this fragment, so
		// a lone {{^Tag}} resolves the same way the scan engine
		// resolves it via jsonbinding.applyEmptyArrayBlocks.
		for _, tag := range candidates {
			closeTag := "{{/" + tag + "}}"
			emptyOpen := "{{^" + tag + "}}"
			emptyStart := templatecommon.FindCaseInsensitive(content, emptyOpen)
			if emptyStart == -1 {
				continue
			}
			emptyAfterOpen := emptyStart + len(emptyOpen)
			emptyClose := templatecommon.FindMatchingCloseTag(content, emptyAfterOpen, emptyOpen, closeTag)
			if emptyClose == -1 {
				continue
			}
			emptyInner := content[emptyAfterOpen:emptyClose]
			emptyFull := content[emptyStart : emptyClose+len(closeTag)]
			replacement := ""
			if arr.IsEmpty() {
				replacement = emptyInner
			}
			t.ReplacementMappings = append(t.ReplacementMappings, templatemodel.ReplacementMapping{
				Kind:            templatemodel.MappingJSONPlaceholder,
				OriginalText:    emptyFull,
				ReplacementText: replacement,
			})
			break
		}
	}
}

func renderArrayBlockItems(blockContent string, arr *assemblerjson.Array) string {
	condKeys := collectConditionalKeyNames(blockContent)
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
			itemBlock = templatecommon.ReplaceAllCaseInsensitive(itemBlock, placeholder, scalarTextFor(val))
		}
		for _, condKey := range condKeys {
			_, val, found := obj.GetCaseInsensitive(condKey)
			truthy := found && val.Truthy()
			itemBlock = applyConditionalBlock(itemBlock, condKey, truthy)
		}
		sb.WriteString(itemBlock)
	}
	return sb.String()
}

func scalarTextFor(v assemblerjson.Value) string {
	switch v.Kind {
	case assemblerjson.KindNull, assemblerjson.KindArray, assemblerjson.KindObject:
		return ""
	default:
		return v.String()
	}
}

func collectConditionalKeyNames(content string) []string {
	lower := strings.ToLower(content)
	var keys []string
	seen := map[string]bool{}
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

func applyConditionalBlock(input, key string, truthy bool) string {
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

// createJSONPlaceholderReplacementMappings builds a mapping for every
// top-level string-valued JSON key found as either {{$Key}} or the
// bare {{Key}} form in content, and records each as a scalar
// JSONPlaceholder for the preprocess engine's final pass.
func createJSONPlaceholderReplacementMappings(t *templatemodel.PreprocessedTemplate, content string) {
	seenPlaceholders := map[string]bool{}
	for _, key := range t.JSONData.Keys() {
		val, _ := t.JSONData.Get(key)
		if val.Kind != assemblerjson.KindString {
			continue
		}
		for _, placeholder := range []string{"{{$" + key + "}}", "{{" + key + "}}"} {
			if templatecommon.FindCaseInsensitive(content, placeholder) == -1 {
				continue
			}
			t.ReplacementMappings = append(t.ReplacementMappings, templatemodel.ReplacementMapping{
				Kind:            templatemodel.MappingJSONPlaceholder,
				OriginalText:    placeholder,
				ReplacementText: val.Str,
			})
			if !seenPlaceholders[placeholder] {
				seenPlaceholders[placeholder] = true
				t.JSONPlaceholders = append(t.JSONPlaceholders, templatemodel.JSONPlaceholder{
					Key:         key,
					Placeholder: placeholder,
					Value:       val.Str,
				})
			}
		}
	}
}
