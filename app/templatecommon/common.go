// Package templatecommon holds the low-level scanning primitives
// shared by the scan and preprocess template engines: brace matching,
// alphanumeric validation, and case-insensitive substring replace.
package templatecommon

import "strings"

// IsAlphanumeric reports whether s is non-empty and every rune is an
// ASCII letter or digit. Template and slot names outside this charset
// are treated as malformed and left untouched by the engines.
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// FindMatchingCloseTag scans content starting at startPos (the index
// just past an already-consumed open tag) for the close tag matching
// that open tag, accounting for nested occurrences of the same pair.
// The comparison is case-insensitive, since callers sometimes derive
// tags from a JSON key's casing rather than the literal markup. It
// returns the index of the matching close tag's start, or -1 if the
// nesting never closes.
func FindMatchingCloseTag(content string, startPos int, openTag, closeTag string) int {
	lower := strings.ToLower(content)
	openLower := strings.ToLower(openTag)
	closeLower := strings.ToLower(closeTag)
	depth := 1
	pos := startPos
	for {
		nextOpen := indexFrom(lower, openLower, pos)
		nextClose := indexFrom(lower, closeLower, pos)
		if nextClose == -1 {
			return -1
		}
		if nextOpen != -1 && nextOpen < nextClose {
			depth++
			pos = nextOpen + len(openTag)
			continue
		}
		depth--
		if depth == 0 {
			return nextClose
		}
		pos = nextClose + len(closeTag)
	}
}

func indexFrom(s, sub string, from int) int {
	if from >= len(s) {
		return -1
	}
	idx := strings.Index(s[from:], sub)
	if idx == -1 {
		return -1
	}
	return idx + from
}

// RemoveRemainingSlotPlaceholders strips every unfilled
// {{$HTMLPLACEHOLDER}} / {{$HTMLPLACEHOLDER<n>}} token from content.
func RemoveRemainingSlotPlaceholders(content string) string {
	const prefix = "{{$HTMLPLACEHOLDER"
	from := 0
	for {
		rel := strings.Index(content[from:], prefix)
		if rel == -1 {
			return content
		}
		start := from + rel
		pos := start + len(prefix)
		for pos < len(content) && content[pos] >= '0' && content[pos] <= '9' {
			pos++
		}
		if pos+2 > len(content) || content[pos:pos+2] != "}}" {
			// Not a well-formed token; skip past the prefix to avoid
			// looping on it forever.
			from = pos
			continue
		}
		content = content[:start] + content[pos+2:]
		from = start
	}
}

// ReplaceCaseInsensitive replaces the first case-insensitive
// occurrence of from in text with to, preserving the original casing
// everywhere outside the matched span.
func ReplaceCaseInsensitive(text, from, to string) string {
	idx := FindCaseInsensitive(text, from)
	if idx == -1 {
		return text
	}
	return text[:idx] + to + text[idx+len(from):]
}

// ReplaceAllCaseInsensitive repeatedly replaces case-insensitive
// occurrences of search in input with replacement, resuming the scan
// just past each inserted replacement so substitution text containing
// the search term is never rescanned.
func ReplaceAllCaseInsensitive(input, search, replacement string) string {
	if search == "" {
		return input
	}
	result := input
	idx := 0
	for {
		rel := FindCaseInsensitive(result[idx:], search)
		if rel == -1 {
			return result
		}
		found := idx + rel
		result = result[:found] + replacement + result[found+len(search):]
		idx = found + len(replacement)
	}
}

// FindCaseInsensitive returns the byte index of the first
// case-insensitive occurrence of needle in haystack, or -1.
func FindCaseInsensitive(haystack, needle string) int {
	return strings.Index(strings.ToLower(haystack), strings.ToLower(needle))
}
