// Package templateengine implements the two merge strategies: the
// scan engine (EngineNormal), which resolves references by rescanning
// raw HTML on every merge call, and the preprocess engine
// (EnginePreProcess), which applies a flat list of mappings built by
// the loader ahead of time. Both share the view-fallback name
// resolution rule implemented here.
package templateengine

import (
	"strings"

	"github.com/Guerrilla-Interactive/site-assembler/app/templatecommon"
)

// resolveKey computes the template key to look up for templateName,
// applying the view-fallback rule: if useViewFallback is set, a view
// prefix is configured, and an app view was given, the name with the
// prefix swapped for the view is tried first; the primary
// "<site>_<name>" key is tried second. exists reports whether a
// candidate key is present (the callers match case-insensitively),
// returning the key as stored.
func resolveKey(appSite, templateName, appView, viewPrefix string, useViewFallback bool, exists func(key string) (string, bool)) (string, bool) {
	if useViewFallback && viewPrefix != "" && appView != "" {
		if templatecommon.FindCaseInsensitive(templateName, viewPrefix) != -1 {
			viewName := templatecommon.ReplaceCaseInsensitive(templateName, viewPrefix, appView)
			viewKey := strings.ToLower(appSite) + "_" + strings.ToLower(viewName)
			if canon, ok := exists(viewKey); ok {
				return canon, true
			}
		}
	}
	primaryKey := strings.ToLower(appSite) + "_" + strings.ToLower(templateName)
	return exists(primaryKey)
}

func findKeyCaseInsensitive(keys map[string]bool, want string) (string, bool) {
	if keys[want] {
		return want, true
	}
	for k := range keys {
		if strings.EqualFold(k, want) {
			return k, true
		}
	}
	return "", false
}
