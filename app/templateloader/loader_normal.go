// Package templateloader reads a site's HTML/JSON fragment pairs from
// disk and builds the in-memory structures the two template engines
// consume: a flat raw-template map for the scan engine, and a fully
// preprocessed, mapping-annotated set for the preprocess engine. Both
// loaders cache their results per (root directory, site) behind a
// mutex, exactly as the Rust reference's lazy_static caches do.
package templateloader

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// RawTemplate pairs a fragment's HTML with its optional sidecar JSON
// text (not yet parsed — the scan engine parses JSON lazily per call
// so it can be cleared and re-read without touching the loader cache).
type RawTemplate struct {
	HTML string
	JSON string
}

var (
	normalCacheMu sync.Mutex
	normalCache   = map[string]map[string]RawTemplate{}
)

// LoadRawTemplates returns every *.html fragment found under
// <rootDirPath>/AppSites/<appSite>, keyed by
// "<lowercase site>_<lowercase file stem>", each paired with its
// sibling *.json content if present. Results are cached per
// (rootDirPath, appSite) until ClearNormalCache is called.
func LoadRawTemplates(rootDirPath, appSite string) map[string]RawTemplate {
	cacheKey := rootDirPath + "|" + appSite

	normalCacheMu.Lock()
	if cached, ok := normalCache[cacheKey]; ok {
		normalCacheMu.Unlock()
		return cloneRaw(cached)
	}
	normalCacheMu.Unlock()

	result := map[string]RawTemplate{}
	sitePath := filepath.Join(rootDirPath, "AppSites", appSite)
	if _, err := os.Stat(sitePath); err == nil {
		matches, _ := doublestar.Glob(os.DirFS(sitePath), "**/*.html")
		for _, rel := range matches {
			full := filepath.Join(sitePath, rel)
			htmlBytes, err := os.ReadFile(full)
			html := ""
			if err == nil {
				html = string(htmlBytes)
			}
			stem := strings.TrimSuffix(filepath.Base(full), filepath.Ext(full))
			key := strings.ToLower(appSite) + "_" + strings.ToLower(stem)

			jsonText := ""
			jsonPath := strings.TrimSuffix(full, filepath.Ext(full)) + ".json"
			if jsonBytes, err := os.ReadFile(jsonPath); err == nil {
				jsonText = string(jsonBytes)
			}
			result[key] = RawTemplate{HTML: html, JSON: jsonText}
		}
	}

	normalCacheMu.Lock()
	normalCache[cacheKey] = result
	normalCacheMu.Unlock()

	return cloneRaw(result)
}

// ClearNormalCache drops every cached raw-template set.
func ClearNormalCache() {
	normalCacheMu.Lock()
	normalCache = map[string]map[string]RawTemplate{}
	normalCacheMu.Unlock()
}

func cloneRaw(m map[string]RawTemplate) map[string]RawTemplate {
	out := make(map[string]RawTemplate, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
