// Package scenario discovers every (site, file, view) merge scenario
// available under an AppSites root directory, the same way the
// reference web index page and CLI comparison harness both do.
package scenario

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scenario is one mergeable combination.
type Scenario struct {
	Site       string
	File       string
	View       string // "" for the no-view variant
	ViewPrefix string
}

// Discover walks rootDir/AppSites and returns every scenario found,
// sorted by site then file then view for reproducible output.
func Discover(rootDir string) []Scenario {
	appSitesPath := filepath.Join(rootDir, "AppSites")
	entries, err := os.ReadDir(appSitesPath)
	if err != nil {
		return nil
	}

	var sites []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if strings.EqualFold(e.Name(), "roottemplate.html") {
			continue
		}
		sites = append(sites, e.Name())
	}
	sort.Slice(sites, func(i, j int) bool { return strings.ToLower(sites[i]) < strings.ToLower(sites[j]) })

	var result []Scenario
	for _, site := range sites {
		sitePath := filepath.Join(appSitesPath, site)
		files := htmlStems(sitePath)
		sort.Slice(files, func(i, j int) bool { return strings.ToLower(files[i]) < strings.ToLower(files[j]) })

		viewNames, viewPrefixes := discoverViews(filepath.Join(sitePath, "Views"))

		for _, file := range files {
			genericPrefix := ""
			if len(file) >= 6 {
				genericPrefix = file[:6]
			}
			result = append(result, Scenario{Site: site, File: file, ViewPrefix: genericPrefix})

			matchedPrefix := ""
			for _, vp := range viewPrefixes {
				if strings.HasPrefix(strings.ToLower(file), strings.ToLower(vp)) {
					matchedPrefix = vp
					break
				}
			}
			if matchedPrefix == "" {
				continue
			}
			for _, viewName := range viewNames {
				result = append(result, Scenario{Site: site, File: file, View: viewName, ViewPrefix: matchedPrefix})
			}
		}
	}
	return result
}

func htmlStems(dirPath string) []string {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil
	}
	var stems []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			continue
		}
		stems = append(stems, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return stems
}

// discoverViews returns, for Views/*content.html files, the derived
// view name (the prefix before "content", capitalized) and the
// prefix itself in its original casing, matched case-insensitively to
// pair a root file with its views.
func discoverViews(viewsDir string) (names []string, prefixes []string) {
	for _, stem := range htmlStems(viewsDir) {
		idx := strings.Index(strings.ToLower(stem), "content")
		if idx <= 0 {
			continue
		}
		prefix := stem[:idx]
		names = append(names, capitalize(prefix))
		prefixes = append(prefixes, prefix)
	}
	return names, prefixes
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
