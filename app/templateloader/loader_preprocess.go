package templateloader

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	assemblerjson "github.com/Guerrilla-Interactive/site-assembler/app/json"
	"github.com/Guerrilla-Interactive/site-assembler/app/templatecommon"
	"github.com/Guerrilla-Interactive/site-assembler/app/templatemodel"
)

var (
	preprocessCacheMu sync.Mutex
	preprocessCache   = map[string]*templatemodel.PreprocessedSiteTemplates{}
)

// LoadPreprocessedTemplates returns the fully preprocessed, mapping
// -annotated template set for appSite, building and caching it on
// first use.
func LoadPreprocessedTemplates(rootDirPath, appSite string) *templatemodel.PreprocessedSiteTemplates {
	cacheKey := rootDirPath + "|" + appSite

	preprocessCacheMu.Lock()
	if cached, ok := preprocessCache[cacheKey]; ok {
		preprocessCacheMu.Unlock()
		return cached
	}
	preprocessCacheMu.Unlock()

	result := templatemodel.NewPreprocessedSiteTemplates(appSite)
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

			result.RawTemplates[key] = html
			result.TemplateKeys[key] = true
			result.Templates[key] = preprocessTemplate(html, jsonText)
		}
		createAllReplacementMappingsForSite(result, appSite)
		for _, t := range result.Templates {
			t.UpdateFlags()
		}
	}

	preprocessCacheMu.Lock()
	preprocessCache[cacheKey] = result
	preprocessCacheMu.Unlock()

	return result
}

// ClearPreprocessCache drops every cached preprocessed site.
func ClearPreprocessCache() {
	preprocessCacheMu.Lock()
	preprocessCache = map[string]*templatemodel.PreprocessedSiteTemplates{}
	preprocessCacheMu.Unlock()
}

func preprocessTemplate(content, jsonContent string) *templatemodel.PreprocessedTemplate {
	t := &templatemodel.PreprocessedTemplate{OriginalContent: content}
	if content == "" {
		return t
	}
	if jsonContent != "" {
		t.JSONData = assemblerjson.Parse(jsonContent)
	}
	t.SlottedTemplates = parseSlottedTemplates(content)
	t.Placeholders = parsePlaceholderTemplates(content)
	if t.HasJSONData() {
		createJSONArrayReplacementMappings(t, content)
		createJSONPlaceholderReplacementMappings(t, content)
	}
	t.UpdateFlags()
	return t
}

// createAllReplacementMappingsForSite runs the three ordered linking
// passes: array/empty-block mappings (already built per-template
// during parsing, skipped here to avoid duplicate idempotent work),
// then simple-reference mappings against a site-wide snapshot, then
// slotted-reference mappings against a second snapshot taken after
// pass two.
func createAllReplacementMappingsForSite(site *templatemodel.PreprocessedSiteTemplates, appSite string) {
	snapshot1 := snapshotTemplates(site)
	for _, key := range site.SortedKeys() {
		createPlaceholderReplacementMappings(site.Templates[key], snapshot1, appSite)
	}

	snapshot2 := snapshotTemplates(site)
	for _, key := range site.SortedKeys() {
		createSlottedTemplateReplacementMappings(site.Templates[key], snapshot2, appSite)
	}
}

func snapshotTemplates(site *templatemodel.PreprocessedSiteTemplates) map[string]*templatemodel.PreprocessedTemplate {
	snap := make(map[string]*templatemodel.PreprocessedTemplate, len(site.Templates))
	for k, v := range site.Templates {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func createPlaceholderReplacementMappings(t *templatemodel.PreprocessedTemplate, all map[string]*templatemodel.PreprocessedTemplate, appSite string) {
	for _, ph := range t.Placeholders {
		targetKey := strings.ToLower(appSite) + "_" + ph.TemplateKey
		target, ok := all[targetKey]
		if !ok {
			continue
		}
		t.ReplacementMappings = append(t.ReplacementMappings, templatemodel.ReplacementMapping{
			Kind:            templatemodel.MappingSimpleTemplate,
			OriginalText:    ph.FullMatch,
			ReplacementText: target.OriginalContent,
		})
	}
}

func createSlottedTemplateReplacementMappings(t *templatemodel.PreprocessedTemplate, all map[string]*templatemodel.PreprocessedTemplate, appSite string) {
	for _, st := range t.SlottedTemplates {
		targetKey := strings.ToLower(appSite) + "_" + st.TemplateKey
		target, ok := all[targetKey]
		if !ok {
			continue
		}
		processed := target.OriginalContent
		for _, slot := range st.Slots {
			rendered := processSlotContentForReplacementMapping(slot, all, appSite)
			processed = strings.ReplaceAll(processed, slot.SlotKey, rendered)
		}
		if len(st.Slots) == 0 && strings.TrimSpace(st.InnerContent) != "" {
			const defaultSlotKey = "{{$HTMLPLACEHOLDER}}"
			if strings.Contains(processed, defaultSlotKey) {
				processed = strings.ReplaceAll(processed, defaultSlotKey, strings.TrimSpace(st.InnerContent))
			}
		}
		processed = templatecommon.RemoveRemainingSlotPlaceholders(processed)
		t.ReplacementMappings = append(t.ReplacementMappings, templatemodel.ReplacementMapping{
			Kind:            templatemodel.MappingSlottedTemplate,
			OriginalText:    st.FullMatch,
			ReplacementText: processed,
		})
	}
}

func processSlotContentForReplacementMapping(slot templatemodel.SlotPlaceholder, all map[string]*templatemodel.PreprocessedTemplate, appSite string) string {
	result := slot.Content
	for _, nested := range slot.NestedSlottedTemplates {
		targetKey := strings.ToLower(appSite) + "_" + nested.TemplateKey
		target, ok := all[targetKey]
		if !ok {
			continue
		}
		processed := target.OriginalContent
		for _, nestedSlot := range nested.Slots {
			rendered := processSlotContentForReplacementMapping(nestedSlot, all, appSite)
			processed = strings.ReplaceAll(processed, nestedSlot.SlotKey, rendered)
		}
		processed = templatecommon.RemoveRemainingSlotPlaceholders(processed)
		result = strings.ReplaceAll(result, nested.FullMatch, processed)
	}
	for _, nested := range slot.NestedPlaceholders {
		targetKey := strings.ToLower(appSite) + "_" + nested.TemplateKey
		target, ok := all[targetKey]
		if !ok {
			continue
		}
		result = strings.ReplaceAll(result, nested.FullMatch, target.OriginalContent)
	}
	return result
}
