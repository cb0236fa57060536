package templateengine

import (
	"sort"
	"strings"

	"github.com/Guerrilla-Interactive/site-assembler/app/templatecommon"
	"github.com/Guerrilla-Interactive/site-assembler/app/templatemodel"
)

const maxApplyPasses = 10

// EnginePreProcess merges a site's entry template using the flat
// replacement mappings templateloader.LoadPreprocessedTemplates
// already built at load time.
// It never rescans raw HTML for references; it only re-resolves
// simple-reference mappings' view-fallback target at apply time.
type EnginePreProcess struct {
	ViewPrefix string
}

func (e *EnginePreProcess) MergeTemplates(appSite, appFile, appView string, site *templatemodel.PreprocessedSiteTemplates, enableJSON bool) string {
	if site == nil || len(site.Templates) == 0 {
		return ""
	}
	mainKey, ok := resolveKey(appSite, appFile, appView, e.ViewPrefix, true, func(k string) (string, bool) {
		return findKeyCaseInsensitive(site.TemplateKeys, k)
	})
	if !ok {
		return ""
	}
	main := site.Templates[mainKey]
	return e.applyTemplateReplacements(main.OriginalContent, appSite, appView, site, enableJSON)
}

func (e *EnginePreProcess) applyTemplateReplacements(content, appSite, appView string, site *templatemodel.PreprocessedSiteTemplates, enableJSON bool) string {
	result := content
	for pass := 0; pass < maxApplyPasses; pass++ {
		previous := result
		for _, key := range site.SortedKeys() {
			t := site.Templates[key]
			// MappingKind values are declared in apply order: slotted,
			// then simple, then JSON; the stable sort keeps the recorded
			// order within each kind.
			mappings := append([]templatemodel.ReplacementMapping(nil), t.ReplacementMappings...)
			sort.SliceStable(mappings, func(i, j int) bool { return mappings[i].Kind < mappings[j].Kind })
			for _, m := range mappings {
				switch m.Kind {
				case templatemodel.MappingSlottedTemplate:
					if strings.Contains(result, m.OriginalText) {
						result = strings.ReplaceAll(result, m.OriginalText, m.ReplacementText)
					}
				case templatemodel.MappingSimpleTemplate:
					if strings.Contains(result, m.OriginalText) {
						replacement := e.applyViewLogic(m.OriginalText, m.ReplacementText, appSite, appView, site)
						result = strings.ReplaceAll(result, m.OriginalText, replacement)
					}
				case templatemodel.MappingJSONPlaceholder:
					if enableJSON && strings.Contains(result, m.OriginalText) {
						result = strings.ReplaceAll(result, m.OriginalText, m.ReplacementText)
					}
				}
			}
			if enableJSON {
				for _, jp := range t.JSONPlaceholders {
					result = templatecommon.ReplaceAllCaseInsensitive(result, jp.Placeholder, jp.Value)
				}
			}
		}
		if result == previous {
			break
		}
	}
	return result
}

// applyViewLogic re-resolves a simple-reference mapping's target at
// execution time against the current app view, rather than trusting
// the mapping's baked-in replacement text (which was computed without
// knowledge of which view the caller would request).
func (e *EnginePreProcess) applyViewLogic(originalText, fallback, appSite, appView string, site *templatemodel.PreprocessedSiteTemplates) string {
	name := extractPlaceholderName(originalText)
	if name == "" {
		return fallback
	}
	targetKey, ok := resolveKey(appSite, name, appView, e.ViewPrefix, true, func(k string) (string, bool) {
		return findKeyCaseInsensitive(site.TemplateKeys, k)
	})
	if !ok {
		return fallback
	}
	return site.Templates[targetKey].OriginalContent
}

func extractPlaceholderName(text string) string {
	if !strings.HasPrefix(text, "{{") || !strings.HasSuffix(text, "}}") {
		return ""
	}
	return strings.TrimSpace(text[2 : len(text)-2])
}
