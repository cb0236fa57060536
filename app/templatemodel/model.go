// Package templatemodel defines the parsed, pre-analyzed shape of a
// single raw template: its slotted references, simple references,
// and JSON-derived replacement mappings. templateloader's
// LoadPreprocessedTemplates builds one
// of these per template at load time so the preprocess engine only
// has to apply a flat list of replacements at merge time.
package templatemodel

import (
	"sort"

	assemblerjson "github.com/Guerrilla-Interactive/site-assembler/app/json"
)

// MappingKind identifies which parsing stage produced a
// ReplacementMapping, which in turn determines how the preprocess
// engine applies it (see app/templateengine).
type MappingKind int

const (
	MappingSlottedTemplate MappingKind = iota
	MappingSimpleTemplate
	MappingJSONPlaceholder
)

// ReplacementMapping is one literal-text-to-literal-text substitution
// discovered while preprocessing a site's templates.
type ReplacementMapping struct {
	Kind            MappingKind
	OriginalText    string
	ReplacementText string
}

// TemplatePlaceholder is a single {{Name}} occurrence.
type TemplatePlaceholder struct {
	Name         string
	StartIndex   int
	EndIndex     int
	FullMatch    string
	TemplateKey  string
}

// SlotPlaceholder is one {{@HTMLPLACEHOLDER[n]}}...{{/HTMLPLACEHOLDER[n]}}
// occurrence found inside a slotted reference's inner content.
type SlotPlaceholder struct {
	Number               string
	Content              string
	SlotKey              string
	OpenTag              string
	CloseTag             string
	NestedPlaceholders    []TemplatePlaceholder
	NestedSlottedTemplates []SlottedTemplate
}

// SlottedTemplate is a single {{#Name}}...{{/Name}} occurrence.
type SlottedTemplate struct {
	Name          string
	StartIndex    int
	EndIndex      int
	FullMatch     string
	InnerContent  string
	Slots         []SlotPlaceholder
	TemplateKey   string
}

// PreprocessedTemplate is the complete static analysis of one raw
// template: its own HTML, optional JSON data, every placeholder and
// slotted reference it contains, and (after the site-wide linking
// pass) the flattened replacement mappings the preprocess engine
// executor applies at merge time.
type PreprocessedTemplate struct {
	OriginalContent      string
	JSONData             *assemblerjson.Object
	Placeholders         []TemplatePlaceholder
	SlottedTemplates     []SlottedTemplate
	JSONPlaceholders     []JSONPlaceholder
	ReplacementMappings  []ReplacementMapping
	HasSlottedTemplates  bool
	HasPlaceholders      bool
	HasJSONPlaceholders  bool
}

// JSONPlaceholder records a top-level string-valued JSON key that was
// found to match a {{$Key}} or bare {{Key}} placeholder in the
// template's own content.
type JSONPlaceholder struct {
	Key         string
	Placeholder string
	Value       string
}

func (t *PreprocessedTemplate) HasJSONData() bool {
	return t.JSONData != nil && !t.JSONData.IsEmpty()
}

// UpdateFlags recomputes the Has* summary flags from the parsed
// slices. Called once parsing of a template completes.
func (t *PreprocessedTemplate) UpdateFlags() {
	t.HasSlottedTemplates = len(t.SlottedTemplates) > 0
	t.HasPlaceholders = len(t.Placeholders) > 0
	t.HasJSONPlaceholders = len(t.JSONPlaceholders) > 0
}

// PreprocessedSiteTemplates is the full preprocessed state for one
// site: every template keyed by "<site>_<stem>", plus each template's
// raw HTML text and the set of known template keys.
type PreprocessedSiteTemplates struct {
	SiteName      string
	Templates     map[string]*PreprocessedTemplate
	RawTemplates  map[string]string
	TemplateKeys  map[string]bool
}

func NewPreprocessedSiteTemplates(site string) *PreprocessedSiteTemplates {
	return &PreprocessedSiteTemplates{
		SiteName:     site,
		Templates:    make(map[string]*PreprocessedTemplate),
		RawTemplates: make(map[string]string),
		TemplateKeys: make(map[string]bool),
	}
}

// SortedKeys returns the site's template keys in deterministic
// ascending order, used everywhere the engines must iterate a site's
// templates reproducibly.
func (s *PreprocessedSiteTemplates) SortedKeys() []string {
	keys := make([]string, 0, len(s.Templates))
	for k := range s.Templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
