package templateengine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Guerrilla-Interactive/site-assembler/app/templateengine"
	"github.com/Guerrilla-Interactive/site-assembler/app/templateloader"
)

type fragment struct {
	name string
	html string
	json string
}

func writeSite(t *testing.T, site string, fragments []fragment) string {
	t.Helper()
	root := t.TempDir()
	sitePath := filepath.Join(root, "AppSites", site)
	if err := os.MkdirAll(sitePath, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, f := range fragments {
		htmlPath := filepath.Join(sitePath, f.name+".html")
		if err := os.WriteFile(htmlPath, []byte(f.html), 0o644); err != nil {
			t.Fatalf("write html: %v", err)
		}
		if f.json != "" {
			jsonPath := filepath.Join(sitePath, f.name+".json")
			if err := os.WriteFile(jsonPath, []byte(f.json), 0o644); err != nil {
				t.Fatalf("write json: %v", err)
			}
		}
	}
	return root
}

func mergeBoth(t *testing.T, root, site, file, view, viewPrefix string) (normal, preprocess string) {
	t.Helper()
	rawTemplates := templateloader.LoadRawTemplates(root, site)
	normalEngine := &templateengine.EngineNormal{ViewPrefix: viewPrefix}
	normal = normalEngine.MergeTemplates(site, file, view, rawTemplates, true)

	preprocessed := templateloader.LoadPreprocessedTemplates(root, site)
	preprocessEngine := &templateengine.EnginePreProcess{ViewPrefix: viewPrefix}
	preprocess = preprocessEngine.MergeTemplates(site, file, view, preprocessed, true)
	return
}

func TestEngineEquivalenceSimpleReference(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{name: "index", html: `<html>{{Header}}<body>Hi</body></html>`},
		{name: "header", html: `<header>Brand</header>`},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "index", "", "")
	want := `<html><header>Brand</header><body>Hi</body></html>`
	if normal != want {
		t.Errorf("normal engine = %q, want %q", normal, want)
	}
	if preprocess != want {
		t.Errorf("preprocess engine = %q, want %q", preprocess, want)
	}
}

func TestEngineEquivalenceSlottedReference(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{name: "index", html: `{{#Layout}}<main>{{@HTMLPLACEHOLDER}}Body{{/HTMLPLACEHOLDER}}</main>{{/Layout}}`},
		{name: "layout", html: `<div>{{$HTMLPLACEHOLDER}}</div>`},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "index", "", "")
	want := `<div>Body</div>`
	if normal != want {
		t.Errorf("normal engine = %q, want %q", normal, want)
	}
	if preprocess != want {
		t.Errorf("preprocess engine = %q, want %q", preprocess, want)
	}
}

func TestEngineEquivalenceJSONArrayAndConditional(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{
			name: "index",
			html: `<ul>{{@Items}}<li{{@Featured}} class="featured"{{/Featured}}>{{$Name}}</li>{{/Items}}</ul>{{^Items}}empty{{/Items}}`,
			json: `{"items":[{"Name":"A","Featured":true},{"Name":"B","Featured":false}]}`,
		},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "index", "", "")
	want := `<ul><li class="featured">A</li><li>B</li></ul>`
	if normal != want {
		t.Errorf("normal engine = %q, want %q", normal, want)
	}
	if preprocess != want {
		t.Errorf("preprocess engine = %q, want %q", preprocess, want)
	}
}

func TestEngineEquivalenceMissingReferencePreserved(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{name: "index", html: `<p>{{Missing}}</p>`},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "index", "", "")
	want := `<p>{{Missing}}</p>`
	if normal != want {
		t.Errorf("normal engine = %q, want %q", normal, want)
	}
	if preprocess != want {
		t.Errorf("preprocess engine = %q, want %q", preprocess, want)
	}
}

func TestEngineEquivalenceViewFallback(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{name: "mainview", html: `<html>{{Mainheader}}</html>`},
		{name: "mainheader", html: `<header>Default</header>`},
		{name: "specialheader", html: `<header>Special</header>`},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "mainview", "Special", "main")
	want := `<html><header>Special</header></html>`
	if normal != want {
		t.Errorf("normal engine = %q, want %q", normal, want)
	}
	if preprocess != want {
		t.Errorf("preprocess engine = %q, want %q", preprocess, want)
	}
}

func TestEngineEquivalenceEmptyArrayBlock(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{name: "index", html: `{{@Items}}<li>{{$Name}}</li>{{/Items}}{{^Items}}<p>none</p>{{/Items}}`, json: `{"items":[]}`},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "index", "", "")
	want := `<p>none</p>`
	if normal != want {
		t.Errorf("normal engine = %q, want %q", normal, want)
	}
	if preprocess != want {
		t.Errorf("preprocess engine = %q, want %q", preprocess, want)
	}
}

func TestEngineEquivalenceLoneEmptyArrayBlock(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{name: "index", html: `<div>{{^Items}}<p>none</p>{{/Items}}</div>`, json: `{"items":[]}`},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "index", "", "")
	want := `<div><p>none</p></div>`
	if normal != want {
		t.Errorf("normal engine = %q, want %q", normal, want)
	}
	if preprocess != want {
		t.Errorf("preprocess engine = %q, want %q", preprocess, want)
	}
}

func TestEngineEquivalenceLoneEmptyArrayBlockNonEmptyArray(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{name: "index", html: `<div>{{^Items}}<p>none</p>{{/Items}}</div>`, json: `{"items":[{"Name":"A"}]}`},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "index", "", "")
	want := `<div></div>`
	if normal != want {
		t.Errorf("normal engine = %q, want %q", normal, want)
	}
	if preprocess != want {
		t.Errorf("preprocess engine = %q, want %q", preprocess, want)
	}
}

func TestMissingEntryTemplateReturnsEmptyString(t *testing.T) {
	root := writeSite(t, "demo", []fragment{
		{name: "index", html: `<p>hi</p>`},
	})
	normal, preprocess := mergeBoth(t, root, "demo", "nope", "", "")
	if normal != "" {
		t.Errorf("normal engine = %q, want empty", normal)
	}
	if preprocess != "" {
		t.Errorf("preprocess engine = %q, want empty", preprocess)
	}
}
