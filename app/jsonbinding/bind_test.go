package jsonbinding

import (
	"testing"

	assemblerjson "github.com/Guerrilla-Interactive/site-assembler/app/json"
)

func TestApplyArrayBlockExpansion(t *testing.T) {
	content := `<ul>{{@Items}}<li>{{$Name}}</li>{{/Items}}</ul>`
	data := assemblerjson.Parse(`{"items":[{"Name":"One"},{"Name":"Two"}]}`)

	got := Apply(content, data)
	want := `<ul><li>One</li><li>Two</li></ul>`
	if got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestApplySingularPluralSymmetry(t *testing.T) {
	content := `{{@Item}}{{$Name}} {{/Item}}`
	data := assemblerjson.Parse(`{"items":[{"Name":"A"},{"Name":"B"}]}`)
	got := Apply(content, data)
	if got != "A B " {
		t.Errorf("Apply() = %q, want %q", got, "A B ")
	}
}

func TestApplyEmptyArrayBlock(t *testing.T) {
	content := `{{^Items}}No items{{/Items}}{{@Items}}{{$Name}}{{/Items}}`
	data := assemblerjson.Parse(`{"items":[]}`)
	got := Apply(content, data)
	if got != "No items" {
		t.Errorf("Apply() = %q, want %q", got, "No items")
	}
}

func TestApplyConditionalBlock(t *testing.T) {
	content := `{{@Featured}}<span>Featured</span>{{/Featured}}`
	trueVal, _ := assemblerjson.Parse(`{"featured": true}`).Get("featured")
	falseVal, _ := assemblerjson.Parse(`{"featured": false}`).Get("featured")

	if got := applyConditional(content, "Featured", trueVal.Truthy()); got != "<span>Featured</span>" {
		t.Errorf("conditional true = %q", got)
	}
	if got := applyConditional(content, "Featured", falseVal.Truthy()); got != "" {
		t.Errorf("conditional false = %q", got)
	}
}

func TestApplyNullStringsAsEmpty(t *testing.T) {
	content := `{{@Items}}[{{$Name}}|{{$Tag}}]{{/Items}}`
	data := assemblerjson.Parse(`{"items":[{"Name":"A","Tag":null}]}`)
	got := Apply(content, data)
	if got != "[A|]" {
		t.Errorf("Apply() = %q, want %q", got, "[A|]")
	}
}

func TestApplyScalarSubstitution(t *testing.T) {
	content := `<h1>{{$Title}}</h1>`
	data := assemblerjson.Parse(`{"Title":"Hello"}`)
	got := Apply(content, data)
	if got != "<h1>Hello</h1>" {
		t.Errorf("Apply() = %q, want %q", got, "<h1>Hello</h1>")
	}
}

func TestApplyIdempotent(t *testing.T) {
	content := `<ul>{{@Items}}<li>{{$Name}}</li>{{/Items}}</ul>`
	data := assemblerjson.Parse(`{"items":[{"Name":"One"}]}`)
	once := Apply(content, data)
	twice := Apply(once, data)
	if once != twice {
		t.Errorf("Apply is not idempotent: %q vs %q", once, twice)
	}
}
