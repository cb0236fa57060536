package templatecommon

import "testing"

func TestIsAlphanumeric(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"letters", "Header", true},
		{"digits", "123", true},
		{"mixed", "Header2", true},
		{"space", "Head er", false},
		{"punct", "Header-2", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAlphanumeric(tc.in); got != tc.want {
				t.Errorf("IsAlphanumeric(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFindMatchingCloseTag(t *testing.T) {
	content := "{{#Outer}}a{{#Outer}}b{{/Outer}}c{{/Outer}}d"
	startPos := len("{{#Outer}}")
	got := FindMatchingCloseTag(content, startPos, "{{#Outer}}", "{{/Outer}}")
	want := len("{{#Outer}}a{{#Outer}}b{{/Outer}}c")
	if got != want {
		t.Errorf("FindMatchingCloseTag = %d, want %d", got, want)
	}
}

func TestFindMatchingCloseTagNoMatch(t *testing.T) {
	content := "{{#Outer}}a"
	got := FindMatchingCloseTag(content, len("{{#Outer}}"), "{{#Outer}}", "{{/Outer}}")
	if got != -1 {
		t.Errorf("FindMatchingCloseTag = %d, want -1", got)
	}
}

func TestRemoveRemainingSlotPlaceholders(t *testing.T) {
	in := "before {{$HTMLPLACEHOLDER}} middle {{$HTMLPLACEHOLDER2}} after"
	got := RemoveRemainingSlotPlaceholders(in)
	want := "before  middle  after"
	if got != want {
		t.Errorf("RemoveRemainingSlotPlaceholders = %q, want %q", got, want)
	}
}

func TestReplaceCaseInsensitive(t *testing.T) {
	got := ReplaceCaseInsensitive("HeaderContent", "header", "Footer")
	if got != "FooterContent" {
		t.Errorf("ReplaceCaseInsensitive = %q, want %q", got, "FooterContent")
	}
}

func TestReplaceAllCaseInsensitive(t *testing.T) {
	got := ReplaceAllCaseInsensitive("{{$Name}} and {{$NAME}}", "{{$name}}", "Ada")
	want := "Ada and Ada"
	if got != want {
		t.Errorf("ReplaceAllCaseInsensitive = %q, want %q", got, want)
	}
}
