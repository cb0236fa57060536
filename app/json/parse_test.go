package json

import "testing"

func TestParsePreservesIntegerVsNumber(t *testing.T) {
	obj := Parse(`{"count": 3, "price": 3.5, "name": "Ada", "active": true, "missing": null}`)

	if v, _ := obj.Get("count"); v.Kind != KindInteger || v.Int != 3 {
		t.Errorf("count = %+v, want Integer 3", v)
	}
	if v, _ := obj.Get("price"); v.Kind != KindNumber || v.Num != 3.5 {
		t.Errorf("price = %+v, want Number 3.5", v)
	}
	if v, _ := obj.Get("name"); v.Kind != KindString || v.Str != "Ada" {
		t.Errorf("name = %+v, want String Ada", v)
	}
	if v, _ := obj.Get("active"); v.Kind != KindBool || !v.Bool {
		t.Errorf("active = %+v, want Bool true", v)
	}
	if v, _ := obj.Get("missing"); v.Kind != KindNull {
		t.Errorf("missing = %+v, want Null", v)
	}
}

func TestParseNonObjectRootYieldsEmpty(t *testing.T) {
	obj := Parse(`[1,2,3]`)
	if !obj.IsEmpty() {
		t.Errorf("expected empty object for non-object root, got %d keys", obj.Len())
	}
}

func TestParseMalformedYieldsEmpty(t *testing.T) {
	obj := Parse(`{not valid json`)
	if !obj.IsEmpty() {
		t.Errorf("expected empty object for malformed json, got %d keys", obj.Len())
	}
}

func TestParseEmptyStringYieldsEmpty(t *testing.T) {
	obj := Parse("")
	if !obj.IsEmpty() {
		t.Errorf("expected empty object for empty string")
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"bool true", NewBool(true), true},
		{"bool false", NewBool(false), false},
		{"string true", NewString("true"), true},
		{"string false", NewString("false"), false},
		{"string nonempty", NewString("x"), true},
		{"string empty", NewString(""), false},
		{"int nonzero", NewInteger(1), true},
		{"int zero", NewInteger(0), false},
		{"number nonzero", NewNumber(0.1), true},
		{"number zero", NewNumber(0), false},
		{"null", Null, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.Truthy(); got != tc.want {
				t.Errorf("Truthy() = %v, want %v", got, tc.want)
			}
		})
	}
}
