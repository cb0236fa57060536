// Package json implements the ordered JSON value model used to bind
// site data into templates. It keeps Integer values distinct from
// floating-point Number values, unlike the standard library's
// json.Unmarshal into interface{}, which collapses both into float64.
package json

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindInteger
	KindBool
	KindArray
	KindObject
)

// Value is a tagged union mirroring the site data model: String,
// Number (float64), Integer (int64), Bool, Array, Object, or Null.
type Value struct {
	Kind    Kind
	Str     string
	Num     float64
	Int     int64
	Bool    bool
	Array   *Array
	Object  *Object
}

func NewString(s string) Value  { return Value{Kind: KindString, Str: s} }
func NewNumber(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func NewInteger(i int64) Value  { return Value{Kind: KindInteger, Int: i} }
func NewBool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func NewArray(a *Array) Value   { return Value{Kind: KindArray, Array: a} }
func NewObjectValue(o *Object) Value { return Value{Kind: KindObject, Object: o} }

var Null = Value{Kind: KindNull}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value the way it is substituted into a scalar
// placeholder. Array and Object never reach a scalar placeholder in
// this implementation (see jsonbinding); both engines emit the empty
// string for them, matching the resolved equivalence requirement.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return trimFloat(v.Num)
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// MarshalJSON re-encodes the value in standard encoding/json form, used
// only by diagnostic tooling (the --dump flag); it is never consulted
// by the binding or loading paths.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindInteger:
		return json.Marshal(v.Int)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindArray:
		return json.Marshal(v.Array)
	case KindObject:
		return json.Marshal(v.Object)
	default:
		return []byte("null"), nil
	}
}

// AsObject returns the Object and true if the value is an Object.
func (v Value) AsObject() (*Object, bool) {
	if v.Kind == KindObject {
		return v.Object, true
	}
	return nil, false
}

// AsArray returns the Array and true if the value is an Array.
func (v Value) AsArray() (*Array, bool) {
	if v.Kind == KindArray {
		return v.Array, true
	}
	return nil, false
}

// Truthy implements the conditional-block truthiness rule: Bool is
// itself, String parses as a boolean literal if possible else falls
// back to non-empty, Integer/Number compare against zero, everything
// else is false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindString:
		switch v.Str {
		case "true":
			return true
		case "false":
			return false
		default:
			return v.Str != ""
		}
	case KindInteger:
		return v.Int != 0
	case KindNumber:
		return v.Num != 0
	default:
		return false
	}
}
