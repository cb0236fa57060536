package json

import (
	"bytes"
	"encoding/json"
)

// Object is an insertion-ordered mapping of string key to Value. The
// Rust reference backs this with an unordered HashMap; ordering it
// here makes iteration over a template's own JSON keys reproducible,
// which matters when more than one array-typed key could match the
// same template tag.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Set(key string, v Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.values[key]
	return v, ok
}

// GetCaseInsensitive looks up a key ignoring case, returning the first
// match in insertion order.
func (o *Object) GetCaseInsensitive(key string) (string, Value, bool) {
	if o == nil {
		return "", Value{}, false
	}
	for _, k := range o.keys {
		if eqFold(k, key) {
			return k, o.values[k], true
		}
	}
	return "", Value{}, false
}

func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) IsEmpty() bool { return o.Len() == 0 }

// MarshalJSON re-encodes the object in key-insertion order, used only
// by diagnostic tooling (the --dump flag).
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func eqFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
