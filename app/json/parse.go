package json

import (
	"bytes"
	stdjson "encoding/json"
)

// Parse parses raw JSON text into an Object. A non-object root, an
// empty input, or a parse error all yield an empty Object rather than
// an error: JSON binding is best-effort by design, and a malformed
// sidecar file should degrade to "no data" rather than abort a merge.
//
// stdjson.Decoder with UseNumber is the only standard-library path
// that preserves the Integer/Number distinction the data model
// requires (see DESIGN.md: no pack dependency improves on this for a
// single decode call, so the stdlib is used directly here).
func Parse(raw string) *Object {
	if raw == "" {
		return NewObject()
	}
	dec := stdjson.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return NewObject()
	}
	m, ok := root.(map[string]interface{})
	if !ok {
		return NewObject()
	}
	obj := NewObject()
	for _, k := range orderedKeys(raw, m) {
		obj.Set(k, convert(m[k]))
	}
	return obj
}

// orderedKeys recovers source order for top-level object keys by
// scanning the raw text for each key's first quoted occurrence,
// since encoding/json's map decode does not preserve it.
func orderedKeys(raw string, m map[string]interface{}) []string {
	type pos struct {
		key string
		idx int
	}
	positions := make([]pos, 0, len(m))
	for k := range m {
		idx := bytes.Index([]byte(raw), []byte(`"`+k+`"`))
		positions = append(positions, pos{key: k, idx: idx})
	}
	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && positions[j].idx < positions[j-1].idx; j-- {
			positions[j], positions[j-1] = positions[j-1], positions[j]
		}
	}
	keys := make([]string, len(positions))
	for i, p := range positions {
		keys[i] = p.key
	}
	return keys
}

func convert(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case string:
		return NewString(t)
	case bool:
		return NewBool(t)
	case stdjson.Number:
		if i, err := t.Int64(); err == nil {
			return NewInteger(i)
		}
		f, _ := t.Float64()
		return NewNumber(f)
	case []interface{}:
		arr := NewEmptyArray()
		for _, item := range t {
			arr.Push(convert(item))
		}
		return NewArray(arr)
	case map[string]interface{}:
		obj := NewObject()
		// Nested objects lose source ordering through this path;
		// only top-level keys need ordering for the array-tag and
		// scalar-substitution passes that iterate them.
		for k, vv := range t {
			obj.Set(k, convert(vv))
		}
		return NewObjectValue(obj)
	default:
		return Null
	}
}
