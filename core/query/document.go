package query

import "fmt"

// Document is a decoded content-store document
type Document map[string]any

// Resolver looks up a document by id for dereferencing
type Resolver func(id string) (Document, bool)

// ID returns the document id
func (d Document) ID() string {
	id, _ := d["_id"].(string)
	return id
}

// Type returns the document type
func (d Document) Type() string {
	t, _ := d["_type"].(string)
	return t
}

// RefID extracts the target id of a reference value
func RefID(v any) (string, bool) {
	m, ok := asMap(v)
	if !ok {
		return "", false
	}
	id, ok := m["_ref"].(string)
	return id, ok && id != ""
}

// Values resolves a path for matching. Every array met on the way, including
// at the leaf, is flattened so the result is a list of scalar candidates.
func Values(doc Document, p Path, resolve Resolver) []any {
	current := []any{map[string]any(doc)}
	for _, step := range p.Steps {
		next := make([]any, 0, len(current))
		for _, v := range current {
			m, ok := asMap(v)
			if !ok {
				continue
			}
			next = appendFlat(next, m[step.Field])
		}
		current = next
	}
	if p.Deref != "" {
		next := make([]any, 0, len(current))
		for _, v := range current {
			target, ok := deref(v, resolve)
			if !ok {
				continue
			}
			next = appendFlat(next, target[p.Deref])
		}
		current = next
	}
	return current
}

// Project resolves a path for output. Without an array step the raw value at
// the path is returned (nil when missing); with one the values are collected
// into a list.
func Project(doc Document, p Path, resolve Resolver) any {
	current := []any{map[string]any(doc)}
	for _, step := range p.Steps {
		next := make([]any, 0, len(current))
		for _, v := range current {
			m, ok := asMap(v)
			if !ok {
				continue
			}
			x, present := m[step.Field]
			if !present || x == nil {
				continue
			}
			if step.Array {
				if list, ok := x.([]any); ok {
					next = append(next, list...)
				}
				continue
			}
			next = append(next, x)
		}
		current = next
	}
	if p.Deref != "" {
		next := make([]any, 0, len(current))
		for _, v := range current {
			target, ok := deref(v, resolve)
			if !ok {
				continue
			}
			if x, present := target[p.Deref]; present && x != nil {
				next = append(next, x)
			}
		}
		current = next
	}
	if p.IsMulti() {
		return current
	}
	if len(current) == 0 {
		return nil
	}
	return current[0]
}

// ProjectDocument applies a projection to a document
func ProjectDocument(doc Document, fields []Field, resolve Resolver) Document {
	out := make(Document, len(fields))
	for _, f := range fields {
		out[f.Name] = Project(doc, f.Path, resolve)
	}
	return out
}

// Text renders a scalar for matching; non-scalars render empty
func Text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64, float32, int, int64, bool:
		return fmt.Sprint(x)
	}
	return ""
}

func deref(v any, resolve Resolver) (Document, bool) {
	if resolve == nil {
		return nil, false
	}
	id, ok := RefID(v)
	if !ok {
		return nil, false
	}
	return resolve(id)
}

func appendFlat(dst []any, v any) []any {
	switch x := v.(type) {
	case nil:
		return dst
	case []any:
		for _, e := range x {
			dst = appendFlat(dst, e)
		}
		return dst
	}
	return append(dst, v)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	}
	return nil, false
}
