package content

import (
	"bytes"
	"encoding/json"
)

// fields is a decoded JSON object whose members are probed lazily.
type fields map[string]json.RawMessage

// parseFields decodes raw as a JSON object. It reports false for anything
// that is not an object.
func parseFields(raw []byte) (fields, bool) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return nil, false
	}
	return f, true
}

// has reports whether key is present with a non-null value.
func (f fields) has(key string) bool {
	v, ok := f[key]
	return ok && !isNull(v)
}

// typeTag returns the discriminant literal of the object.
func (f fields) typeTag() string {
	s, _ := field[string](f, "type")
	return s
}

// field decodes the member key into T. It reports false when the member is
// absent, null, or of the wrong JSON kind.
func field[T any](f fields, key string) (T, bool) {
	var v T
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// optional decodes the member key into T, returning the zero value when the
// member is absent or malformed.
func optional[T any](f fields, key string) T {
	v, _ := field[T](f, key)
	return v
}

// optionalPtr is optional for flags and numbers whose absence is meaningful.
func optionalPtr[T any](f fields, key string) *T {
	v, ok := field[T](f, key)
	if !ok {
		return nil
	}
	return &v
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
