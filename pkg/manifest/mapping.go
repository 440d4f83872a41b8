package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldMap is a single field → extraction template pair.
type FieldMap struct {
	Field    string
	Template string
}

// FieldMapping is an ordered field → template table. Order follows the
// manifest source so expansion is deterministic.
type FieldMapping []FieldMap

// Get returns the template for field.
func (m FieldMapping) Get(field string) (string, bool) {
	for _, fm := range m {
		if fm.Field == field {
			return fm.Template, true
		}
	}
	return "", false
}

// Fields returns the field names in declaration order.
func (m FieldMapping) Fields() []string {
	out := make([]string, len(m))
	for i, fm := range m {
		out[i] = fm.Field
	}
	return out
}

// UnmarshalJSON decodes a JSON object while keeping its key order.
func (m *FieldMapping) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("mapping: expected object, got %v", tok)
	}

	var out FieldMapping
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("mapping: expected string key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("mapping %q: %w", key, err)
		}
		out = out.set(key, templateText(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalJSON encodes the mapping as an object in declaration order.
func (m FieldMapping) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fm := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(fm.Field)
		v, _ := json.Marshal(fm.Template)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// set replaces an existing field in place or appends a new one.
func (m FieldMapping) set(field, tmpl string) FieldMapping {
	for i := range m {
		if m[i].Field == field {
			m[i].Template = tmpl
			return m
		}
	}
	return append(m, FieldMap{Field: field, Template: tmpl})
}

// templateText accepts strings and falls back to the literal JSON text for
// numbers and booleans.
func templateText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
