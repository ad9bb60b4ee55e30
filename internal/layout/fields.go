package layout

import (
	"fmt"
	"sort"
	"strings"
)

// InputKind hints how an editor should collect a field value.
type InputKind string

// Input kinds.
const (
	InputText     InputKind = "text"
	InputTextarea InputKind = "textarea"
	InputEmail    InputKind = "email"
	InputURL      InputKind = "url"
	InputDate     InputKind = "date"
	InputNumber   InputKind = "number"
)

// FieldConfig controls whether and how a resume field appears in a section.
type FieldConfig struct {
	Enabled   bool      `json:"enabled"`
	Label     string    `json:"label"`
	InputKind InputKind `json:"inputKind"`
	Required  bool      `json:"required"`
}

// Field is a keyed FieldConfig. Key names the resume field bound to the placeholder.
type Field struct {
	Key string `json:"key"`
	FieldConfig
}

// FieldMap is an ordered set of fields. Order is the render order.
type FieldMap []Field

// Get returns the config for key.
func (m FieldMap) Get(key string) (FieldConfig, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.FieldConfig, true
		}
	}
	return FieldConfig{}, false
}

// Set replaces the config for key, appending it when absent.
func (m *FieldMap) Set(key string, cfg FieldConfig) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].FieldConfig = cfg
			return
		}
	}
	*m = append(*m, Field{Key: key, FieldConfig: cfg})
}

// Merge applies patch key by key. Existing keys keep their position.
func (m *FieldMap) Merge(patch FieldMap) {
	for _, f := range patch {
		m.Set(f.Key, f.FieldConfig)
	}
}

// Enabled returns the enabled fields in order.
func (m FieldMap) Enabled() []Field {
	out := make([]Field, 0, len(m))
	for _, f := range m {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// Keys returns the field keys in order.
func (m FieldMap) Keys() []string {
	out := make([]string, len(m))
	for i, f := range m {
		out[i] = f.Key
	}
	return out
}

// Clone returns a copy that shares no backing array with m.
func (m FieldMap) Clone() FieldMap {
	if m == nil {
		return nil
	}
	out := make(FieldMap, len(m))
	copy(out, m)
	return out
}

// Style holds CSS properties in camelCase form, e.g. backgroundColor.
type Style map[string]string

// Merge copies every patch entry into s. An empty value removes the property.
func (s *Style) Merge(patch Style) {
	if *s == nil {
		*s = Style{}
	}
	for k, v := range patch {
		if v == "" {
			delete(*s, k)
			continue
		}
		(*s)[k] = v
	}
}

// Clone returns a copy of s.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// CSS renders the style as a declaration list with properties in sorted order.
func (s Style) CSS() string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", cssProperty(k), s[k])
	}
	return b.String()
}

// cssProperty converts backgroundColor to background-color.
func cssProperty(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
