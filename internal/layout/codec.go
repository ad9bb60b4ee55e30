package layout

import (
	"encoding/json"
	"fmt"
)

// Decode parses a JSON layout tree and replaces nil lists with empty ones.
// Structural checks beyond JSON syntax belong to the schema and Validate.
func Decode(data []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}
	if t.LayoutType == "" {
		t.LayoutType = LayoutSingleColumn
	}
	t.normalize()
	return &t, nil
}

// Encode serializes the layout tree.
func Encode(t *Template) ([]byte, error) {
	t.normalize()
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	return data, nil
}
