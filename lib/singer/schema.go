// Package singer implements the subset of the Singer protocol this tap
// speaks: SCHEMA/RECORD/STATE messages on a line-oriented JSON stream, plus
// the catalog and stream-metadata structures used by discovery mode.
package singer

import "sort"

// Property is a single JSON-schema property. Type carries the nullable
// union form, e.g. ["integer", "null"].
type Property struct {
	Type   []string `json:"type"`
	Format string   `json:"format,omitempty"`
}

type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	// legacy schema-level selection flag, checked before metadata
	Selected *bool `json:"selected,omitempty"`
}

// PropertyNames returns the schema's property names in sorted order.
func (s Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
