// Package fieldtypes maps the raw column headers the Rakuten reporting API
// emits to stable output slugs and primitive types. The reference table is
// compiled into the binary; a malformed table is a startup failure, not a
// runtime one.
package fieldtypes

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed field_types.json
var rawTable []byte

const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeDate    = "date"
)

// Field is the semantic definition of one raw report column.
type Field struct {
	Slug string `json:"slug"`
	Type string `json:"type"`
}

// Registry resolves raw display names to field definitions. Immutable after
// Load.
type Registry struct {
	fields map[string]Field
}

func validType(t string) bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeDate:
		return true
	}
	return false
}

// Load parses the embedded field-type table. Call once at startup and treat
// an error as fatal.
func Load() (*Registry, error) {
	var fields map[string]Field
	err := json.Unmarshal(rawTable, &fields)
	if err != nil {
		return nil, fmt.Errorf("parse field type table: %w", err)
	}

	slugs := map[string]string{}
	for name, field := range fields {
		if field.Slug == "" {
			return nil, fmt.Errorf("field type table: %q has no slug", name)
		}
		if !validType(field.Type) {
			return nil, fmt.Errorf(
				"field type table: %q has unknown type %q",
				name, field.Type,
			)
		}
		if prev, ok := slugs[field.Slug]; ok {
			return nil, fmt.Errorf(
				"field type table: %q and %q share slug %q",
				prev, name, field.Slug,
			)
		}
		slugs[field.Slug] = name
	}

	return &Registry{fields: fields}, nil
}

// Lookup resolves a raw column header. Surrounding whitespace is ignored;
// the API pads some headers.
func (r *Registry) Lookup(displayName string) (Field, bool) {
	field, ok := r.fields[strings.TrimSpace(displayName)]
	return field, ok
}
