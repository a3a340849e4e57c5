package rakuten

import (
	"log/slog"
	"sort"
	"strings"

	"tap-rakuten/internal/fieldtypes"
	"tap-rakuten/lib/singer"
)

// datetimeConcepts are the logical timestamps the API splits into separate
// date and time columns. When both halves resolve they are merged into a
// single <concept>_datetime output field.
var datetimeConcepts = []string{
	"process", "transaction",
	"signature_match", "transaction_created",
}

// ColumnMapEntry maps one or two raw report columns onto one typed output
// field. Sources holds the raw header names; it has two elements only for
// merged date+time pairs, date first.
type ColumnMapEntry struct {
	Sources  []string
	Slug     string
	Schema   singer.Property
	Coercion CoercionKind
}

// Mapper builds column maps and schemas from raw header sets, resolving
// column semantics through the field type registry.
type Mapper struct {
	registry *fieldtypes.Registry
}

func NewMapper(registry *fieldtypes.Registry) *Mapper {
	return &Mapper{registry: registry}
}

type resolvedColumn struct {
	header string
	field  fieldtypes.Field
}

func (m *Mapper) resolve(headers []string) []resolvedColumn {
	var out []resolvedColumn
	for _, header := range headers {
		header = strings.TrimSpace(header)
		field, ok := m.registry.Lookup(header)
		if !ok {
			slog.Warn("dropping unknown report column", "column", header)
			continue
		}
		out = append(out, resolvedColumn{header: header, field: field})
	}
	return out
}

// Build resolves a raw header set into an ordered column map. The result is
// deterministic for a given header order: merged datetime entries first (in
// concept order), then the remaining fields in header order. Build it once
// per report response and reuse it for every row.
func (m *Mapper) Build(headers []string) []ColumnMapEntry {
	resolved := m.resolve(headers)

	headerBySlug := map[string]string{}
	for _, col := range resolved {
		headerBySlug[col.field.Slug] = col.header
	}

	var entries []ColumnMapEntry
	merged := map[string]bool{}

	for _, concept := range datetimeConcepts {
		dateHeader, haveDate := headerBySlug[concept+"_date"]
		timeHeader, haveTime := headerBySlug[concept+"_time"]
		if !haveDate || !haveTime {
			continue
		}
		entries = append(entries, ColumnMapEntry{
			Sources: []string{dateHeader, timeHeader},
			Slug:    concept + "_datetime",
			Schema: singer.Property{
				Type:   []string{"string", "null"},
				Format: "date-time",
			},
			Coercion: CoerceDateTime,
		})
		merged[concept+"_date"] = true
		merged[concept+"_time"] = true
	}

	for _, col := range resolved {
		if merged[col.field.Slug] {
			continue
		}
		entries = append(entries, singleColumnEntry(col))
	}

	return entries
}

func singleColumnEntry(col resolvedColumn) ColumnMapEntry {
	entry := ColumnMapEntry{
		Sources: []string{col.header},
		Slug:    col.field.Slug,
	}
	switch col.field.Type {
	case fieldtypes.TypeDate:
		entry.Schema = singer.Property{
			Type:   []string{"string", "null"},
			Format: "date-time",
		}
		entry.Coercion = CoerceDate
	case fieldtypes.TypeInteger:
		entry.Schema = singer.Property{Type: []string{"integer", "null"}}
		entry.Coercion = CoerceInt
	case fieldtypes.TypeNumber:
		entry.Schema = singer.Property{Type: []string{"number", "null"}}
		entry.Coercion = CoerceFloat
	case fieldtypes.TypeString:
		entry.Schema = singer.Property{Type: []string{"string", "null"}}
		entry.Coercion = CoerceCleanString
	default:
		entry.Schema = singer.Property{Type: []string{col.field.Type, "null"}}
		entry.Coercion = CoerceIdentity
	}
	return entry
}

// TransformRow applies a previously built column map to one raw row. A nil
// column map is synthesized on the fly from the row's own keys; that path is
// for ad hoc single-row transforms, not the sync loop.
func (m *Mapper) TransformRow(row map[string]string, columnMap []ColumnMapEntry) map[string]any {
	if len(columnMap) == 0 {
		headers := make([]string, 0, len(row))
		for header := range row {
			headers = append(headers, header)
		}
		sort.Strings(headers)
		columnMap = m.Build(headers)
	}

	out := make(map[string]any, len(columnMap))
	for _, entry := range columnMap {
		values := make([]string, len(entry.Sources))
		for i, source := range entry.Sources {
			values[i] = row[source]
		}
		out[entry.Slug] = entry.Coercion.Apply(values...)
	}
	return out
}
