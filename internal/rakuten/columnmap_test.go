package rakuten

import (
	"testing"

	"tap-rakuten/internal/fieldtypes"
	"tap-rakuten/lib/singer"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testColumns = []string{
	"# of Clicks",
	"Sales",
	"Publisher ID",
	"Publisher Name",
	"Transaction Date",
	"Transaction Time",
	"Transaction Created On Time",
	"Signature Match Date",
}

func newTestMapper(t *testing.T) *Mapper {
	registry, err := fieldtypes.Load()
	if err != nil {
		t.Fatal(err)
	}
	return NewMapper(registry)
}

func TestBuildMergesDateTimePair(t *testing.T) {
	mapper := newTestMapper(t)

	entries := mapper.Build(testColumns)

	var merged *ColumnMapEntry
	for i := range entries {
		if entries[i].Slug == "transaction_datetime" {
			merged = &entries[i]
		}
		require.NotEqual(t, "transaction_date", entries[i].Slug)
		require.NotEqual(t, "transaction_time", entries[i].Slug)
	}
	require.NotNil(t, merged)
	require.Equal(t, []string{"Transaction Date", "Transaction Time"}, merged.Sources)
	require.Equal(t, CoerceDateTime, merged.Coercion)
	require.Equal(t, singer.Property{
		Type:   []string{"string", "null"},
		Format: "date-time",
	}, merged.Schema)
}

func TestBuildUniqueSlugs(t *testing.T) {
	mapper := newTestMapper(t)

	entries := mapper.Build(testColumns)
	seen := map[string]bool{}
	for _, entry := range entries {
		require.False(t, seen[entry.Slug], entry.Slug)
		seen[entry.Slug] = true
	}
}

func TestBuildDropsUnknownColumns(t *testing.T) {
	mapper := newTestMapper(t)

	entries := mapper.Build([]string{"Sales", "Some Future Column", "Publisher ID"})
	require.Len(t, entries, 2)
	require.Equal(t, "sales", entries[0].Slug)
	require.Equal(t, "publisher_id", entries[1].Slug)
}

func TestBuildDeterministicOrder(t *testing.T) {
	mapper := newTestMapper(t)

	first := mapper.Build(testColumns)
	second := mapper.Build(testColumns)
	require.Equal(t, first, second)
}

func TestInferSchema(t *testing.T) {
	mapper := newTestMapper(t)

	schema := mapper.InferSchema(testColumns)

	want := singer.Schema{
		Type: "object",
		Properties: map[string]singer.Property{
			"num_of_clicks":               {Type: []string{"integer", "null"}},
			"sales":                       {Type: []string{"number", "null"}},
			"publisher_id":                {Type: []string{"integer", "null"}},
			"publisher_name":              {Type: []string{"string", "null"}},
			"transaction_datetime":        {Type: []string{"string", "null"}, Format: "date-time"},
			"transaction_created_on_time": {Type: []string{"string", "null"}},
			"signature_match_date":        {Type: []string{"string", "null"}, Format: "date-time"},
		},
	}
	if diff := cmp.Diff(want, schema); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

// round-trip: a transformed row's keys are exactly the inferred schema's
// property names
func TestSchemaAndTransformAgree(t *testing.T) {
	mapper := newTestMapper(t)

	schema := mapper.InferSchema(testColumns)
	columnMap := mapper.Build(testColumns)

	row := map[string]string{}
	for _, header := range testColumns {
		row[header] = "x"
	}
	transformed := mapper.TransformRow(row, columnMap)

	require.ElementsMatch(t, schema.PropertyNames(), keysOf(transformed))
}

func keysOf(m map[string]any) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
