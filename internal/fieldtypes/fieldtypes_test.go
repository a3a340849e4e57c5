package fieldtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	registry, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]Field{
		"# of Clicks":          {Slug: "num_of_clicks", Type: TypeInteger},
		"Sales":                {Slug: "sales", Type: TypeNumber},
		"Publisher ID":         {Slug: "publisher_id", Type: TypeInteger},
		"Publisher Name":       {Slug: "publisher_name", Type: TypeString},
		"Transaction Date":     {Slug: "transaction_date", Type: TypeDate},
		"Transaction Time":     {Slug: "transaction_time", Type: TypeString},
		"Signature Match Date": {Slug: "signature_match_date", Type: TypeDate},
	}
	for name, want := range cases {
		field, ok := registry.Lookup(name)
		require.True(t, ok, name)
		require.Equal(t, want, field)
	}
}

func TestLookupTrimsWhitespace(t *testing.T) {
	registry, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	field, ok := registry.Lookup("  Sales ")
	require.True(t, ok)
	require.Equal(t, "sales", field.Slug)
}

func TestLookupUnknown(t *testing.T) {
	registry, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	_, ok := registry.Lookup("Nonexistent Column")
	require.False(t, ok)
}
