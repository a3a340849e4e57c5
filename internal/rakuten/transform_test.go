package rakuten

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTransformRow(t *testing.T) {
	mapper := newTestMapper(t)

	row := map[string]string{
		"# of Clicks":          "5",
		"Sales":                "35.5",
		"Publisher ID":         "1000001",
		"Publisher Name":       "Test Publisher",
		"Transaction Date":     "2/22/19",
		"Transaction Time":     "10:00:05",
		"Signature Match Date": "12/12/18",
	}
	want := map[string]any{
		"num_of_clicks":        int64(5),
		"sales":                35.5,
		"publisher_id":         int64(1000001),
		"publisher_name":       "Test Publisher",
		"transaction_datetime": "2019-02-22T10:00:05.000000Z",
		"signature_match_date": "2018-12-12T00:00:00.000000Z",
	}

	// nil column map exercises the ad hoc synthesis path
	got := mapper.TransformRow(row, nil)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformRowReusedColumnMap(t *testing.T) {
	mapper := newTestMapper(t)
	columnMap := mapper.Build([]string{"# of Clicks", "Sales"})

	first := mapper.TransformRow(map[string]string{"# of Clicks": "1", "Sales": "1.5"}, columnMap)
	second := mapper.TransformRow(map[string]string{"# of Clicks": "2", "Sales": "2.5"}, columnMap)

	require.Equal(t, int64(1), first["num_of_clicks"])
	require.Equal(t, int64(2), second["num_of_clicks"])
	require.Equal(t, 2.5, second["sales"])
}

func TestCoercionFailuresDegradeToNil(t *testing.T) {
	mapper := newTestMapper(t)
	columnMap := mapper.Build(testColumns)

	row := map[string]string{
		"# of Clicks":          "not-a-number",
		"Sales":                "",
		"Publisher ID":         "12.5",
		"Publisher Name":       "null",
		"Transaction Date":     "garbage",
		"Transaction Time":     "10:00:05",
		"Signature Match Date": "",
	}
	got := mapper.TransformRow(row, columnMap)

	require.Nil(t, got["num_of_clicks"])
	require.Nil(t, got["sales"])
	require.Nil(t, got["publisher_id"])
	require.Nil(t, got["publisher_name"])
	require.Nil(t, got["transaction_datetime"])
	require.Nil(t, got["signature_match_date"])
}

func TestCoercions(t *testing.T) {
	require.Equal(t, int64(42), CoerceInt.Apply("42"))
	require.Equal(t, int64(42), CoerceInt.Apply(" 42 "))
	require.Nil(t, CoerceInt.Apply("4.2"))

	require.Equal(t, 3.5, CoerceFloat.Apply("3.5"))
	require.Nil(t, CoerceFloat.Apply("abc"))

	require.Equal(t, "2018-12-12T00:00:00.000000Z", CoerceDate.Apply("12/12/18"))
	require.Nil(t, CoerceDate.Apply("13/45/18"))

	require.Equal(t, "2019-02-22T10:00:05.000000Z", CoerceDateTime.Apply("2/22/19", "10:00:05"))
	require.Nil(t, CoerceDateTime.Apply("2/22/19", "25:00:00"))
	require.Nil(t, CoerceDateTime.Apply("bad", "10:00:05"))

	require.Equal(t, "hello", CoerceCleanString.Apply("hello"))
	require.Nil(t, CoerceCleanString.Apply(""))
	require.Nil(t, CoerceCleanString.Apply("null"))

	require.Equal(t, "raw", CoerceIdentity.Apply("raw"))
}
