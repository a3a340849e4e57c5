package streams

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigStreamsAppliesDefaults(t *testing.T) {
	config := Config{
		Token:            "secret",
		Region:           "en",
		DefaultStartDate: "2024-01-15",
		DefaultDateType:  "process",
		Reports: []ReportConfig{
			{ReportSlug: "my-signature-report"},
			{
				ReportSlug: "other-report",
				StartDate:  "2024-03-01T00:00:00Z",
				DateType:   "transaction",
			},
		},
	}

	streamList, err := config.Streams()
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, streamList, 2)

	first := streamList[0]
	require.Equal(t, "my-signature-report", first.Name)
	require.Equal(t, "my_signature_report", first.TapStreamID)
	require.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.StartDate)
	require.Equal(t, "process", first.DateType)

	second := streamList[1]
	require.Equal(t, "other_report", second.TapStreamID)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), second.StartDate)
	require.Equal(t, "transaction", second.DateType)
}

func TestConfigStreamsValidation(t *testing.T) {
	base := Config{
		Token:            "secret",
		Region:           "en",
		DefaultStartDate: "2024-01-15",
		Reports:          []ReportConfig{{ReportSlug: "r"}},
	}

	missingToken := base
	missingToken.Token = ""
	_, err := missingToken.Streams()
	require.ErrorContains(t, err, "token is required")

	missingRegion := base
	missingRegion.Region = ""
	_, err = missingRegion.Streams()
	require.ErrorContains(t, err, "region is required")

	noReports := base
	noReports.Reports = nil
	_, err = noReports.Streams()
	require.ErrorContains(t, err, "at least one report")

	noSlug := base
	noSlug.Reports = []ReportConfig{{StartDate: "2024-01-15"}}
	_, err = noSlug.Streams()
	require.ErrorContains(t, err, "report_slug")

	noStart := base
	noStart.DefaultStartDate = ""
	_, err = noStart.Streams()
	require.ErrorContains(t, err, "no start_date")

	badDate := base
	badDate.Reports = []ReportConfig{{ReportSlug: "r", StartDate: "15/01/2024"}}
	_, err = badDate.Streams()
	require.ErrorContains(t, err, "unparseable date")
}

func TestParseDateValue(t *testing.T) {
	for raw, want := range map[string]time.Time{
		"2024-03-08":                  time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		"2024-03-08T00:00:00Z":        time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		"2024-03-08T12:30:00.000000Z": time.Date(2024, 3, 8, 12, 30, 0, 0, time.UTC),
	} {
		got, err := parseDateValue(raw)
		require.NoError(t, err, raw)
		require.True(t, want.Equal(got), raw)
	}

	_, err := parseDateValue("yesterday")
	require.Error(t, err)
}
