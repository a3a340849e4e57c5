package streams

import (
	"fmt"
	"time"

	"dario.cat/mergo"
)

type ReportConfig struct {
	ReportSlug string `json:"report_slug"`
	StartDate  string `json:"start_date"`
	DateType   string `json:"date_type"`
}

type Config struct {
	Token            string         `json:"token"`
	Region           string         `json:"region"`
	DefaultStartDate string         `json:"default_start_date"`
	DefaultDateType  string         `json:"default_date_type"`
	Reports          []ReportConfig `json:"reports"`
}

// date layouts accepted for configured start dates and bookmark values
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02",
}

func parseDateValue(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// Streams resolves the configured reports into sync streams, filling each
// report's missing start_date and date_type from the config-level defaults.
// Missing required fields are configuration errors, fatal at startup.
func (c Config) Streams() ([]Stream, error) {
	if c.Token == "" {
		return nil, fmt.Errorf("config: token is required")
	}
	if c.Region == "" {
		return nil, fmt.Errorf("config: region is required")
	}
	if len(c.Reports) == 0 {
		return nil, fmt.Errorf("config: at least one report is required")
	}

	defaults := ReportConfig{
		StartDate: c.DefaultStartDate,
		DateType:  c.DefaultDateType,
	}

	out := make([]Stream, 0, len(c.Reports))
	for _, report := range c.Reports {
		if report.ReportSlug == "" {
			return nil, fmt.Errorf("config: report without a report_slug")
		}

		err := mergo.Merge(&report, defaults)
		if err != nil {
			return nil, err
		}
		if report.StartDate == "" {
			return nil, fmt.Errorf(
				"config: report %q has no start_date and no default_start_date is set",
				report.ReportSlug,
			)
		}

		startDate, err := parseDateValue(report.StartDate)
		if err != nil {
			return nil, fmt.Errorf("config: report %q: %w", report.ReportSlug, err)
		}

		out = append(out, Stream{
			Name:        report.ReportSlug,
			TapStreamID: tapStreamID(report.ReportSlug),
			StartDate:   startDate,
			DateType:    report.DateType,
		})
	}
	return out, nil
}
