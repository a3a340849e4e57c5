package rakuten

import (
	"strconv"
	"strings"
	"time"
)

// reportDateLayout matches the M/D/YY form the reporting API uses for date
// cells, e.g. "2/22/19" and "12/12/18".
const reportDateLayout = "1/2/06"
const reportTimeLayout = "15:04:05"

// timestampLayout renders microsecond-precision UTC timestamps, matching the
// downstream loader's expected date-time format.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

type CoercionKind int

const (
	// CoerceIdentity passes the raw cell through unmodified.
	CoerceIdentity CoercionKind = iota
	// CoerceCleanString passes strings through, normalizing "" and the
	// literal token "null" to nil.
	CoerceCleanString
	// CoerceInt parses an integer, nil on failure.
	CoerceInt
	// CoerceFloat parses a floating point number, nil on failure.
	CoerceFloat
	// CoerceDate parses M/D/YY and renders a UTC timestamp at midnight.
	CoerceDate
	// CoerceDateTime composes a M/D/YY date cell and a HH:MM:SS time cell
	// into one UTC timestamp.
	CoerceDateTime
)

// Apply coerces the raw source cells into a typed value. Failures never
// propagate: an unparseable cell degrades to nil so one bad value does not
// stall the row stream.
func (k CoercionKind) Apply(values ...string) any {
	switch k {
	case CoerceCleanString:
		v := values[0]
		if v == "" || v == "null" {
			return nil
		}
		return v
	case CoerceInt:
		n, err := strconv.ParseInt(strings.TrimSpace(values[0]), 10, 64)
		if err != nil {
			return nil
		}
		return n
	case CoerceFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
		if err != nil {
			return nil
		}
		return f
	case CoerceDate:
		d, err := time.Parse(reportDateLayout, strings.TrimSpace(values[0]))
		if err != nil {
			return nil
		}
		return d.UTC().Format(timestampLayout)
	case CoerceDateTime:
		d, err := time.Parse(reportDateLayout, strings.TrimSpace(values[0]))
		if err != nil {
			return nil
		}
		t, err := time.Parse(reportTimeLayout, strings.TrimSpace(values[1]))
		if err != nil {
			return nil
		}
		combined := time.Date(
			d.Year(), d.Month(), d.Day(),
			t.Hour(), t.Minute(), t.Second(), 0,
			time.UTC,
		)
		return combined.Format(timestampLayout)
	}
	return values[0]
}
