// Package streams drives the incremental, day-windowed extraction of report
// streams: it resolves stream configuration, generates catalog metadata, and
// runs the bookmark-checkpointed sync loop.
package streams

import (
	"strings"
	"time"

	"tap-rakuten/lib/singer"
)

// Stream is one configured report to extract.
type Stream struct {
	// Name is the report slug as the API knows it.
	Name string
	// TapStreamID is the normalized stream identifier used in emitted
	// messages and bookmarks.
	TapStreamID string
	// StartDate is where extraction begins when no bookmark exists.
	StartDate time.Time
	// DateType selects which report date the window filters on.
	DateType string
}

func tapStreamID(slug string) string {
	return strings.ToLower(strings.ReplaceAll(slug, "-", "_"))
}

// KeyProperties returns the schema fields that identify a row: every
// date-like property, matching how the reports are keyed upstream.
func (s Stream) KeyProperties(schema singer.Schema) []string {
	var keys []string
	for _, name := range schema.PropertyNames() {
		if strings.Contains(name, "date") {
			keys = append(keys, name)
		}
	}
	return keys
}

// Metadata builds the catalog metadata list for a schema: replication mode,
// key properties, and per-field inclusion (key properties are automatic,
// everything else available, all selected by default).
func (s Stream) Metadata(schema singer.Schema) []singer.Metadata {
	keys := s.KeyProperties(schema)
	isKey := map[string]bool{}
	for _, k := range keys {
		isKey[k] = true
	}

	mdata := singer.WriteMetadata(nil, nil, "table-key-properties", keys)
	mdata = singer.WriteMetadata(mdata, nil, "forced-replication-method", "INCREMENTAL")

	for _, name := range schema.PropertyNames() {
		breadcrumb := []string{"properties", name}
		inclusion := "available"
		if isKey[name] {
			inclusion = "automatic"
		}
		mdata = singer.WriteMetadata(mdata, breadcrumb, "inclusion", inclusion)
		mdata = singer.WriteMetadata(mdata, breadcrumb, "selected-by-default", true)
	}
	return mdata
}
