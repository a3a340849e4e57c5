package singer

// Metadata is one entry of a catalog stream's metadata list. An empty
// breadcrumb addresses the stream itself; field-level entries use
// ["properties", <field name>].
type Metadata struct {
	Breadcrumb []string       `json:"breadcrumb"`
	Metadata   map[string]any `json:"metadata"`
}

type CatalogEntry struct {
	Stream      string     `json:"stream"`
	TapStreamID string     `json:"tap_stream_id"`
	Schema      Schema     `json:"schema"`
	Metadata    []Metadata `json:"metadata"`
}

type Catalog struct {
	Streams []CatalogEntry `json:"streams"`
}

func breadcrumbEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// WriteMetadata sets key=value under the given breadcrumb, appending a new
// entry when none addresses that breadcrumb yet.
func WriteMetadata(entries []Metadata, breadcrumb []string, key string, value any) []Metadata {
	if breadcrumb == nil {
		breadcrumb = []string{}
	}
	for i, entry := range entries {
		if breadcrumbEqual(entry.Breadcrumb, breadcrumb) {
			entries[i].Metadata[key] = value
			return entries
		}
	}
	return append(entries, Metadata{
		Breadcrumb: breadcrumb,
		Metadata:   map[string]any{key: value},
	})
}

// GetMetadata returns the value stored under the breadcrumb, or nil.
func GetMetadata(entries []Metadata, breadcrumb []string, key string) any {
	if breadcrumb == nil {
		breadcrumb = []string{}
	}
	for _, entry := range entries {
		if breadcrumbEqual(entry.Breadcrumb, breadcrumb) {
			return entry.Metadata[key]
		}
	}
	return nil
}

// Selected reports whether the entry is selected for sync, checking the
// legacy schema-level flag first and then the empty-breadcrumb metadata.
func (e CatalogEntry) Selected() bool {
	if e.Schema.Selected != nil {
		return *e.Schema.Selected
	}
	selected, _ := GetMetadata(e.Metadata, nil, "selected").(bool)
	return selected
}

// SelectedStreams returns the tap_stream_ids of all selected streams.
func (c Catalog) SelectedStreams() []string {
	var out []string
	for _, entry := range c.Streams {
		if entry.Selected() {
			out = append(out, entry.TapStreamID)
		}
	}
	return out
}
