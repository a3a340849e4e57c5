package singer

// State is the persisted watermark document passed between tap runs. Bookmarks
// are keyed by tap_stream_id, then by bookmark key (this tap uses "last_sync").
type State struct {
	Bookmarks map[string]map[string]any `json:"bookmarks,omitempty"`
}

func (s *State) Bookmark(streamID, key string) (any, bool) {
	stream, ok := s.Bookmarks[streamID]
	if !ok {
		return nil, false
	}
	value, ok := stream[key]
	return value, ok
}

func (s *State) WriteBookmark(streamID, key string, value any) {
	if s.Bookmarks == nil {
		s.Bookmarks = map[string]map[string]any{}
	}
	if s.Bookmarks[streamID] == nil {
		s.Bookmarks[streamID] = map[string]any{}
	}
	s.Bookmarks[streamID][key] = value
}
