package singer

import (
	"encoding/json"
	"io"
)

type schemaMessage struct {
	Type          string   `json:"type"`
	Stream        string   `json:"stream"`
	Schema        Schema   `json:"schema"`
	KeyProperties []string `json:"key_properties"`
}

type recordMessage struct {
	Type   string         `json:"type"`
	Stream string         `json:"stream"`
	Record map[string]any `json:"record"`
}

type stateMessage struct {
	Type  string `json:"type"`
	Value State  `json:"value"`
}

// Writer emits Singer messages as JSON lines. It is not safe for concurrent
// use; the sync loop is single-threaded so none is needed.
type Writer struct {
	enc *json.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

func (w *Writer) WriteSchema(stream string, schema Schema, keyProperties []string) error {
	if keyProperties == nil {
		keyProperties = []string{}
	}
	return w.enc.Encode(schemaMessage{
		Type:          "SCHEMA",
		Stream:        stream,
		Schema:        schema,
		KeyProperties: keyProperties,
	})
}

func (w *Writer) WriteRecord(stream string, record map[string]any) error {
	return w.enc.Encode(recordMessage{
		Type:   "RECORD",
		Stream: stream,
		Record: record,
	})
}

func (w *Writer) WriteState(state State) error {
	return w.enc.Encode(stateMessage{
		Type:  "STATE",
		Value: state,
	})
}
