package rakuten

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

var utf8Bom = []byte{0xef, 0xbb, 0xbf}

// ErrEmptyReport means the response carried no header line at all. A report
// with headers and zero data rows is not an error.
var ErrEmptyReport = errors.New("report body is empty")

// Rows is a forward-only, single-pass iterator over a report's CSV body. It
// cannot be re-iterated and holds the HTTP connection open until Close; call
// Close on every exit path.
type Rows struct {
	body    io.ReadCloser
	reader  *csv.Reader
	headers []string
	current map[string]string
	err     error
	closed  bool
}

// NewRows wraps a raw CSV body in a row stream. Fetch calls this on live
// HTTP bodies; tests feed it canned readers.
func NewRows(body io.ReadCloser) *Rows {
	buffered := bufio.NewReader(body)

	// the API serves UTF-8 with a byte-order mark
	leading, err := buffered.Peek(len(utf8Bom))
	if err == nil && bytes.Equal(leading, utf8Bom) {
		buffered.Discard(len(utf8Bom))
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1

	return &Rows{
		body:   body,
		reader: reader,
	}
}

// Headers reads and returns the header line, trimmed of padding. It is read
// at most once; subsequent calls return the cached value.
func (r *Rows) Headers() ([]string, error) {
	if r.headers != nil {
		return r.headers, nil
	}
	if r.err != nil {
		return nil, r.err
	}

	record, err := r.reader.Read()
	if errors.Is(err, io.EOF) {
		r.err = ErrEmptyReport
		return nil, r.err
	}
	if err != nil {
		r.err = err
		return nil, err
	}

	headers := make([]string, len(record))
	for i, header := range record {
		headers[i] = strings.TrimSpace(header)
	}
	r.headers = headers
	return headers, nil
}

// Next advances to the next data row, reading the header line first when it
// hasn't been read yet. It returns false at the end of the stream or on
// error; check Err afterwards.
func (r *Rows) Next() bool {
	if r.err != nil {
		return false
	}
	if r.headers == nil {
		_, err := r.Headers()
		if err != nil {
			return false
		}
	}

	record, err := r.reader.Read()
	if errors.Is(err, io.EOF) {
		return false
	}
	if err != nil {
		r.err = err
		return false
	}

	row := make(map[string]string, len(r.headers))
	for i, header := range r.headers {
		if i < len(record) {
			row[header] = record[i]
		}
	}
	r.current = row
	return true
}

// Row returns the row produced by the last successful Next.
func (r *Rows) Row() map[string]string {
	return r.current
}

func (r *Rows) Err() error {
	if errors.Is(r.err, ErrEmptyReport) {
		// an empty body is a valid zero-row day, not an iteration error
		return nil
	}
	return r.err
}

func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.body.Close()
}
