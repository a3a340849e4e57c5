package streams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tap-rakuten/internal/rakuten"
	"tap-rakuten/internal/statedb"
	"tap-rakuten/lib/singer"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/streams")

const bookmarkKey = "last_sync"

// Engine runs the incremental sync loop. It is the only writer of stream
// bookmarks; checkpoints happen strictly at day boundaries.
type Engine struct {
	client rakuten.Fetcher
	mapper *rakuten.Mapper
	writer *singer.Writer
	// optional local bookmark store, consulted when the state document
	// carries no bookmark for a stream
	store *statedb.Store
}

func NewEngine(client rakuten.Fetcher, mapper *rakuten.Mapper, writer *singer.Writer, store *statedb.Store) *Engine {
	return &Engine{
		client: client,
		mapper: mapper,
		writer: writer,
		store:  store,
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// resumePoint returns the first day to fetch. A bookmark records the last
// fully completed day, so extraction resumes the day after it; without one
// the configured start date itself is the first day.
func (e *Engine) resumePoint(ctx context.Context, stream Stream, state *singer.State) (time.Time, error) {
	raw, ok := state.Bookmark(stream.TapStreamID, bookmarkKey)
	if ok {
		value, ok := raw.(string)
		if !ok {
			return time.Time{}, fmt.Errorf(
				"%s: bookmark %q is not a string",
				stream.TapStreamID, bookmarkKey,
			)
		}
		completed, err := parseDateValue(value)
		if err != nil {
			return time.Time{}, err
		}
		return truncateDay(completed).AddDate(0, 0, 1), nil
	}

	if e.store != nil {
		completed, found, err := e.store.Bookmark(ctx, stream.TapStreamID)
		if err != nil {
			return time.Time{}, err
		}
		if found {
			return truncateDay(completed).AddDate(0, 0, 1), nil
		}
	}

	return truncateDay(stream.StartDate), nil
}

// SyncStream extracts every complete UTC day from the stream's resume point
// up to, but excluding, the day of `now`. The in-progress day is never
// fetched. Returns the number of rows emitted.
//
// Any fetch or decode error aborts the invocation without checkpointing the
// unfinished day, so a re-run resumes exactly there.
func (e *Engine) SyncStream(ctx context.Context, stream Stream, state *singer.State, now time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "SyncStream")
	defer span.End()
	span.SetAttributes(attribute.String("stream", stream.TapStreamID))

	start, err := e.resumePoint(ctx, stream, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	today := truncateDay(now)

	var count int64
	for day := start; day.Before(today); day = day.AddDate(0, 0, 1) {
		n, err := e.syncDay(ctx, stream, day)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return count, err
		}
		count += n

		// the resumability boundary: bookmark and state flush happen
		// only after the day's rows are fully emitted, even when the
		// day had zero rows
		state.WriteBookmark(stream.TapStreamID, bookmarkKey, day.Format(time.RFC3339))
		err = e.writer.WriteState(*state)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return count, err
		}
		if e.store != nil {
			err = e.store.WriteBookmark(ctx, stream.TapStreamID, day)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return count, err
			}
		}
	}

	return count, nil
}

func (e *Engine) syncDay(ctx context.Context, stream Stream, day time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "syncDay")
	defer span.End()
	span.SetAttributes(
		attribute.String("stream", stream.TapStreamID),
		attribute.String("day", day.Format("2006-01-02")),
	)

	rows, err := e.client.Fetch(ctx, stream.Name, rakuten.FetchOptions{
		StartDate: day,
		DateType:  stream.DateType,
	})
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	headers, err := rows.Headers()
	if errors.Is(err, rakuten.ErrEmptyReport) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	// built once per day and reused for every row of that response
	columnMap := e.mapper.Build(headers)

	var emitted int64
	for rows.Next() {
		record := e.mapper.TransformRow(rows.Row(), columnMap)
		err = e.writer.WriteRecord(stream.TapStreamID, record)
		if err != nil {
			return emitted, err
		}
		emitted++
	}
	err = rows.Err()
	if err != nil {
		return emitted, err
	}
	return emitted, nil
}

// Discover infers each stream's schema from the API (headers only, no row
// extraction) and assembles the catalog.
func (e *Engine) Discover(ctx context.Context, streamList []Stream) (singer.Catalog, error) {
	ctx, span := tracer.Start(ctx, "Discover")
	defer span.End()

	var catalog singer.Catalog
	for _, stream := range streamList {
		schema, err := rakuten.FetchSchema(ctx, e.client, e.mapper, stream.Name)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return singer.Catalog{}, fmt.Errorf("%s: %w", stream.TapStreamID, err)
		}
		catalog.Streams = append(catalog.Streams, singer.CatalogEntry{
			Stream:      stream.Name,
			TapStreamID: stream.TapStreamID,
			Schema:      schema,
			Metadata:    stream.Metadata(schema),
		})
	}
	return catalog, nil
}

func asStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Sync runs every selected catalog stream: SCHEMA message first, then the
// day loop with RECORD and STATE messages. The whole invocation aborts on
// the first stream error, leaving state un-mutated past the last completed
// day.
func (e *Engine) Sync(ctx context.Context, catalog singer.Catalog, streamList []Stream, state *singer.State, now time.Time) error {
	byID := map[string]Stream{}
	for _, stream := range streamList {
		byID[stream.TapStreamID] = stream
	}

	for _, entry := range catalog.Streams {
		if !entry.Selected() {
			slog.Info("skipping stream - not selected", "stream", entry.TapStreamID)
			continue
		}
		stream, ok := byID[entry.TapStreamID]
		if !ok {
			slog.Warn("catalog stream is not configured", "stream", entry.TapStreamID)
			continue
		}

		keyProperties := asStringSlice(
			singer.GetMetadata(entry.Metadata, nil, "table-key-properties"),
		)
		err := e.writer.WriteSchema(entry.TapStreamID, entry.Schema, keyProperties)
		if err != nil {
			return err
		}

		count, err := e.SyncStream(ctx, stream, state, now)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.TapStreamID, err)
		}
		slog.Info("completed sync", "stream", entry.TapStreamID, "rows", count)
	}
	return nil
}
