// Package statedb keeps a local sqlite copy of stream bookmarks, so a run
// can resume even when no downstream loader echoes STATE messages back into
// a state file.
package statedb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

// NewStore wraps an already-open database. The schema must have been
// applied to it.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Bookmark returns the stored last_sync day for a stream; ok is false when
// the stream has never checkpointed.
func (s *Store) Bookmark(ctx context.Context, streamID string) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT last_sync FROM bookmarks WHERE stream_id = ?`,
		streamID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	day, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return day, true, nil
}

// WriteBookmark upserts the stream's last_sync day. Called only at day
// boundaries, after the day's rows are fully emitted.
func (s *Store) WriteBookmark(ctx context.Context, streamID string, day time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO bookmarks (stream_id, last_sync) VALUES (?, ?)
		 ON CONFLICT (stream_id) DO UPDATE SET last_sync = excluded.last_sync`,
		streamID,
		day.UTC().Format(time.RFC3339),
	)
	return err
}
