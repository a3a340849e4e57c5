package statedb

import (
	"context"
	"testing"
	"time"

	"tap-rakuten/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestBookmarkRoundTrip(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "internal/statedb",
		DbSchema: Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx := context.Background()

	_, ok, err := store.Bookmark(ctx, "report")
	require.NoError(t, err)
	require.False(t, ok)

	day := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.WriteBookmark(ctx, "report", day))

	got, ok, err := store.Bookmark(ctx, "report")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, day, got)

	// upsert moves the bookmark forward
	next := day.AddDate(0, 0, 1)
	require.NoError(t, store.WriteBookmark(ctx, "report", next))
	got, _, err = store.Bookmark(ctx, "report")
	require.NoError(t, err)
	require.Equal(t, next, got)
}

func TestOpenAppliesSchema(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.WriteBookmark(ctx, "report", time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)))
}
