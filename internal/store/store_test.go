package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendvet/pkg/source"
	"trendvet/pkg/validate"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertItemUpdatesInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := source.Item{
		ID:          "rss:Marketing Dive:guid-1",
		Source:      source.SourceRSS,
		ExternalID:  "guid-1",
		Title:       "old title",
		CollectedAt: time.Now().UTC(),
	}
	require.NoError(t, s.UpsertItem(ctx, &item))

	// Re-collecting the same item replaces the row, keyed on id.
	item.Title = "new title"
	require.NoError(t, s.UpsertItem(ctx, &item))

	items, err := s.ListItems(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "new title", items[0].Title)
}

func TestListItemsBySource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.UpsertItems(ctx, []source.Item{
		{ID: "rss:a", Source: source.SourceRSS, ExternalID: "a", Title: "a", CollectedAt: now},
		{ID: "hackernews:1", Source: source.SourceHackerNews, ExternalID: "1", Title: "b", CollectedAt: now},
	}))

	items, err := s.ListItems(ctx, ListOpts{Source: source.SourceRSS})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rss:a", items[0].ID)

	counts, err := s.CountItemsBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[source.SourceRSS])
	assert.Equal(t, 1, counts[source.SourceHackerNews])
}

func TestReplaceTrendsKeepsAlerted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trends := []validate.ValidatedTrend{
		{ID: "validated-a", Title: "trend", ValidationScore: 90, SourceCount: 2, IsValidated: true},
	}
	require.NoError(t, s.ReplaceTrends(ctx, trends))
	require.NoError(t, s.MarkAlerted(ctx, "validated-a"))

	// Regenerating the same trend must not re-arm the alert.
	require.NoError(t, s.ReplaceTrends(ctx, trends))

	records, err := s.ListTrends(ctx, TrendListOpts{Unalerted: true})
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = s.ListTrends(ctx, TrendListOpts{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Alerted)
	assert.Equal(t, "trend", records[0].Trend.Title)
}
