package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/model"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	fetched := time.Unix(1700000000, 0)

	ts := &model.TimeSeries{Ticker: "AAPL", Interval: "1d", Period: "1mo", Closes: []float64{1.5, 2.25, 3}, FetchedAt: fetched}
	require.NoError(t, c.Put(ctx, ts))

	got, ok, err := c.Get(ctx, KeyOf(ts))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 2.25, 3}, got.Closes)
	assert.True(t, got.FetchedAt.Equal(fetched))

	_, ok, err = c.Get(ctx, Key{Ticker: "AAPL", Interval: "1wk", Period: "1mo"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	key := Key{Ticker: "MSFT", Interval: "1d", Period: "1mo"}
	require.NoError(t, c.Put(ctx, &model.TimeSeries{Ticker: "MSFT", Interval: "1d", Period: "1mo", Closes: []float64{1}}))
	require.NoError(t, c.Put(ctx, &model.TimeSeries{Ticker: "MSFT", Interval: "1d", Period: "1mo", Closes: []float64{4, 5}}))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{4, 5}, got.Closes)
}

func TestSQLiteCache_Prune(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	old := &model.TimeSeries{Ticker: "OLD", Interval: "1d", Period: "1mo", Closes: []float64{1}, FetchedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &model.TimeSeries{Ticker: "NEW", Interval: "1d", Period: "1mo", Closes: []float64{1}, FetchedAt: time.Now()}
	require.NoError(t, c.Put(ctx, old))
	require.NoError(t, c.Put(ctx, fresh))

	n, err := c.Prune(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err := c.Get(ctx, KeyOf(old))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = c.Get(ctx, KeyOf(fresh))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	require.NoError(t, c.Put(context.Background(), &model.TimeSeries{Ticker: "X"}))
	_, ok, err := c.Get(context.Background(), Key{Ticker: "X"})
	require.NoError(t, err)
	assert.False(t, ok)
}
