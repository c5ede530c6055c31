package collector

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/cache"
	"TrendScreener/internal/model"
)

func fastOptions() Options {
	return Options{RatePerSec: 1000, Burst: 10, Workers: 3}
}

func TestCollectSeries_PartialFailure(t *testing.T) {
	mock := &MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAA": BarsFromCloses([]float64{100, 110, 121}),
			"CCC": BarsFromCloses([]float64{5, 6}),
		},
		Errors: map[string]error{"BBB": errors.New("not found")},
	}
	col := NewCollector(mock, fastOptions())

	series, failed := col.CollectSeries(context.Background(), []string{"AAA", "BBB", "CCC"}, "1mo", "1d")

	assert.Equal(t, map[string][]float64{"AAA": {100, 110, 121}, "CCC": {5, 6}}, series)
	require.Contains(t, failed, "BBB")
	assert.ErrorContains(t, failed["BBB"], "not found")
}

func TestCollectSeries_UsesFreshCache(t *testing.T) {
	store, err := cache.NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"AAA": BarsFromCloses([]float64{1, 2, 3})}}
	opts := fastOptions()
	opts.Cache = store
	opts.TTL = time.Hour
	col := NewCollector(mock, opts)

	first, _ := col.CollectSeries(context.Background(), []string{"AAA"}, "1mo", "1d")
	second, _ := col.CollectSeries(context.Background(), []string{"AAA"}, "1mo", "1d")

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), mock.Calls())
}

func TestCollectSeries_StaleCacheRefetches(t *testing.T) {
	store, err := cache.NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(context.Background(), &model.TimeSeries{
		Ticker: "AAA", Interval: "1d", Period: "1mo",
		Closes: []float64{9, 9}, FetchedAt: time.Now().Add(-2 * time.Hour),
	}))

	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"AAA": BarsFromCloses([]float64{1, 2, 3})}}
	opts := fastOptions()
	opts.Cache = store
	opts.TTL = time.Hour
	col := NewCollector(mock, opts)

	series, _ := col.CollectSeries(context.Background(), []string{"AAA"}, "1mo", "1d")
	assert.Equal(t, []float64{1, 2, 3}, series["AAA"])
	assert.Equal(t, int64(1), mock.Calls())
}

func TestFetchOne_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	mock := &MockFetcher{Errors: map[string]error{"BAD": errors.New("boom")}}
	col := NewCollector(mock, fastOptions())

	for i := 0; i < 3; i++ {
		_, err := col.fetchOne(context.Background(), "BAD", "1mo", "1d")
		require.Error(t, err)
	}
	_, err := col.fetchOne(context.Background(), "BAD", "1mo", "1d")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int64(3), mock.Calls())
}

func TestFetchOne_SymbolMissesKeepBreakerClosed(t *testing.T) {
	mock := &MockFetcher{
		Bars:   map[string][]model.OHLCV{"GOOD": BarsFromCloses([]float64{1, 2, 3})},
		Errors: map[string]error{"DEAD": fmt.Errorf("%w: DEAD", ErrSymbolNotFound)},
	}
	col := NewCollector(mock, fastOptions())

	for i := 0; i < 5; i++ {
		_, err := col.fetchOne(context.Background(), "DEAD", "1mo", "1d")
		require.ErrorIs(t, err, ErrSymbolNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, col.Breaker.State())

	closes, err := col.fetchOne(context.Background(), "GOOD", "1mo", "1d")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, closes)
}

func TestFetchOne_CanceledContext(t *testing.T) {
	col := NewCollector(&MockFetcher{Price: 10}, Options{RatePerSec: 0.001, Burst: 1})
	// drain the single burst token
	_, err := col.fetchOne(context.Background(), "AAA", "1mo", "1d")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = col.fetchOne(ctx, "AAA", "1mo", "1d")
	assert.Error(t, err)
}
