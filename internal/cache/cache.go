// Package cache keeps downloaded close series so repeated runs within the
// configured TTL do not hit the data source again.
package cache

import (
	"context"

	"TrendScreener/internal/model"
)

// Key identifies a cached series.
type Key struct {
	Ticker   string
	Interval string
	Period   string
}

// SeriesCache stores close series keyed by ticker, interval and period.
type SeriesCache interface {
	// Get returns the cached series for key. ok is false on a miss.
	Get(ctx context.Context, key Key) (ts *model.TimeSeries, ok bool, err error)
	Put(ctx context.Context, ts *model.TimeSeries) error
	Close() error
}

// KeyOf returns the cache key of ts.
func KeyOf(ts *model.TimeSeries) Key {
	return Key{Ticker: ts.Ticker, Interval: ts.Interval, Period: ts.Period}
}
