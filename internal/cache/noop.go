package cache

import (
	"context"

	"TrendScreener/internal/model"
)

// NoopCache is used when SQLite is not configured. Every lookup misses.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (n *NoopCache) Get(_ context.Context, _ Key) (*model.TimeSeries, bool, error) {
	return nil, false, nil
}
func (n *NoopCache) Put(_ context.Context, _ *model.TimeSeries) error { return nil }
func (n *NoopCache) Close() error                                     { return nil }
