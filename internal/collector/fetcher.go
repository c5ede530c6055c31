package collector

import (
	"context"
	"errors"

	"TrendScreener/internal/model"
)

// ErrSymbolNotFound marks a per-symbol miss (unknown ticker, empty chart).
// It says nothing about the health of the data source.
var ErrSymbolNotFound = errors.New("symbol not found")

// SeriesFetcher defines the interface for fetching price history.
// period and interval use the Yahoo vocabulary ("1mo", "1d", "1wk"...).
type SeriesFetcher interface {
	FetchBars(ctx context.Context, symbol, period, interval string) ([]model.OHLCV, error)
	Name() string
}

// MarketCapFetcher looks up the market capitalization of a symbol.
type MarketCapFetcher interface {
	FetchMarketCap(ctx context.Context, symbol string) (float64, error)
}

// GainersFetcher lists the companies with the largest daily gain.
type GainersFetcher interface {
	FetchGainers(ctx context.Context) ([]model.Company, error)
	Name() string
}
