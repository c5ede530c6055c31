package collector

import (
	"context"
	"sync/atomic"
	"time"

	"TrendScreener/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	Bars      map[string][]model.OHLCV
	Errors    map[string]error
	Companies []model.Company
	Caps      map[string]float64

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchBars was called.
func (m *MockFetcher) Calls() int64 { return m.calls.Load() }

func (m *MockFetcher) FetchBars(_ context.Context, symbol, _, _ string) ([]model.OHLCV, error) {
	m.calls.Add(1)
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, 22), nil
}

func (m *MockFetcher) FetchMarketCap(_ context.Context, symbol string) (float64, error) {
	return m.Caps[symbol], nil
}

func (m *MockFetcher) FetchGainers(_ context.Context) ([]model.Company, error) {
	out := make([]model.Company, len(m.Companies))
	copy(out, m.Companies)
	return out, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// BarsFromCloses builds daily bars ending today from a close series.
func BarsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  time.Now().AddDate(0, 0, -(len(closes) - i)),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return bars
}
