package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TimeSeries holds the close observations of one entity, oldest first.
type TimeSeries struct {
	Ticker    string
	Interval  string
	Period    string
	Closes    []float64
	FetchedAt time.Time
}

// Company is the metadata row supplied by the gainers list.
type Company struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	MarketCap float64 `json:"market_cap"`
	ChangePct float64 `json:"change_pct"`
}
