package model

import "time"

// ResultRow is one metadata entry left-joined with its metric record.
// Metric is nil when the entity has no record.
type ResultRow struct {
	Company
	Metric *MetricRecord
}

// ResultTable keeps the row order of the metadata table.
type ResultTable struct {
	Rows []ResultRow
}

// Lookup returns the row for ticker.
func (t *ResultTable) Lookup(ticker string) (ResultRow, bool) {
	for _, r := range t.Rows {
		if r.Ticker == ticker {
			return r, true
		}
	}
	return ResultRow{}, false
}

// Scored returns the number of rows carrying a metric record.
func (t *ResultTable) Scored() int {
	n := 0
	for _, r := range t.Rows {
		if r.Metric != nil {
			n++
		}
	}
	return n
}

// Report is the outcome of one ranking run handed to the presentation layer.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Interval    string
	Period      string
	Window      WindowSpec
	Table       ResultTable
	Failures    []Failure
}
