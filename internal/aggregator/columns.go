// Package aggregator folds per-entity metric records into the result table.
package aggregator

import (
	"fmt"

	"TrendScreener/internal/model"
)

// ColumnNames is the fixed column order of the metric table.
var ColumnNames = []string{"Ticker", "Intervalo", "Desde", "Variación", "Desvío"}

// Columns is the column-oriented form of a list of metric records.
// All slices have the same length and index i describes the same entity.
type Columns struct {
	Ticker    []string
	Interval  []string
	From      []int
	Variation []float64
	Deviation []float64
}

// ToColumns groups the values of records per column, keeping record order.
func ToColumns(records []model.MetricRecord) Columns {
	n := len(records)
	c := Columns{
		Ticker:    make([]string, 0, n),
		Interval:  make([]string, 0, n),
		From:      make([]int, 0, n),
		Variation: make([]float64, 0, n),
		Deviation: make([]float64, 0, n),
	}
	for _, r := range records {
		c.Ticker = append(c.Ticker, r.Ticker)
		c.Interval = append(c.Interval, r.Interval)
		c.From = append(c.From, r.From)
		c.Variation = append(c.Variation, r.Variation)
		c.Deviation = append(c.Deviation, r.Deviation)
	}
	return c
}

// Len returns the number of rows.
func (c Columns) Len() int { return len(c.Ticker) }

// Validate reports whether every column has the same length.
func (c Columns) Validate() error {
	n := len(c.Ticker)
	for name, l := range map[string]int{
		"Intervalo": len(c.Interval),
		"Desde":     len(c.From),
		"Variación": len(c.Variation),
		"Desvío":    len(c.Deviation),
	} {
		if l != n {
			return fmt.Errorf("column %s has %d values, Ticker has %d", name, l, n)
		}
	}
	return nil
}

// Records zips the columns back into records.
func (c Columns) Records() ([]model.MetricRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make([]model.MetricRecord, c.Len())
	for i := range out {
		out[i] = model.MetricRecord{
			Ticker:    c.Ticker[i],
			Interval:  c.Interval[i],
			From:      c.From[i],
			Variation: c.Variation[i],
			Deviation: c.Deviation[i],
		}
	}
	return out, nil
}
