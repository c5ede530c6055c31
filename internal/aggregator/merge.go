package aggregator

import "TrendScreener/internal/model"

// Merge left-joins records onto the metadata table by ticker.
// Rows follow meta order; a company without a record keeps a nil Metric.
// Records with no matching company are dropped, and when a ticker has
// several records the first one wins.
func Merge(meta []model.Company, records []model.MetricRecord) model.ResultTable {
	byTicker := make(map[string]model.MetricRecord, len(records))
	for _, r := range records {
		if _, ok := byTicker[r.Ticker]; ok {
			continue
		}
		byTicker[r.Ticker] = r
	}

	rows := make([]model.ResultRow, len(meta))
	for i, c := range meta {
		rows[i] = model.ResultRow{Company: c}
		if r, ok := byTicker[c.Ticker]; ok {
			rec := r
			rows[i].Metric = &rec
		}
	}
	return model.ResultTable{Rows: rows}
}

// MergeColumns is Merge over the column-oriented form.
func MergeColumns(meta []model.Company, cols Columns) (model.ResultTable, error) {
	records, err := cols.Records()
	if err != nil {
		return model.ResultTable{}, err
	}
	return Merge(meta, records), nil
}
