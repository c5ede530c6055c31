package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/model"
)

func sampleRecords() []model.MetricRecord {
	return []model.MetricRecord{
		{Ticker: "AAA", Interval: "1d", From: -5, Variation: 21.0, Deviation: 0.5},
		{Ticker: "CCC", Interval: "1d", From: -5, Variation: -3.2, Deviation: 12.4},
	}
}

func TestToColumns_RoundTrip(t *testing.T) {
	records := sampleRecords()
	cols := ToColumns(records)

	assert.Equal(t, 2, cols.Len())
	assert.Equal(t, []string{"AAA", "CCC"}, cols.Ticker)
	assert.Equal(t, []int{-5, -5}, cols.From)
	assert.Equal(t, []float64{21.0, -3.2}, cols.Variation)
	assert.Equal(t, []float64{0.5, 12.4}, cols.Deviation)

	back, err := cols.Records()
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestToColumns_Empty(t *testing.T) {
	cols := ToColumns(nil)
	assert.Equal(t, 0, cols.Len())
	records, err := cols.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestColumns_Misaligned(t *testing.T) {
	cols := ToColumns(sampleRecords())
	cols.Deviation = cols.Deviation[:1]
	_, err := cols.Records()
	assert.Error(t, err)
}

func TestMerge_LeftJoin(t *testing.T) {
	meta := []model.Company{
		{Ticker: "CCC", Name: "Charlie", MarketCap: 3e9, ChangePct: 8.1},
		{Ticker: "BBB", Name: "Bravo", MarketCap: 2e9, ChangePct: 9.7},
		{Ticker: "AAA", Name: "Alpha", MarketCap: 1e9, ChangePct: 12.3},
	}
	records := append(sampleRecords(), model.MetricRecord{Ticker: "ZZZ", Interval: "1d", From: -5})

	table := Merge(meta, records)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "CCC", table.Rows[0].Ticker)
	assert.Equal(t, "BBB", table.Rows[1].Ticker)
	assert.Equal(t, "AAA", table.Rows[2].Ticker)

	require.NotNil(t, table.Rows[0].Metric)
	assert.Equal(t, 12.4, table.Rows[0].Metric.Deviation)
	assert.Nil(t, table.Rows[1].Metric)
	require.NotNil(t, table.Rows[2].Metric)
	assert.Equal(t, 21.0, table.Rows[2].Metric.Variation)
	assert.Equal(t, "Alpha", table.Rows[2].Name)

	_, ok := table.Lookup("ZZZ")
	assert.False(t, ok)
	assert.Equal(t, 2, table.Scored())
}

func TestMerge_OrderIndependent(t *testing.T) {
	meta := []model.Company{{Ticker: "AAA"}, {Ticker: "CCC"}}
	records := sampleRecords()
	reversed := []model.MetricRecord{records[1], records[0]}

	assert.Equal(t, Merge(meta, records), Merge(meta, reversed))
}

func TestMerge_FirstRecordWins(t *testing.T) {
	meta := []model.Company{{Ticker: "AAA"}}
	records := []model.MetricRecord{
		{Ticker: "AAA", Deviation: 1},
		{Ticker: "AAA", Deviation: 2},
	}
	table := Merge(meta, records)
	require.NotNil(t, table.Rows[0].Metric)
	assert.Equal(t, 1.0, table.Rows[0].Metric.Deviation)
}

func TestMergeColumns(t *testing.T) {
	meta := []model.Company{{Ticker: "AAA"}, {Ticker: "BBB"}}
	table, err := MergeColumns(meta, ToColumns(sampleRecords()))
	require.NoError(t, err)
	row, ok := table.Lookup("AAA")
	require.True(t, ok)
	require.NotNil(t, row.Metric)
	assert.Equal(t, "1d", row.Metric.Interval)
}
