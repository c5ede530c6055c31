// Package screener runs one full ranking: metadata, series, scoring and merge.
package screener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"TrendScreener/internal/aggregator"
	"TrendScreener/internal/collector"
	"TrendScreener/internal/model"
	"TrendScreener/internal/observability"
	"TrendScreener/internal/runner"
)

// ErrNoEntities is returned when there is nothing to rank.
var ErrNoEntities = errors.New("no entities to rank")

// Screener produces ranking reports.
type Screener struct {
	Gainers   collector.GainersFetcher
	Tickers   []string // used when Gainers is nil
	Collector *collector.Collector
	Runner    *runner.Runner
	Period    string
	Metrics   *observability.Metrics
}

// New creates a Screener. gainers may be nil, in which case the static
// tickers are ranked without company metadata.
func New(gainers collector.GainersFetcher, tickers []string, col *collector.Collector, r *runner.Runner, period string, m *observability.Metrics) *Screener {
	return &Screener{
		Gainers:   gainers,
		Tickers:   tickers,
		Collector: col,
		Runner:    r,
		Period:    period,
		Metrics:   m,
	}
}

// Run executes one ranking. Per-entity problems end up in Report.Failures;
// only a failure to obtain the entity list aborts the run.
func (s *Screener) Run(ctx context.Context) (report *model.Report, err error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Logger()
	defer func() { s.Metrics.ObserveRun(started, err) }()

	companies, err := s.companies(ctx)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, ErrNoEntities
	}
	tickers := make([]string, len(companies))
	for i, c := range companies {
		tickers[i] = c.Ticker
	}
	logger.Info().Int("entities", len(tickers)).Msg("ranking run started")

	cfg := s.Runner.Config()
	series, fetchFailed := s.Collector.CollectSeries(ctx, tickers, s.Period, cfg.Interval)
	out := s.Runner.Run(ctx, tickers, runner.SeriesMap(series))
	for i, f := range out.Failures {
		if cause, ok := fetchFailed[f.Ticker]; ok && f.Kind == model.KindMissingEntityData {
			out.Failures[i].Err = fmt.Errorf("%w: %v", runner.ErrMissingEntityData, cause)
		}
	}
	s.Metrics.ObserveEntities(len(out.Records), out.Failures)

	table, err := aggregator.MergeColumns(companies, aggregator.ToColumns(out.Records))
	if err != nil {
		return nil, fmt.Errorf("merge results: %w", err)
	}

	report = &model.Report{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Interval:    cfg.Interval,
		Period:      s.Period,
		Window:      cfg.Window,
		Table:       table,
		Failures:    out.Failures,
	}
	logger.Info().
		Int("scored", len(out.Records)).
		Int("failed", len(out.Failures)).
		Dur("took", time.Since(started)).
		Msg("ranking run finished")
	return report, nil
}

func (s *Screener) companies(ctx context.Context) ([]model.Company, error) {
	if s.Gainers == nil {
		out := make([]model.Company, len(s.Tickers))
		for i, t := range s.Tickers {
			out[i] = model.Company{Ticker: t}
		}
		return out, nil
	}
	companies, err := s.Gainers.FetchGainers(ctx)
	s.Metrics.ObserveFetch(s.Gainers.Name(), err)
	if err != nil {
		return nil, fmt.Errorf("fetch gainers: %w", err)
	}
	return companies, nil
}
