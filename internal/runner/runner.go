// Package runner scores a set of entities with the trend-deviation pipeline.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"TrendScreener/internal/calculator"
	"TrendScreener/internal/model"
)

// ErrMissingEntityData is returned when no series is available for a ticker.
var ErrMissingEntityData = errors.New("missing entity data")

// SeriesSource provides the close series of an entity.
type SeriesSource interface {
	Series(ticker string) ([]float64, bool)
}

// SeriesMap adapts a map to SeriesSource.
type SeriesMap map[string][]float64

func (m SeriesMap) Series(ticker string) ([]float64, bool) {
	s, ok := m[ticker]
	return s, ok
}

// Config is applied uniformly to every entity of a run.
type Config struct {
	Window   model.WindowSpec
	Interval string
	Workers  int
}

// Outcome partitions a run into scored records and failures.
// Both follow the order of the requested tickers.
type Outcome struct {
	Records  []model.MetricRecord
	Failures []model.Failure
}

// Runner scores entities concurrently with a bounded worker pool.
type Runner struct {
	cfg Config
}

// New creates a Runner. Workers defaults to the number of CPUs.
func New(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Runner{cfg: cfg}
}

// Config returns the runner configuration.
func (r *Runner) Config() Config { return r.cfg }

type result struct {
	record model.MetricRecord
	err    error
}

// Run scores every ticker in tickers against the series found in src.
// A failing ticker is recorded and never stops the others. Once ctx is
// done, tickers not yet started are reported as canceled.
func (r *Runner) Run(ctx context.Context, tickers []string, src SeriesSource) Outcome {
	tickers = dedupe(tickers)
	results := make([]result, len(tickers))

	g := new(errgroup.Group)
	g.SetLimit(r.cfg.Workers)
	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			results[i] = result{err: fmt.Errorf("not started: %w", err)}
			continue
		}
		g.Go(func() error {
			results[i] = r.scoreOne(ticker, src)
			return nil
		})
	}
	_ = g.Wait()

	var out Outcome
	for i, res := range results {
		if res.err != nil {
			f := model.Failure{Ticker: tickers[i], Kind: KindOf(res.err), Err: res.err}
			log.Warn().Str("ticker", f.Ticker).Str("kind", string(f.Kind)).Err(res.err).Msg("entity excluded from ranking")
			out.Failures = append(out.Failures, f)
			continue
		}
		out.Records = append(out.Records, res.record)
	}
	return out
}

func (r *Runner) scoreOne(ticker string, src SeriesSource) (res result) {
	defer func() {
		if p := recover(); p != nil {
			res = result{err: fmt.Errorf("panic while scoring: %v", p)}
		}
	}()

	series, ok := src.Series(ticker)
	if !ok {
		return result{err: fmt.Errorf("%w: no series for %s", ErrMissingEntityData, ticker)}
	}
	variation, deviation, err := calculator.Score(series, r.cfg.Window)
	if err != nil {
		return result{err: fmt.Errorf("score %s: %w", ticker, err)}
	}
	return result{record: model.MetricRecord{
		Ticker:    ticker,
		Interval:  r.cfg.Interval,
		From:      r.cfg.Window.From,
		Variation: variation,
		Deviation: deviation,
	}}
}

// KindOf classifies a scoring error.
func KindOf(err error) model.ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingEntityData):
		return model.KindMissingEntityData
	case errors.Is(err, calculator.ErrDivisionByZero):
		return model.KindDivisionByZero
	case errors.Is(err, calculator.ErrDegenerateWindow):
		return model.KindDegenerateWindow
	case errors.Is(err, calculator.ErrInvalidWindow):
		return model.KindInvalidWindow
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return model.KindCanceled
	default:
		return model.KindUnknown
	}
}

func dedupe(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
