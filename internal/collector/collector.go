package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"TrendScreener/internal/cache"
	"TrendScreener/internal/calculator"
	"TrendScreener/internal/model"
	"TrendScreener/internal/observability"
)

// Options tunes how a Collector talks to its data source.
type Options struct {
	Cache      cache.SeriesCache
	TTL        time.Duration
	RatePerSec float64
	Burst      int
	Workers    int
	Metrics    *observability.Metrics
}

// Collector downloads close series for many tickers, serving fresh entries
// from the cache and throttling the rest.
type Collector struct {
	Fetcher SeriesFetcher
	Cache   cache.SeriesCache
	TTL     time.Duration
	Limiter *rate.Limiter
	Breaker *gobreaker.CircuitBreaker
	Workers int
	Metrics *observability.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher SeriesFetcher, opts Options) *Collector {
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopCache()
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Collector{
		Fetcher: fetcher,
		Cache:   opts.Cache,
		TTL:     opts.TTL,
		Limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		Breaker: newBreaker(fetcher.Name()),
		Workers: opts.Workers,
		Metrics: opts.Metrics,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	// Only source-level trouble counts against the breaker.
	st.IsSuccessful = func(err error) bool {
		return err == nil ||
			errors.Is(err, ErrSymbolNotFound) ||
			errors.Is(err, context.Canceled)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().Str("source", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
	}
	return gobreaker.NewCircuitBreaker(st)
}

// CollectSeries fetches the close series of every ticker. Tickers that fail
// are absent from series and listed in failed; they never stop the others.
func (c *Collector) CollectSeries(ctx context.Context, tickers []string, period, interval string) (series map[string][]float64, failed map[string]error) {
	series = make(map[string][]float64, len(tickers))
	failed = make(map[string]error)
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(c.Workers)
	for _, ticker := range tickers {
		g.Go(func() error {
			closes, err := c.fetchOne(ctx, ticker, period, interval)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Str("ticker", ticker).Err(err).Msg("series fetch failed")
				failed[ticker] = err
				return nil
			}
			series[ticker] = closes
			return nil
		})
	}
	_ = g.Wait()
	return series, failed
}

func (c *Collector) fetchOne(ctx context.Context, ticker, period, interval string) ([]float64, error) {
	key := cache.Key{Ticker: ticker, Interval: interval, Period: period}
	if ts, ok, err := c.Cache.Get(ctx, key); err != nil {
		log.Warn().Str("ticker", ticker).Err(err).Msg("cache lookup failed")
	} else if ok && c.TTL > 0 && time.Since(ts.FetchedAt) < c.TTL {
		c.Metrics.ObserveCache(true)
		return ts.Closes, nil
	}
	c.Metrics.ObserveCache(false)

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	v, err := c.Breaker.Execute(func() (interface{}, error) {
		return c.Fetcher.FetchBars(ctx, ticker, period, interval)
	})
	c.Metrics.ObserveFetch(c.Fetcher.Name(), err)
	if err != nil {
		return nil, fmt.Errorf("%s fetch %s: %w", c.Fetcher.Name(), ticker, err)
	}
	closes := calculator.Closes(v.([]model.OHLCV))

	ts := &model.TimeSeries{Ticker: ticker, Interval: interval, Period: period, Closes: closes, FetchedAt: time.Now()}
	if err := c.Cache.Put(ctx, ts); err != nil {
		log.Warn().Str("ticker", ticker).Err(err).Msg("cache store failed")
	}
	return closes, nil
}
