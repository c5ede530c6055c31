package main

import (
	"github.com/rs/zerolog/log"

	"TrendScreener/internal/cache"
	"TrendScreener/internal/collector"
	"TrendScreener/internal/config"
	"TrendScreener/internal/observability"
	"TrendScreener/internal/runner"
	"TrendScreener/internal/screener"
)

// components are the long-lived parts shared by rank and serve.
type components struct {
	Screener *screener.Screener
	Cache    cache.SeriesCache
	SQLite   *cache.SQLiteCache // nil when the cache is disabled or unavailable
	Metrics  *observability.Metrics
}

func (c *components) Close() {
	if err := c.Cache.Close(); err != nil {
		log.Warn().Err(err).Msg("close series cache")
	}
}

func buildComponents(cfg *config.Config) *components {
	metrics := observability.NewMetrics("trend_screener")

	comp := &components{Metrics: metrics, Cache: cache.NewNoopCache()}
	if cfg.CacheEnabled() {
		sc, err := cache.NewSQLiteCache(cfg.Cache.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite cache failed, using noop")
		} else {
			comp.Cache, comp.SQLite = sc, sc
		}
	} else {
		log.Info().Msg("series cache disabled")
	}

	yahoo := collector.NewYahooFetcher(cfg.DataSource.YahooBaseURL, cfg.Proxy)
	col := collector.NewCollector(yahoo, collector.Options{
		Cache:      comp.Cache,
		TTL:        cfg.Cache.TTL,
		RatePerSec: cfg.DataSource.RatePerSec,
		Burst:      cfg.DataSource.Burst,
		Workers:    cfg.DataSource.Workers,
		Metrics:    metrics,
	})

	var gainers collector.GainersFetcher
	if len(cfg.DataSource.Tickers) == 0 {
		gainers = collector.NewFMPFetcher(cfg.DataSource.FMPBaseURL, cfg.DataSource.FMPAPIKey, cfg.Proxy, yahoo)
	}
	log.Info().
		Str("series", yahoo.Name()).
		Bool("gainers", gainers != nil).
		Int("static_tickers", len(cfg.DataSource.Tickers)).
		Msg("data sources ready")

	r := runner.New(runner.Config{
		Window:   cfg.Window(),
		Interval: cfg.Screener.Interval,
		Workers:  cfg.Screener.Workers,
	})
	comp.Screener = screener.New(gainers, cfg.DataSource.Tickers, col, r, cfg.Screener.Period, metrics)
	return comp
}
