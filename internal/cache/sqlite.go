package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"TrendScreener/internal/model"
)

// SQLiteCache persists close series to a SQLite database.
type SQLiteCache struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteCache opens (or creates) the SQLite database and runs migrations.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the server read while a scheduled run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite series cache opened")
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series_cache (
			ticker     TEXT NOT NULL,
			bar_interval TEXT NOT NULL,
			period     TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			closes     TEXT NOT NULL,
			PRIMARY KEY (ticker, bar_interval, period)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_series_fetched ON series_cache(fetched_at)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (c *SQLiteCache) Get(ctx context.Context, key Key) (*model.TimeSeries, bool, error) {
	var (
		fetchedAt int64
		raw       string
	)
	err := c.db.QueryRowContext(ctx, `SELECT fetched_at, closes FROM series_cache
		WHERE ticker = ? AND bar_interval = ? AND period = ?`,
		key.Ticker, key.Interval, key.Period,
	).Scan(&fetchedAt, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query series %s: %w", key.Ticker, err)
	}

	var closes []float64
	if err := json.Unmarshal([]byte(raw), &closes); err != nil {
		return nil, false, fmt.Errorf("decode series %s: %w", key.Ticker, err)
	}
	return &model.TimeSeries{
		Ticker:    key.Ticker,
		Interval:  key.Interval,
		Period:    key.Period,
		Closes:    closes,
		FetchedAt: time.Unix(fetchedAt, 0),
	}, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, ts *model.TimeSeries) error {
	raw, err := json.Marshal(ts.Closes)
	if err != nil {
		return fmt.Errorf("encode series %s: %w", ts.Ticker, err)
	}
	key := KeyOf(ts)
	fetchedAt := ts.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.ExecContext(ctx, `INSERT INTO series_cache
		(ticker, bar_interval, period, fetched_at, closes)
		VALUES (?,?,?,?,?)
		ON CONFLICT(ticker, bar_interval, period) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			closes = excluded.closes`,
		key.Ticker, key.Interval, key.Period, fetchedAt.Unix(), string(raw),
	)
	return err
}

// Prune deletes entries fetched before cutoff and returns how many were removed.
func (c *SQLiteCache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx, `DELETE FROM series_cache WHERE fetched_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune series cache: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) Close() error {
	log.Info().Msg("closing sqlite series cache")
	return c.db.Close()
}
