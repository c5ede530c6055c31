package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"TrendScreener/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Screener struct {
		Period   string `yaml:"period"`
		Interval string `yaml:"interval"`
		Desde    int    `yaml:"desde"`
		Hasta    int    `yaml:"hasta"`
		Workers  int    `yaml:"workers"`
	} `yaml:"screener"`
	DataSource struct {
		FMPBaseURL   string   `yaml:"fmp_base_url"`
		FMPAPIKey    string   `yaml:"fmp_api_key"`
		YahooBaseURL string   `yaml:"yahoo_base_url"`
		RatePerSec   float64  `yaml:"rate_per_sec"`
		Burst        int      `yaml:"burst"`
		Workers      int      `yaml:"workers"`
		Tickers      []string `yaml:"tickers"`
	} `yaml:"data_source"`
	Cache struct {
		SQLitePath string        `yaml:"sqlite_path"`
		TTL        time.Duration `yaml:"ttl"`
		Retention  time.Duration `yaml:"retention"`
	} `yaml:"cache"`
	Schedule struct {
		Cron      string `yaml:"cron"`
		PruneCron string `yaml:"prune_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Server struct {
		Addr      string `yaml:"addr"`
		AccessKey string `yaml:"access_key"`
		Timezone  string `yaml:"timezone"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// An explicit empty cache.sqlite_path or a zero cache.ttl disables the
// series cache, so cache defaults are set before the file is read.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Cache.SQLitePath = "data/trend_screener.db"
	cfg.Cache.TTL = 30 * time.Minute
	cfg.Cache.Retention = 7 * 24 * time.Hour

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.DataSource.FMPAPIKey = v
	}
	if v := os.Getenv("SCREENER_ACCESS_KEY"); v != "" {
		cfg.Server.AccessKey = v
	}
	if v := os.Getenv("SCREENER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCREENER_PERIOD"); v != "" {
		cfg.Screener.Period = v
	}
	if v := os.Getenv("SCREENER_INTERVAL"); v != "" {
		cfg.Screener.Interval = v
	}
	if v := os.Getenv("SCREENER_DESDE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse SCREENER_DESDE: %w", err)
		}
		cfg.Screener.Desde = n
	}
	if v := os.Getenv("SCREENER_HASTA"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse SCREENER_HASTA: %w", err)
		}
		cfg.Screener.Hasta = n
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Screener.Period == "" {
		cfg.Screener.Period = "1mo"
	}
	if cfg.Screener.Interval == "" {
		cfg.Screener.Interval = "1d"
	}
	if cfg.Screener.Desde == 0 {
		cfg.Screener.Desde = -5
	}
	if cfg.Screener.Workers == 0 {
		cfg.Screener.Workers = 4
	}
	if cfg.DataSource.RatePerSec == 0 {
		cfg.DataSource.RatePerSec = 2
	}
	if cfg.DataSource.Burst == 0 {
		cfg.DataSource.Burst = 2
	}
	if cfg.DataSource.Workers == 0 {
		cfg.DataSource.Workers = 4
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 */30 9-17 * * 1-5"
	}
	if cfg.Schedule.PruneCron == "" {
		cfg.Schedule.PruneCron = "0 0 3 * * *"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:8080"
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "America/Argentina/Buenos_Aires"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// CacheEnabled reports whether downloaded series are cached in SQLite.
func (c *Config) CacheEnabled() bool {
	return c.Cache.SQLitePath != "" && c.Cache.TTL > 0
}

// Window returns the configured scoring window.
func (c *Config) Window() model.WindowSpec {
	return model.WindowSpec{From: c.Screener.Desde, To: c.Screener.Hasta}
}

// Validate checks the settings needed for a ranking run.
func (c *Config) Validate() error {
	if c.Screener.Desde > 0 || c.Screener.Hasta > 0 {
		return fmt.Errorf("screener.desde and screener.hasta must be <= 0")
	}
	if c.Screener.Hasta-c.Screener.Desde < 1 {
		return fmt.Errorf("screener window [%d, %d] selects fewer than 2 points", c.Screener.Desde, c.Screener.Hasta)
	}
	if c.Screener.Workers < 1 {
		return fmt.Errorf("screener.workers must be positive")
	}
	if c.DataSource.FMPAPIKey == "" && len(c.DataSource.Tickers) == 0 {
		return fmt.Errorf("data_source.fmp_api_key is required unless data_source.tickers is set")
	}
	if c.DataSource.RatePerSec < 0 {
		return fmt.Errorf("data_source.rate_per_sec must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Cache.Retention < 0 {
		return fmt.Errorf("cache.retention must not be negative")
	}
	return nil
}

// ValidateServe checks the extra settings needed by the serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.AccessKey == "" {
		return fmt.Errorf("server.access_key (or SCREENER_ACCESS_KEY) is required")
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("server.timezone: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether Telegram delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
