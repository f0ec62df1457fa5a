package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers understood by the gateway.
const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

// Default room tag vocabulary used by the meeting_rooms table.
const (
	DefaultExclusiveProvincialTag = "省公司会议（不可兼容总部会议）"
	DefaultCompatibleMarker       = "可兼容省公司会议"
)

// Config represents the overall application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Store        StoreConfig        `yaml:"store"`
	Levels       LevelsConfig       `yaml:"levels"`
	Availability AvailabilityConfig `yaml:"availability"`
	Reserve      ReserveConfig      `yaml:"reserve"`
	Log          LogConfig          `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds *int          `yaml:"cache_ttl_seconds"` // unset means 30, 0 disables the cache
	CacheTTL        time.Duration `yaml:"-"`
}

// StoreConfig selects and configures the backing store.
type StoreConfig struct {
	Driver                 string        `yaml:"driver"`
	BaseURL                string        `yaml:"base_url"`
	TimeoutSeconds         int           `yaml:"timeout_seconds"`
	Timeout                time.Duration `yaml:"-"` // zero leaves the HTTP client default in place
	DSN                    string        `yaml:"dsn"`
	MaxOpenConns           int           `yaml:"max_open_conns"`
	MaxIdleConns           int           `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int           `yaml:"conn_max_lifetime_minutes"`
	AutoMigrate            bool          `yaml:"auto_migrate"`
}

// LevelsConfig is the free-text tag vocabulary rooms are classified by.
type LevelsConfig struct {
	ExclusiveProvincialTag string `yaml:"exclusive_provincial_tag"`
	CompatibleMarker       string `yaml:"compatible_marker"`
}

// AvailabilityConfig tunes the availability search.
type AvailabilityConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// ReserveConfig tunes the reservation writer.
type ReserveConfig struct {
	RecentLimit *int `yaml:"recent_limit"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RecentLimitOrDefault returns how many recent reservations to echo after a booking.
func (r ReserveConfig) RecentLimitOrDefault() int {
	if r.RecentLimit == nil {
		return 5
	}
	if *r.RecentLimit < 0 {
		return 0
	}
	return *r.RecentLimit
}

// Load reads the configuration from the given path. An empty path skips the
// file and yields defaults plus environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.Store.BaseURL = v
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	cfg.Server.CacheTTL = 30 * time.Second
	if ttl := cfg.Server.CacheTTLSeconds; ttl != nil {
		cfg.Server.CacheTTL = 0
		if *ttl > 0 {
			cfg.Server.CacheTTL = time.Duration(*ttl) * time.Second
		}
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverPostgREST
	}
	if cfg.Store.Driver == DriverPostgREST && cfg.Store.BaseURL == "" {
		cfg.Store.BaseURL = "http://localhost:3000"
	}
	cfg.Store.BaseURL = strings.TrimRight(cfg.Store.BaseURL, "/")
	if cfg.Store.TimeoutSeconds > 0 {
		cfg.Store.Timeout = time.Duration(cfg.Store.TimeoutSeconds) * time.Second
	}

	if cfg.Levels.ExclusiveProvincialTag == "" {
		cfg.Levels.ExclusiveProvincialTag = DefaultExclusiveProvincialTag
	}
	if cfg.Levels.CompatibleMarker == "" {
		cfg.Levels.CompatibleMarker = DefaultCompatibleMarker
	}

	if cfg.Availability.Concurrency <= 0 {
		cfg.Availability.Concurrency = 4
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverPostgREST:
	case DriverPostgres, DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}
