// Package config loads creditcast settings from a TOML file, .env files and
// the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all creditcast configuration.
type Config struct {
	Warehouse WarehouseConfig `toml:"warehouse"`
	Forecast  ForecastConfig  `toml:"forecast"`
	Server    ServerConfig    `toml:"server"`
	Cache     CacheConfig     `toml:"cache"`
}

// WarehouseConfig selects and addresses the metering warehouse.
// The password is never read from or written to the file.
type WarehouseConfig struct {
	Driver       string `toml:"driver"`
	Account      string `toml:"account,omitempty"`
	Username     string `toml:"username,omitempty"`
	Role         string `toml:"role,omitempty"`
	Warehouse    string `toml:"warehouse,omitempty"`
	DSN          string `toml:"dsn,omitempty"`
	Path         string `toml:"path,omitempty"`
	Table        string `toml:"table,omitempty"`
	LoginTimeout string `toml:"login_timeout,omitempty"`
	Password     string `toml:"-"`
}

// ForecastConfig tunes the model and pricing.
type ForecastConfig struct {
	Engine         string  `toml:"engine"`
	Price          float64 `toml:"price"`
	MinHistoryDays int     `toml:"min_history_days"`
	HistoryDays    int     `toml:"history_days"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// RateLimit is forecast runs per minute across all clients; 0 disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// CacheConfig sizes the usage query cache.
type CacheConfig struct {
	Size int    `toml:"size"`
	TTL  string `toml:"ttl"`
}

// Drivers accepted in [warehouse].driver.
const (
	DriverSnowflake = "snowflake"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Warehouse: WarehouseConfig{
			Driver:       DriverSnowflake,
			Path:         filepath.Join(DataDir(), "warehouse.db"),
			LoginTimeout: "30s",
		},
		Forecast: ForecastConfig{
			Engine:         "forecaster",
			Price:          2.00,
			MinHistoryDays: 2,
			HistoryDays:    365,
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8501",
			RateLimit: 30,
			Burst:     5,
		},
		Cache: CacheConfig{
			Size: 64,
			TTL:  "15m",
		},
	}
}

// LoginTimeoutDuration parses LoginTimeout, falling back to 30s.
func (w WarehouseConfig) LoginTimeoutDuration() time.Duration {
	return parseDuration(w.LoginTimeout, 30*time.Second)
}

// TTLDuration parses TTL. Zero means entries never expire.
func (c CacheConfig) TTLDuration() time.Duration {
	return parseDuration(c.TTL, 0)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// Validate reports settings no component can run with.
func (c Config) Validate() error {
	switch c.Warehouse.Driver {
	case DriverSnowflake, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown warehouse driver %q (want snowflake, postgres or sqlite)", c.Warehouse.Driver)
	}
	if c.Forecast.Price < 0 {
		return fmt.Errorf("forecast price must be non-negative, got %v", c.Forecast.Price)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must be non-negative, got %d", c.Cache.Size)
	}
	if _, err := time.ParseDuration(c.Cache.TTL); c.Cache.TTL != "" && err != nil {
		return fmt.Errorf("cache ttl: %w", err)
	}
	return nil
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "creditcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "creditcast")
}

// DataDir returns the XDG-compliant data directory, home of the local warehouse.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "creditcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "creditcast")
}

// Path returns the full path to the default config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path (the default path when empty), then
// applies .env files and environment overrides. A missing file yields defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	loadDotEnv()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path (the default path when empty).
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists at path (the default path when empty).
func Exists(path string) bool {
	if path == "" {
		path = Path()
	}
	_, err := os.Stat(path)
	return err == nil
}

// loadDotEnv loads the first .env found. Variables already set win.
func loadDotEnv() {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	paths = append(paths, filepath.Join(Dir(), ".env"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Warehouse.Driver, "CREDITCAST_WAREHOUSE")
	setString(&cfg.Warehouse.DSN, "CREDITCAST_DSN")
	setString(&cfg.Warehouse.Path, "CREDITCAST_DB")
	setString(&cfg.Warehouse.Table, "CREDITCAST_TABLE")
	setString(&cfg.Warehouse.Account, "SNOWFLAKE_ACCOUNT")
	setString(&cfg.Warehouse.Username, "SNOWFLAKE_USER")
	setString(&cfg.Warehouse.Role, "SNOWFLAKE_ROLE")
	setString(&cfg.Warehouse.Warehouse, "SNOWFLAKE_WAREHOUSE")
	setString(&cfg.Warehouse.Password, "SNOWFLAKE_PASSWORD")
	setString(&cfg.Forecast.Engine, "CREDITCAST_ENGINE")
	setFloat(&cfg.Forecast.Price, "CREDITCAST_PRICE")
	setString(&cfg.Server.Addr, "CREDITCAST_ADDR")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
