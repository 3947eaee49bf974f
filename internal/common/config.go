package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for dcacalc
type Config struct {
	Environment string           `toml:"environment"`
	Server      ServerConfig     `toml:"server"`
	Quote       QuoteConfig      `toml:"quote"`
	Benchmarks  BenchmarksConfig `toml:"benchmarks"`
	Limits      LimitsConfig     `toml:"limits"`
	Logging     LoggingConfig    `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// QuoteConfig holds the upstream quote source configuration
type QuoteConfig struct {
	BaseURL    string `toml:"base_url"`
	Symbol     string `toml:"symbol"`
	Currency   string `toml:"currency"`
	APIKey     string `toml:"api_key"`
	RateLimit  int    `toml:"rate_limit"`
	Timeout    string `toml:"timeout"`
	Retries    int    `toml:"retries"`
	RetryDelay string `toml:"retry_delay"`
}

// GetTimeout parses and returns the timeout duration
func (c *QuoteConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetRetryDelay parses and returns the delay between attempts
func (c *QuoteConfig) GetRetryDelay() time.Duration {
	d, err := time.ParseDuration(c.RetryDelay)
	if err != nil || d < 0 {
		return time.Second
	}
	return d
}

// BenchmarkConfig is a named fixed-rate reference investment
type BenchmarkConfig struct {
	Name       string  `toml:"name"`
	AnnualRate float64 `toml:"annual_rate"`
}

// BenchmarksConfig holds the two comparison benchmarks
type BenchmarksConfig struct {
	A BenchmarkConfig `toml:"a"`
	B BenchmarkConfig `toml:"b"`
}

// LimitsConfig bounds accepted calculation inputs
type LimitsConfig struct {
	EarliestDate     string  `toml:"earliest_date"`
	MaxLumpSum       float64 `toml:"max_lump_sum"`
	MaxMonthlyAmount float64 `toml:"max_monthly_amount"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Quote: QuoteConfig{
			BaseURL:    "https://min-api.cryptocompare.com/data",
			Symbol:     "BTC",
			Currency:   "USD",
			RateLimit:  5,
			Timeout:    "30s",
			Retries:    3,
			RetryDelay: "1s",
		},
		Benchmarks: BenchmarksConfig{
			A: BenchmarkConfig{Name: "Benchmark A", AnnualRate: 0.10},
			B: BenchmarkConfig{Name: "Benchmark B", AnnualRate: 0.05},
		},
		Limits: LimitsConfig{
			EarliestDate:     "2015-01-01",
			MaxLumpSum:       1_000_000_000,
			MaxMonthlyAmount: 1_000_000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DCACALC_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("DCACALC_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("DCACALC_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("DCACALC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if symbol := os.Getenv("DCACALC_SYMBOL"); symbol != "" {
		config.Quote.Symbol = strings.ToUpper(symbol)
	}

	if currency := os.Getenv("DCACALC_CURRENCY"); currency != "" {
		config.Quote.Currency = strings.ToUpper(currency)
	}

	if key := os.Getenv("CRYPTOCOMPARE_API_KEY"); key != "" {
		config.Quote.APIKey = key
	}
}

func (c *Config) validate() error {
	if c.Quote.Symbol == "" || c.Quote.Currency == "" {
		return fmt.Errorf("quote symbol and currency are required")
	}
	if c.Quote.Retries < 1 {
		c.Quote.Retries = 1
	}
	if _, err := time.Parse("2006-01-02", c.Limits.EarliestDate); err != nil {
		return fmt.Errorf("invalid limits.earliest_date %q: %w", c.Limits.EarliestDate, err)
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
