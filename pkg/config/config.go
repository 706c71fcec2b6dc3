package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Defaults mirror the paper-trading setup this service was built against.
const (
	DefaultBaseURL       = "https://paper-api.alpaca.markets/v2"
	DefaultMaxOrderValue = 1000
	DefaultTimeoutSec    = 10
	DefaultListen        = ":8080"
)

// Config holds everything the server needs at startup. Credentials are read
// once here and never change afterwards.
type Config struct {
	BaseURL        string
	APIKey         string
	APISecret      string
	AllowedSymbols []string
	MaxOrderValue  decimal.Decimal
	RequestTimeout time.Duration
	Listen         string
	LogLevel       string
	LogFile        string
}

// fileConfig is the YAML shape; env vars override whatever the file sets.
type fileConfig struct {
	BaseURL           string   `yaml:"base_url"`
	APIKey            string   `yaml:"api_key"`
	APISecret         string   `yaml:"api_secret"`
	AllowedSymbols    []string `yaml:"allowed_symbols"`
	MaxOrderValue     float64  `yaml:"max_order_value"`
	RequestTimeoutSec int      `yaml:"request_timeout"`
	Listen            string   `yaml:"listen"`
	LogLevel          string   `yaml:"log_level"`
	LogFile           string   `yaml:"log_file"`
}

func defaults() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		MaxOrderValue:  decimal.NewFromInt(DefaultMaxOrderValue),
		RequestTimeout: DefaultTimeoutSec * time.Second,
		Listen:         DefaultListen,
		LogLevel:       "info",
	}
}

// Load builds the config from environment variables only.
func Load() (*Config, error) {
	cfg := defaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config file, then lets the environment override it.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.APIKey != "" {
		cfg.APIKey = fc.APIKey
	}
	if fc.APISecret != "" {
		cfg.APISecret = fc.APISecret
	}
	if len(fc.AllowedSymbols) > 0 {
		cfg.AllowedSymbols = normalizeSymbols(fc.AllowedSymbols)
	}
	if fc.MaxOrderValue > 0 {
		cfg.MaxOrderValue = decimal.NewFromFloat(fc.MaxOrderValue)
	}
	if fc.RequestTimeoutSec > 0 {
		cfg.RequestTimeout = time.Duration(fc.RequestTimeoutSec) * time.Second
	}
	if fc.Listen != "" {
		cfg.Listen = fc.Listen
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BaseURL = getEnv("ALPACA_BASE", c.BaseURL)
	c.APIKey = getEnv("ALPACA_API_KEY", c.APIKey)
	c.APISecret = getEnv("ALPACA_SECRET_KEY", c.APISecret)
	if v := os.Getenv("ALLOWED_SYMBOLS"); v != "" {
		c.AllowedSymbols = normalizeSymbols(strings.Split(v, ","))
	}
	if v := os.Getenv("MAX_ORDER_VALUE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.MaxOrderValue = decimal.NewFromFloat(parsed)
		}
	}
	if secs := parseIntEnv("REQUEST_TIMEOUT", 0); secs > 0 {
		c.RequestTimeout = time.Duration(secs) * time.Second
	}
	c.Listen = getEnv("GOPACA_LISTEN", c.Listen)
	c.LogLevel = getEnv("GOPACA_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("GOPACA_LOG_FILE", c.LogFile)
}

// Validate rejects configs the server cannot start with.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("upstream base URL is required")
	}
	if c.APIKey == "" || c.APISecret == "" {
		return errors.New("API key pair is required (ALPACA_API_KEY / ALPACA_SECRET_KEY)")
	}
	if !c.MaxOrderValue.IsPositive() {
		return errors.New("max order value must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

// normalizeSymbols uppercases entries and drops blanks, so the allow-list
// comparison is always against canonical tickers.
func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
