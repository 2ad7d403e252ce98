package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Market struct {
		Symbol           string        `yaml:"symbol"`
		Source           string        `yaml:"source"` // "live" or "synthetic"
		CacheTTL         time.Duration `yaml:"cache_ttl"`
		SyntheticDays    int           `yaml:"synthetic_days"`
		SyntheticOpen    float64       `yaml:"synthetic_open"`
		PredictionWindow int           `yaml:"prediction_window"`
	} `yaml:"market"`
	AlphaVantage struct {
		APIKey       string        `yaml:"api_key"`
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout"`
		RateCapacity float64       `yaml:"rate_capacity"`
		RateRefill   float64       `yaml:"rate_refill_per_sec"`
	} `yaml:"alphavantage"`
	Cache struct {
		Backend string `yaml:"backend"` // "memory" or "redis"
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Events struct {
		Enabled bool     `yaml:"enabled"`
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"events"`
	Live struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"live"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		c.Market.Symbol = v
	}
	if v := os.Getenv("MARKET_SOURCE"); v != "" {
		c.Market.Source = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Events.Topic = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Market.Symbol == "" {
		c.Market.Symbol = "RELIANCE.NS"
	}
	if c.Market.Source == "" {
		c.Market.Source = "synthetic"
	}
	if c.Market.CacheTTL == 0 {
		c.Market.CacheTTL = 15 * time.Minute
	}
	if c.Market.SyntheticDays == 0 {
		c.Market.SyntheticDays = 365
	}
	if c.Market.SyntheticOpen == 0 {
		c.Market.SyntheticOpen = 2500
	}
	if c.Market.PredictionWindow == 0 {
		c.Market.PredictionWindow = 10
	}
	if c.AlphaVantage.BaseURL == "" {
		c.AlphaVantage.BaseURL = "https://www.alphavantage.co/query"
	}
	if c.AlphaVantage.Timeout == 0 {
		c.AlphaVantage.Timeout = 30 * time.Second
	}
	if c.AlphaVantage.RateCapacity == 0 {
		c.AlphaVantage.RateCapacity = 5
	}
	if c.AlphaVantage.RateRefill == 0 {
		c.AlphaVantage.RateRefill = 5.0 / 60.0
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "stockpulse"
	}
	if c.Live.Interval == 0 {
		c.Live.Interval = 30 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Market.Source != "live" && c.Market.Source != "synthetic" {
		return fmt.Errorf("market.source must be 'live' or 'synthetic', got '%s'", c.Market.Source)
	}
	if c.Market.Source == "live" && c.AlphaVantage.APIKey == "" {
		return fmt.Errorf("alphavantage.api_key is required for live source")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	return nil
}
