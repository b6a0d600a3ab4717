package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/panyam/letterfreq"
	"gopkg.in/yaml.v3"
)

// Config defines configuration for the letterfreq CLI.
type Config struct {
	Template     string        `yaml:"template"`
	First        int           `yaml:"first"`
	Last         int           `yaml:"last"`
	Strategy     string        `yaml:"strategy"`
	Workers      int           `yaml:"workers"`
	PollInterval time.Duration `yaml:"poll_interval"`
	HTTP         HTTPConfig    `yaml:"http"`
	LogLevel     string        `yaml:"log_level"`
}

// HTTPConfig configures document fetching over HTTP.
type HTTPConfig struct {
	Timeout             time.Duration `yaml:"timeout"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
}

// Default returns a Config matching the classic 50-RFC run.
func Default() Config {
	httpOpts := letterfreq.DefaultHTTPOptions()
	return Config{
		Template:     letterfreq.DefaultTemplate,
		First:        letterfreq.DefaultFirst,
		Last:         letterfreq.DefaultLast,
		Strategy:     string(letterfreq.Atomic),
		Workers:      runtime.NumCPU(),
		PollInterval: letterfreq.DefaultPollInterval,
		HTTP: HTTPConfig{
			Timeout:             httpOpts.Timeout,
			MaxIdleConnsPerHost: httpOpts.MaxIdleConnsPerHost,
		},
		LogLevel: "info",
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
// Pointers distinguish "unset" from zero for the integer bounds.
type yamlConfig struct {
	Template     string         `yaml:"template"`
	First        *int           `yaml:"first"`
	Last         *int           `yaml:"last"`
	Strategy     string         `yaml:"strategy"`
	Workers      int            `yaml:"workers"`
	PollInterval string         `yaml:"poll_interval"`
	HTTP         yamlHTTPConfig `yaml:"http"`
	LogLevel     string         `yaml:"log_level"`
}

type yamlHTTPConfig struct {
	Timeout             string `yaml:"timeout"`
	MaxIdleConnsPerHost int    `yaml:"max_idle_conns_per_host"`
}

// LoadFromFile loads configuration from a YAML file on top of Default().
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()
	if yc.Template != "" {
		cfg.Template = yc.Template
	}
	if yc.First != nil {
		cfg.First = *yc.First
	}
	if yc.Last != nil {
		cfg.Last = *yc.Last
	}
	if yc.Strategy != "" {
		cfg.Strategy = yc.Strategy
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.PollInterval != "" {
		d, err := time.ParseDuration(yc.PollInterval)
		if err != nil {
			return Config{}, fmt.Errorf("parse poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if yc.HTTP.Timeout != "" {
		d, err := time.ParseDuration(yc.HTTP.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse http.timeout: %w", err)
		}
		cfg.HTTP.Timeout = d
	}
	if yc.HTTP.MaxIdleConnsPerHost != 0 {
		cfg.HTTP.MaxIdleConnsPerHost = yc.HTTP.MaxIdleConnsPerHost
	}
	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the LETTERFREQ_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("LETTERFREQ_TEMPLATE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("LETTERFREQ_FIRST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse LETTERFREQ_FIRST: %w", err)
		}
		c.First = n
	}
	if v := os.Getenv("LETTERFREQ_LAST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse LETTERFREQ_LAST: %w", err)
		}
		c.Last = n
	}
	if v := os.Getenv("LETTERFREQ_STRATEGY"); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv("LETTERFREQ_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse LETTERFREQ_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("LETTERFREQ_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse LETTERFREQ_POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}
	if v := os.Getenv("LETTERFREQ_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse LETTERFREQ_HTTP_TIMEOUT: %w", err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv("LETTERFREQ_HTTP_MAX_IDLE_CONNS_PER_HOST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse LETTERFREQ_HTTP_MAX_IDLE_CONNS_PER_HOST: %w", err)
		}
		c.HTTP.MaxIdleConnsPerHost = n
	}
	if v := os.Getenv("LETTERFREQ_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Template == "" {
		return errors.New("config: template is required")
	}
	if c.First > c.Last {
		return errors.New("config: first must not be greater than last")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("config: poll_interval must be positive")
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("config: http.timeout must be positive")
	}
	if c.HTTP.MaxIdleConnsPerHost < 0 {
		return errors.New("config: http.max_idle_conns_per_host must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored. First and Last are taken together
// whenever either is set, so an override range starting at 0 is kept.
func (c Config) Merge(override Config) Config {
	if override.Template != "" {
		c.Template = override.Template
	}
	if override.First != 0 || override.Last != 0 {
		c.First, c.Last = override.First, override.Last
	}
	if override.Strategy != "" {
		c.Strategy = override.Strategy
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.PollInterval != 0 {
		c.PollInterval = override.PollInterval
	}
	if override.HTTP.Timeout != 0 {
		c.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.MaxIdleConnsPerHost != 0 {
		c.HTTP.MaxIdleConnsPerHost = override.HTTP.MaxIdleConnsPerHost
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
	return c
}
