// Package config loads the tool configuration from an optional YAML file
// with environment-variable overrides. CLI flags are applied on top by
// the command layer.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sternrassler/mouser-bulk-lookup/pkg/batch"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/client"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/ratelimit"
)

// Duration wraps time.Duration so YAML values like "2s" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Redis configures the optional response cache. An empty Addr disables
// caching entirely.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Log configures structured logging output.
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the full tool configuration.
type Config struct {
	// APIKey is the Mouser API key (min 20 chars, validated by the client).
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the search endpoint (tests, proxies).
	BaseURL string `yaml:"base_url"`

	// BatchSize bounds identifiers per request.
	BatchSize int `yaml:"batch_size"`

	// PacingInterval is the courtesy delay enforced before each request.
	PacingInterval Duration `yaml:"pacing_interval"`

	// Timeout per HTTP request.
	Timeout Duration `yaml:"timeout"`

	// CacheTTL bounds how long cached responses stay usable.
	CacheTTL Duration `yaml:"cache_ttl"`

	Redis Redis `yaml:"redis"`
	Log   Log   `yaml:"log"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		BaseURL:        client.DefaultBaseURL,
		BatchSize:      batch.DefaultMaxPerGroup,
		PacingInterval: Duration(ratelimit.DefaultInterval),
		Timeout:        Duration(30 * time.Second),
		CacheTTL:       Duration(15 * time.Minute),
		Log:            Log{Level: "info"},
	}
}

// Load reads path (when non-empty) on top of the defaults, then applies
// environment overrides. A missing explicit file is an error; an empty
// path just yields defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overlays MOUSER_* environment variables. A malformed value
// is an error, never a silent fallback to the previous setting.
func (c *Config) applyEnv() error {
	if v := os.Getenv("MOUSER_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("MOUSER_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("MOUSER_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MOUSER_BATCH_SIZE %q: %w", v, err)
		}
		c.BatchSize = n
	}
	if v := os.Getenv("MOUSER_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("MOUSER_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("MOUSER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks field bounds. The API key format itself is validated
// by the client constructor so library users get the same check.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive (got %d)", c.BatchSize)
	}
	if c.BatchSize > batch.DefaultMaxPerGroup {
		return fmt.Errorf("batch_size must not exceed the upstream limit of %d (got %d)",
			batch.DefaultMaxPerGroup, c.BatchSize)
	}
	if c.PacingInterval < 0 {
		return fmt.Errorf("pacing_interval must not be negative")
	}
	if c.Timeout.Std() <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
