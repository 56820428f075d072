package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultEndpoint       = "http://localhost:5000/api/generate"
	DefaultMaxTokens      = 150
	DefaultTag            = "agi-console"
	DefaultRequestTimeout = 60 * time.Second
	DefaultWebPort        = "8080"
	DefaultLogLevel       = "INFO"
	DefaultMaxLogs        = 500
)

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for agi-console.
type Config struct {
	// Assistant endpoint settings. MaxTokens and Tag are sent unchanged
	// with every prompt.
	Endpoint       string        `yaml:"endpoint"`
	MaxTokens      int           `yaml:"max_tokens"`
	Tag            string        `yaml:"tag"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Web UI
	WebPort string `yaml:"web_port"`

	// Logging
	LogLevel string `yaml:"log_level"` // DEBUG, INFO, WARN, ERROR
	MaxLogs  int    `yaml:"max_logs"`  // Size of the in-memory diagnostics ring
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Endpoint:       DefaultEndpoint,
		MaxTokens:      DefaultMaxTokens,
		Tag:            DefaultTag,
		RequestTimeout: DefaultRequestTimeout,
		WebPort:        DefaultWebPort,
		LogLevel:       DefaultLogLevel,
		MaxLogs:        DefaultMaxLogs,
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (or CONFIG_FILE when path is empty) and environment variables, in
// that order, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the non-zero values found in a YAML file.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if loaded.Endpoint != "" {
		c.Endpoint = loaded.Endpoint
	}
	if loaded.MaxTokens != 0 {
		c.MaxTokens = loaded.MaxTokens
	}
	if loaded.Tag != "" {
		c.Tag = loaded.Tag
	}
	if loaded.RequestTimeout != 0 {
		c.RequestTimeout = loaded.RequestTimeout
	}
	if loaded.WebPort != "" {
		c.WebPort = loaded.WebPort
	}
	if loaded.LogLevel != "" {
		c.LogLevel = loaded.LogLevel
	}
	if loaded.MaxLogs != 0 {
		c.MaxLogs = loaded.MaxLogs
	}
	return nil
}

// mergeEnv overlays values from environment variables.
func (c *Config) mergeEnv() error {
	c.Endpoint = getEnv("ASSISTANT_ENDPOINT", c.Endpoint)
	c.Tag = getEnv("ASSISTANT_TAG", c.Tag)
	c.WebPort = getEnv("WEB_PORT", c.WebPort)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("ASSISTANT_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ASSISTANT_MAX_TOKENS must be an integer, got %q", ErrInvalidConfig, v)
		}
		c.MaxTokens = n
	}
	if v := os.Getenv("ASSISTANT_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: ASSISTANT_TIMEOUT: %v", ErrInvalidConfig, err)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv("MAX_LOGS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: MAX_LOGS must be an integer, got %q", ErrInvalidConfig, v)
		}
		c.MaxLogs = n
	}
	return nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: endpoint must be an http(s) URL, got %q", ErrInvalidConfig, c.Endpoint)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive, got %d", ErrInvalidConfig, c.MaxTokens)
	}
	if strings.TrimSpace(c.Tag) == "" {
		return fmt.Errorf("%w: tag must not be empty", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive, got %s", ErrInvalidConfig, c.RequestTimeout)
	}
	if port, err := strconv.Atoi(c.WebPort); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: web_port must be a TCP port, got %q", ErrInvalidConfig, c.WebPort)
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("%w: log_level must be DEBUG, INFO, WARN or ERROR, got %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.MaxLogs <= 0 {
		return fmt.Errorf("%w: max_logs must be positive, got %d", ErrInvalidConfig, c.MaxLogs)
	}
	return nil
}

// parseDuration accepts Go duration syntax or a plain number of seconds.
func parseDuration(v string) (time.Duration, error) {
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
