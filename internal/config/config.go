package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all gateway configuration. It is constructed once at
// startup and passed explicitly; nothing reads it through globals.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port"`
	Host string `envconfig:"HOST" yaml:"host"`
}

// GatewayConfig holds the filesystem gateway configuration.
type GatewayConfig struct {
	// AllowedRoot is the single directory boundary for every operation.
	AllowedRoot string `envconfig:"ALLOWED_ROOT" yaml:"allowed_root"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8123",
			Host: "0.0.0.0",
		},
		Gateway: GatewayConfig{
			AllowedRoot: ".",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Load builds the configuration with precedence env > file > defaults.
// file may be empty.
func Load(file string) (*Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", file, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration the process cannot run without.
// The allowed root must exist and be a directory before startup.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}

	info, err := os.Stat(c.Gateway.AllowedRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("allowed root directory does not exist: %s", c.Gateway.AllowedRoot)
		}
		return fmt.Errorf("allowed root %q: %w", c.Gateway.AllowedRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("allowed root is not a directory: %s", c.Gateway.AllowedRoot)
	}
	return nil
}
