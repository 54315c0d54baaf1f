// Package config loads the YAML configuration of the server and gateway
// binaries. Missing fields fall back to defaults; invalid configurations
// fail fast at startup.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rvg-labs/stock-trading/pkg/errors"
)

// Duration wraps time.Duration so YAML values can be written as "1s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid duration %q", raw)
	}

	*d = Duration(parsed)

	return nil
}

// StoreConfig selects and configures the quote store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"required,oneof=memory duckdb"`
	// Path is the DuckDB database file. Empty means in-memory; ignored
	// by the memory backend.
	Path string `yaml:"path"`
}

// FeedConfig tunes the quote subscription feed.
type FeedConfig struct {
	Updates  int      `yaml:"updates" validate:"gte=0"`
	Interval Duration `yaml:"interval"`
}

// ServerConfig configures the server binary.
type ServerConfig struct {
	Listen string      `yaml:"listen" validate:"required"`
	Store  StoreConfig `yaml:"store"`
	Feed   FeedConfig  `yaml:"feed"`
}

// GatewayConfig configures the gateway binary.
type GatewayConfig struct {
	Listen   string `yaml:"listen" validate:"required"`
	Upstream string `yaml:"upstream" validate:"required,url"`
}

// DefaultServerConfig returns the server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Listen: ":8080",
		Store: StoreConfig{
			Backend: "memory",
			Path:    "",
		},
		Feed: FeedConfig{
			Updates:  0, // service default
			Interval: 0, // service default
		},
	}
}

// DefaultGatewayConfig returns the gateway defaults.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Listen:   ":8081",
		Upstream: "http://localhost:8080",
	}
}

// LoadServerConfig reads and validates a server configuration file. An
// empty path returns the defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := loadInto(path, &cfg); err != nil {
		return ServerConfig{}, err
	}

	if err := validate(&cfg); err != nil {
		return ServerConfig{}, err
	}

	return cfg, nil
}

// LoadGatewayConfig reads and validates a gateway configuration file. An
// empty path returns the defaults.
func LoadGatewayConfig(path string) (GatewayConfig, error) {
	cfg := DefaultGatewayConfig()
	if err := loadInto(path, &cfg); err != nil {
		return GatewayConfig{}, err
	}

	if err := validate(&cfg); err != nil {
		return GatewayConfig{}, err
	}

	return cfg, nil
}

func loadInto(path string, cfg any) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	return nil
}

func validate(cfg any) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}
