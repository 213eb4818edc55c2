package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/steelshape/steelshape/pkg/stores"
	"github.com/steelshape/steelshape/pkg/telemetry"
)

var validate = validator.New()

// Config is the runtime configuration of shapectl and of embedders that
// construct a coordinator from a file.
type Config struct {
	// Store selects the profile store.
	Store StoreConfig `yaml:"store"`

	// Actor is recorded in audit entries of every commit.
	Actor string `yaml:"actor" validate:"required"`

	// Batch tunes parallel validation.
	Batch BatchConfig `yaml:"batch"`

	// Telemetry configures logging, tracing, metrics, and events.
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// StoreConfig selects the database backing the store.
type StoreConfig struct {
	// Path is the SQLite database file, or ":memory:".
	Path string `yaml:"path" validate:"required"`

	// MaxOpenConns caps open connections. Zero uses the store default.
	MaxOpenConns int `yaml:"max_open_conns" validate:"gte=0"`

	// MaxIdleConns caps idle connections. Zero uses the store default.
	MaxIdleConns int `yaml:"max_idle_conns" validate:"gte=0"`
}

// BatchConfig tunes batch validation.
type BatchConfig struct {
	// Concurrency bounds the validation workers. Zero means unbounded.
	Concurrency int `yaml:"concurrency" validate:"gte=0"`
}

// DefaultConfig returns a configuration with an in-memory store.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: stores.MemoryPath,
		},
		Actor: "shapectl",
		Batch: BatchConfig{
			Concurrency: 8,
		},
		Telemetry: *telemetry.DefaultConfig(),
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration and validates it. The telemetry
// section starts from the preset named by telemetry.environment; keys set
// in the file override the preset.
func ParseConfig(data []byte) (*Config, error) {
	var head struct {
		Telemetry struct {
			Environment string `yaml:"environment"`
		} `yaml:"telemetry"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	preset, err := telemetry.ConfigForEnvironment(head.Telemetry.Environment)
	if err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Telemetry = *preset
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("invalid telemetry config: %w", err)
	}
	return nil
}

// StoreOptions converts the store section to a SQLite store config.
func (c *Config) StoreOptions() stores.Config {
	return stores.Config{
		Path:         c.Store.Path,
		MaxOpenConns: c.Store.MaxOpenConns,
		MaxIdleConns: c.Store.MaxIdleConns,
	}
}
