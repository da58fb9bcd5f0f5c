// Package config loads run settings from an optional YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the batch commands.
type Config struct {
	// Workers bounds the documents processed in parallel. 0 means one per CPU.
	Workers int `yaml:"workers"`

	// Multiple emits every distinct decomposition instead of the first.
	Multiple bool `yaml:"multiple"`

	// KeepInvalid emits an empty document in place of each malformed input.
	KeepInvalid bool `yaml:"keep_invalid"`

	// KeepClearedRows leaves completed rows in assembled fields.
	KeepClearedRows bool `yaml:"keep_cleared_rows"`

	// Timeout bounds the search on each page. 0 disables it.
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Workers:         0,
		Multiple:        false,
		KeepInvalid:     true,
		KeepClearedRows: false,
		Timeout:         30 * time.Second,
		LogLevel:        "info",
	}
}

// Load starts from Default, applies the file at path if path is not
// empty, then applies SETUPDB_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadFromEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("SETUPDB_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SETUPDB_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("SETUPDB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SETUPDB_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("SETUPDB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate reports the first setting out of range.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level converts LogLevel for slog.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
