// Package config loads the initiation configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/initiation/internal/admin"
	"github.com/abhisek/initiation/internal/host"
	"github.com/abhisek/initiation/internal/store"
)

// Config holds all settings.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Host    HostConfig    `yaml:"host"`
	Admin   AdminConfig   `yaml:"admin"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects where progress is kept.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"required,oneof=file sqlite"`

	// Path overrides the default location for the backend.
	Path string `yaml:"path,omitempty"`
}

// HostConfig holds the host PIN, as a SHA-256 hex digest only.
type HostConfig struct {
	PINSHA256 string `yaml:"pin_sha256" validate:"required,len=64,hexadecimal"`
}

// AdminConfig configures the admin console.
type AdminConfig struct {
	GrantTTL string `yaml:"grant_ttl"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`

	// File receives TUI logs. Empty means next to the store.
	File string `yaml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: string(store.BackendFile),
		},
		Host: HostConfig{
			PINSHA256: host.DefaultPINDigest,
		},
		Admin: AdminConfig{
			GrantTTL: admin.DefaultGrantTTL.String(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the config file location:
// $XDG_CONFIG_HOME/initiation/config.yaml, or ~/.config/initiation/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "initiation", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("INITIATION_STORE"); path != "" {
		c.Store.Path = path
	}
	if backend := os.Getenv("INITIATION_BACKEND"); backend != "" {
		c.Store.Backend = backend
	}
	if digest := os.Getenv("INITIATION_PIN_SHA256"); digest != "" {
		c.Host.PINSHA256 = digest
	}
}

// GetGrantTTL returns the admin grant lifetime.
func (c *Config) GetGrantTTL() time.Duration {
	d, err := time.ParseDuration(c.Admin.GrantTTL)
	if err != nil || d <= 0 {
		return admin.DefaultGrantTTL
	}
	return d
}

// UsesDefaultPIN reports whether the stock PIN digest is configured.
func (c *Config) UsesDefaultPIN() bool {
	return strings.EqualFold(strings.TrimSpace(c.Host.PINSHA256), host.DefaultPINDigest)
}

var validate = validator.New()

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %q)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
