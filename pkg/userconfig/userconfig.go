// Package userconfig provides the user-level usage configuration.
// It is stored in ~/.hopsworks/usage.yaml and holds overrides written by the
// hopsworks-usage CLI. Environment variables always take precedence.
package userconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/logicalclocks/hopsworks-usage/pkg/paths"
)

// CurrentVersion is the current version of the user config format
const CurrentVersion = "v1"

// Usage holds the persisted usage collection settings.
type Usage struct {
	// Enabled turns collection on or off. Nil means "use the default".
	Enabled *bool `yaml:"enabled,omitempty"`
	// Executors is the number of background dispatch workers.
	Executors int `yaml:"executors,omitempty"`
	// Endpoint overrides the telemetry endpoint URL.
	Endpoint string `yaml:"endpoint,omitempty"`
	// Timeout bounds each outbound POST, as a Go duration string.
	Timeout string `yaml:"timeout,omitempty"`
}

// Config represents the user-level configuration file.
type Config struct {
	mu sync.Mutex

	Version string `yaml:"version,omitempty"`
	Usage   *Usage `yaml:"usage,omitempty"`
}

// Path returns the path to the config file
func Path() string {
	return filepath.Join(paths.GetConfigDir(), "usage.yaml")
}

// Load loads the user configuration from the config file.
// A missing file yields an empty configuration.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom loads the configuration stored at path.
func LoadFrom(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Usage == nil {
		return nil
	}
	if c.Usage.Executors < 0 {
		return errors.New("usage.executors must not be negative")
	}
	if c.Usage.Timeout != "" {
		if _, err := time.ParseDuration(c.Usage.Timeout); err != nil {
			return fmt.Errorf("usage.timeout: %w", err)
		}
	}
	return nil
}

// Save saves the configuration to the config file
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the configuration atomically to path, creating parent
// directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	c.mu.Lock()
	c.Version = CurrentVersion
	data, err := yaml.Marshal(c)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}

// SetEnabled persists an explicit enable/disable override.
func (c *Config) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Usage == nil {
		c.Usage = &Usage{}
	}
	c.Usage.Enabled = &enabled
}

// ClearEnabled removes the enable/disable override.
func (c *Config) ClearEnabled() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Usage != nil {
		c.Usage.Enabled = nil
	}
}

// GetUsage returns the usage settings, or an empty Usage if not set
func (c *Config) GetUsage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Usage == nil {
		return Usage{}
	}
	return *c.Usage
}
