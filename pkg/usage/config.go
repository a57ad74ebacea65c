package usage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/logicalclocks/hopsworks-usage/pkg/env"
	"github.com/logicalclocks/hopsworks-usage/pkg/userconfig"
)

// Environment variables read by LoadConfig.
const (
	EnvEnabled   = "ENABLE_HOPSWORKS_USAGE"
	EnvExecutors = "NUM_HOPSWORKS_USAGE_EXECUTORS"
	EnvEndpoint  = "HOPSWORKS_USAGE_ENDPOINT"
	EnvTimeout   = "HOPSWORKS_USAGE_TIMEOUT"
)

const (
	DefaultEndpoint  = "https://usage.hops.works/"
	DefaultExecutors = 2
	DefaultQueueSize = 1024
	DefaultTimeout   = 10 * time.Second
)

// Config holds the resolved settings of a Client.
type Config struct {
	Enabled   bool
	Executors int
	Endpoint  string
	Timeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Executors: DefaultExecutors,
		Endpoint:  DefaultEndpoint,
		Timeout:   DefaultTimeout,
	}
}

// LoadConfig resolves the configuration from p. Collection is enabled
// unless EnvEnabled is explicitly "false". An invalid executor count or
// timeout is returned as an error together with a disabled Config, so that
// callers can degrade instead of failing.
func LoadConfig(ctx context.Context, p env.Provider) (Config, error) {
	cfg := DefaultConfig()

	enabled, err := p.GetEnv(ctx, EnvEnabled)
	if err != nil {
		return disabled(cfg), fmt.Errorf("reading %s: %w", EnvEnabled, err)
	}
	if strings.EqualFold(strings.TrimSpace(enabled), "false") {
		cfg.Enabled = false
	}

	if raw, err := p.GetEnv(ctx, EnvExecutors); err != nil {
		return disabled(cfg), fmt.Errorf("reading %s: %w", EnvExecutors, err)
	} else if raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 {
			return disabled(cfg), fmt.Errorf("invalid %s %q: must be a positive integer", EnvExecutors, raw)
		}
		cfg.Executors = n
	}

	if endpoint, err := p.GetEnv(ctx, EnvEndpoint); err != nil {
		return disabled(cfg), fmt.Errorf("reading %s: %w", EnvEndpoint, err)
	} else if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	if raw, err := p.GetEnv(ctx, EnvTimeout); err != nil {
		return disabled(cfg), fmt.Errorf("reading %s: %w", EnvTimeout, err)
	} else if raw != "" {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil || d <= 0 {
			return disabled(cfg), fmt.Errorf("invalid %s %q: must be a positive duration", EnvTimeout, raw)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

func disabled(cfg Config) Config {
	cfg.Enabled = false
	return cfg
}

// DefaultProvider resolves settings from the environment first and then
// from the user config file at configPath. Errors reading the file are
// treated as "not set".
func DefaultProvider(configPath string) env.Provider {
	return env.First(
		env.Environ(),
		env.Optional(newFileProvider(configPath)),
	)
}

// fileProvider exposes the user config file under the environment variable names.
type fileProvider struct {
	load func() (map[string]string, error)
}

func newFileProvider(path string) *fileProvider {
	return &fileProvider{
		load: sync.OnceValues(func() (map[string]string, error) {
			cfg, err := userconfig.LoadFrom(path)
			if err != nil {
				return nil, err
			}
			return fileValues(cfg.GetUsage()), nil
		}),
	}
}

func (p *fileProvider) GetEnv(_ context.Context, name string) (string, error) {
	values, err := p.load()
	if err != nil {
		return "", err
	}
	return values[name], nil
}

func fileValues(u userconfig.Usage) map[string]string {
	values := map[string]string{
		EnvEndpoint: u.Endpoint,
		EnvTimeout:  u.Timeout,
	}
	if u.Enabled != nil {
		values[EnvEnabled] = strconv.FormatBool(*u.Enabled)
	}
	if u.Executors > 0 {
		values[EnvExecutors] = strconv.Itoa(u.Executors)
	}
	return values
}
