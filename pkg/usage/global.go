package usage

import (
	"context"
	"flag"
	"log/slog"
	"sync"

	"github.com/logicalclocks/hopsworks-usage/pkg/userconfig"
)

var (
	defaultMu     sync.RWMutex
	defaultClient *Client
	defaultOnce   sync.Once
)

// Default returns the process-wide client, creating it on first use from
// the environment and the user config file. Under "go test" it starts
// disabled so that tests never reach the real endpoint.
func Default() *Client {
	defaultOnce.Do(func() {
		logger := slog.Default()

		cfg, err := LoadConfig(context.Background(), DefaultProvider(userconfig.Path()))
		if err != nil {
			newUsageLogger(logger).Debug("Invalid configuration, usage collection disabled", "error", err)
		}
		if flag.Lookup("test.v") != nil {
			cfg.Enabled = false
		}

		client := New(WithConfig(cfg), WithLogger(logger))

		defaultMu.Lock()
		if defaultClient == nil {
			defaultClient = client
		}
		defaultMu.Unlock()
	})

	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClient
}

// SetDefault replaces the process-wide client.
func SetDefault(c *Client) {
	defaultOnce.Do(func() {})

	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}

// Enable opens the process-wide gate.
func Enable() {
	Default().Enable()
}

// Disable closes the process-wide gate.
func Disable() {
	Default().Disable()
}

// Init records the backend of the process-wide client.
func Init(hostname, backendVersion string) {
	Default().Init(hostname, backendVersion)
}

// GetEnv returns the identity facts of the process-wide client as JSON.
func GetEnv() (string, error) {
	return Default().Env()
}
