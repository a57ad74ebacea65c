// Package env resolves named settings from the process environment and
// from fallback sources such as the user config file.
package env

import "context"

type Provider interface {
	// GetEnv returns the value for name, or "" when the provider has none.
	GetEnv(ctx context.Context, name string) (string, error)
}

// ProviderFunc adapts a lookup function to a Provider.
type ProviderFunc func(ctx context.Context, name string) (string, error)

func (f ProviderFunc) GetEnv(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}
