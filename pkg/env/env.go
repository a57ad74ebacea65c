package env

import (
	"context"
	"os"
	"strings"
)

// Environ reads the process environment. Surrounding whitespace is
// trimmed, so a variable set to blanks counts as unset.
func Environ() Provider {
	return ProviderFunc(func(_ context.Context, name string) (string, error) {
		return strings.TrimSpace(os.Getenv(name)), nil
	})
}

// Map serves values from a fixed map. It backs settings read from files
// and lets tests pin an environment without touching the process.
func Map(values map[string]string) Provider {
	return ProviderFunc(func(_ context.Context, name string) (string, error) {
		return values[name], nil
	})
}
