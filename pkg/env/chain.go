package env

import "context"

// First consults providers in order and returns the first non-empty value.
// An error from any provider consulted stops the lookup.
func First(providers ...Provider) Provider {
	return ProviderFunc(func(ctx context.Context, name string) (string, error) {
		for _, p := range providers {
			value, err := p.GetEnv(ctx, name)
			if err != nil {
				return "", err
			}
			if value != "" {
				return value, nil
			}
		}
		return "", nil
	})
}

// Optional reports lookup errors of p as "not set". It is meant for sources
// that may legitimately be missing or broken, like a hand-edited file.
func Optional(p Provider) Provider {
	return ProviderFunc(func(ctx context.Context, name string) (string, error) {
		value, err := p.GetEnv(ctx, name)
		if err != nil {
			return "", nil
		}
		return value, nil
	})
}
