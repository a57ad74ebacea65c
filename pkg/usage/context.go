package usage

import (
	"context"
	"time"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const clientContextKey contextKey = "usage_client"

// WithClient adds a usage client to the context
func WithClient(ctx context.Context, client *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, client)
}

// FromContext retrieves the usage client from context, or nil.
func FromContext(ctx context.Context) *Client {
	if client, ok := ctx.Value(clientContextKey).(*Client); ok {
		return client
	}
	return nil
}

// Do runs fn as a call of site using the client carried by ctx. Without a
// client, fn runs uninstrumented.
func Do(ctx context.Context, site Site, fn func(context.Context) error) error {
	c := FromContext(ctx)
	if !c.Enabled() {
		return fn(ctx)
	}

	cs := callSite{Site: site, origin: originOf(fn, site)}
	_, err := invoke(c, cs, func() (struct{}, error) { return struct{}{}, fn(ctx) })
	return err
}

// Observe reports a call that was timed by the caller rather than wrapped.
// It follows the same counting and sampling rules as wrapped calls.
func (c *Client) Observe(site Site, elapsed time.Duration, err error) {
	if !c.Enabled() {
		return
	}
	c.finish(callSite{Site: site}, elapsed, err, nil, "")
}
