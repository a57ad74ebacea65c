package usage

import (
	"context"
	"time"
)

// WrapOption customizes a single wrapped function.
type WrapOption func(*callSite)

// AsSite overrides the Site derived from the function symbol.
func AsSite(module, name string) WrapOption {
	return func(cs *callSite) {
		cs.Site = Site{Module: module, Name: name}
	}
}

type callSite struct {
	Site
	origin string
}

func newCallSite(fn any, opts []WrapOption) callSite {
	cs := callSite{Site: SiteOf(fn)}
	for _, opt := range opts {
		opt(&cs)
	}
	cs.origin = originOf(fn, cs.Site)
	return cs
}

// wrapping reads the gate once, at wrap time. A function wrapped while the
// gate is closed is returned unchanged and is never instrumented.
func (c *Client) wrapping() bool {
	return c.Enabled()
}

// Wrap instruments fn. Return values and errors pass through unchanged,
// and a panic is re-raised with the same value.
func Wrap[R any](c *Client, fn func() (R, error), opts ...WrapOption) func() (R, error) {
	if !c.wrapping() {
		return fn
	}
	cs := newCallSite(fn, opts)
	return func() (R, error) {
		return invoke(c, cs, fn)
	}
}

func Wrap1[A, R any](c *Client, fn func(A) (R, error), opts ...WrapOption) func(A) (R, error) {
	if !c.wrapping() {
		return fn
	}
	cs := newCallSite(fn, opts)
	return func(a A) (R, error) {
		return invoke(c, cs, func() (R, error) { return fn(a) })
	}
}

func Wrap2[A, B, R any](c *Client, fn func(A, B) (R, error), opts ...WrapOption) func(A, B) (R, error) {
	if !c.wrapping() {
		return fn
	}
	cs := newCallSite(fn, opts)
	return func(a A, b B) (R, error) {
		return invoke(c, cs, func() (R, error) { return fn(a, b) })
	}
}

func WrapCtx[A, R any](c *Client, fn func(context.Context, A) (R, error), opts ...WrapOption) func(context.Context, A) (R, error) {
	if !c.wrapping() {
		return fn
	}
	cs := newCallSite(fn, opts)
	return func(ctx context.Context, a A) (R, error) {
		return invoke(c, cs, func() (R, error) { return fn(ctx, a) })
	}
}

func WrapErr(c *Client, fn func() error, opts ...WrapOption) func() error {
	if !c.wrapping() {
		return fn
	}
	cs := newCallSite(fn, opts)
	return func() error {
		_, err := invoke(c, cs, func() (struct{}, error) { return struct{}{}, fn() })
		return err
	}
}

func invoke[R any](c *Client, cs callSite, fn func() (R, error)) (result R, err error) {
	if !c.gate.Enabled() {
		return fn()
	}

	start := time.Now()
	panicking := true
	defer func() {
		if !panicking {
			c.finish(cs, time.Since(start), err, nil, "")
			return
		}

		r := recover()
		if r == nil {
			// runtime.Goexit: nothing to report, let it continue.
			return
		}
		c.finish(cs, time.Since(start), nil, r, panicStack())
		panic(r)
	}()

	result, err = fn()
	panicking = false
	return result, err
}

// finish counts the call and, when it failed or is sampled, queues a
// report. It never panics and never blocks on delivery.
func (c *Client) finish(cs callSite, elapsed time.Duration, err error, recovered any, stack string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("Dropping usage report", "site", cs.String(), "panic", r)
		}
	}()

	count := c.counter.Record(cs.Site)
	failed := err != nil || recovered != nil
	if !failed && !c.sampler.ShouldSample(count-1) {
		return
	}

	r := report{
		site:     cs.Site,
		elapsed:  elapsed.Milliseconds(),
		numCall:  count,
		hasError: failed,
	}
	switch {
	case recovered != nil:
		r.errMsg = panicMessage(recovered)
		r.stack = stack
	case err != nil:
		r.errMsg = err.Error()
		r.stack = cs.origin
	}

	if err := c.dispatcher.Submit(func(ctx context.Context) { c.deliver(ctx, r) }); err != nil {
		c.logger.Debug("Usage report not queued", "site", cs.String(), "error", err)
	}
}
