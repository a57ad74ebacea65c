// Package usage records anonymous usage events for instrumented SDK calls.
// Reporting is sampled, runs on background workers, and never changes the
// result of the call being observed.
package usage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/logicalclocks/hopsworks-usage/pkg/httpclient"
	"github.com/logicalclocks/hopsworks-usage/pkg/paths"
)

const tracerName = "github.com/logicalclocks/hopsworks-usage/pkg/usage"

// ErrNoClient is returned by operations that need identity facts when they
// are called on a nil Client.
var ErrNoClient = errors.New("usage: no client")

// Client is the process-scoped usage context: the enable gate, identity,
// call counters, sampler and background dispatcher. A nil *Client behaves
// as a permanently disabled one.
type Client struct {
	logger     *usageLogger
	gate       *Gate
	identity   *Identity
	counter    *CallCounter
	sampler    *Sampler
	dispatcher *Dispatcher
	httpClient HTTPClient
	endpoint   string
	timeout    time.Duration
	now        func() time.Time
	tracer     trace.Tracer
}

type options struct {
	config     Config
	logger     *slog.Logger
	httpClient HTTPClient
	queueSize  int
	rnd        RandSource
	configDir  string
	targets    []string
	now        func() time.Time
	tracer     trace.Tracer
}

type Option func(*options)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.config.Enabled = enabled
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.config.Endpoint = endpoint
	}
}

// WithWorkers sets the number of dispatcher workers. Values below 1 are a
// configuration error and leave the client disabled.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.config.Executors = n
	}
}

func WithQueueSize(n int) Option {
	return func(o *options) {
		o.queueSize = n
	}
}

// WithTimeout bounds each outbound POST.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config.Timeout = d
	}
}

// WithRandSource replaces the seeded sampling source.
func WithRandSource(src RandSource) Option {
	return func(o *options) {
		o.rnd = src
	}
}

// WithConfigDir sets where the anonymous user id is persisted.
func WithConfigDir(dir string) Option {
	return func(o *options) {
		o.configDir = dir
	}
}

// WithTargetHostnames replaces the hostnames accepted by Init.
func WithTargetHostnames(hostnames ...string) Option {
	return func(o *options) {
		o.targets = hostnames
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// New creates a Client. The dispatcher workers start immediately even if
// the client is disabled, so that Enable works later.
func New(opts ...Option) *Client {
	o := options{
		config:    DefaultConfig(),
		queueSize: DefaultQueueSize,
		targets:   DefaultTargetHostnames,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := newUsageLogger(o.logger)

	enabled := o.config.Enabled
	if o.config.Executors < 1 {
		logger.Debug("Invalid executor count, disabling", "executors", o.config.Executors)
		enabled = false
	}
	if o.configDir == "" {
		o.configDir = paths.GetConfigDir()
	}
	if o.config.Timeout <= 0 {
		o.config.Timeout = DefaultTimeout
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.NewHTTPClient(httpclient.WithTimeout(o.config.Timeout))
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	client := &Client{
		logger:     logger,
		gate:       NewGate(enabled, o.targets),
		identity:   newIdentity(o.configDir),
		counter:    NewCallCounter(),
		sampler:    NewSampler(o.rnd),
		dispatcher: NewDispatcher(logger, o.config.Executors, o.queueSize),
		httpClient: o.httpClient,
		endpoint:   o.config.Endpoint,
		timeout:    o.config.Timeout,
		now:        o.now,
		tracer:     o.tracer,
	}

	logger.Debug("Client created", "enabled", enabled, "executors", o.config.Executors, "endpoint", o.config.Endpoint)
	return client
}

// Enabled reports whether the gate is currently open.
func (c *Client) Enabled() bool {
	return c != nil && c.gate.Enabled()
}

func (c *Client) Enable() {
	if c != nil {
		c.gate.Enable()
	}
}

func (c *Client) Disable() {
	if c != nil {
		c.gate.Disable()
	}
}

// Init records the backend hostname and version. Collection stays enabled
// only for target deployments.
func (c *Client) Init(hostname, backendVersion string) {
	if c == nil {
		return
	}
	c.gate.Init(hostname, backendVersion)
	c.logger.Debug("Initialized", "enabled", c.gate.Enabled(), "backend_version", backendVersion)
}

// Identity exposes the lazily resolved identity facts. It is nil for a nil
// Client.
func (c *Client) Identity() *Identity {
	if c == nil {
		return nil
	}
	return c.identity
}

// Env returns the identity facts as a JSON object.
func (c *Client) Env() (string, error) {
	if c == nil {
		return "", ErrNoClient
	}
	_, backendVersion := c.gate.Backend()
	return c.identity.json(backendVersion, c.now())
}

// Count returns how many times site has completed through a wrapper.
func (c *Client) Count(site Site) int64 {
	if c == nil {
		return 0
	}
	return c.counter.Count(site)
}

// Dropped returns how many reports were discarded because the dispatch
// queue was full.
func (c *Client) Dropped() int64 {
	if c == nil {
		return 0
	}
	return c.dispatcher.Dropped()
}

// Flush waits for all queued reports to be delivered or abandoned.
func (c *Client) Flush(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.dispatcher.Flush(ctx)
}

// Close stops the dispatcher after draining queued reports. Reports
// submitted afterwards are discarded.
func (c *Client) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.dispatcher.Close(ctx)
}
