package usage

import (
	"slices"
	"sync"
)

// DefaultTargetHostnames lists the deployments for which usage is collected.
var DefaultTargetHostnames = []string{"c.app.hopsworks.ai"}

// Gate is the process-wide on/off switch. It also remembers the backend
// identity passed to Init.
type Gate struct {
	mu             sync.RWMutex
	enabled        bool
	targets        []string
	hostname       string
	backendVersion string
}

func NewGate(enabled bool, targets []string) *Gate {
	return &Gate{
		enabled: enabled,
		targets: slices.Clone(targets),
	}
}

func (g *Gate) Enabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.enabled
}

func (g *Gate) Enable() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.enabled = true
}

func (g *Gate) Disable() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.enabled = false
}

// Init stores the backend identity and keeps the gate open only if it was
// already open and hostname is one of the target deployments.
func (g *Gate) Init(hostname, backendVersion string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.hostname = hostname
	g.backendVersion = backendVersion
	g.enabled = g.enabled && slices.Contains(g.targets, hostname)
}

// Backend returns the values recorded by Init.
func (g *Gate) Backend() (hostname, backendVersion string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.hostname, g.backendVersion
}
