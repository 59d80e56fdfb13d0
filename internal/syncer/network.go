// ABOUTME: Network-state observation driving the sync state machine.
// ABOUTME: Fed by connectivity probes or explicit events; fires callbacks on edges only.
package syncer

import (
	"context"
	"sync"
)

// Monitor tracks whether the device is online. It starts offline until the
// first probe or SetOnline call.
type Monitor struct {
	mu       sync.Mutex
	online   bool
	onChange []func(online bool)
}

// NewMonitor creates a Monitor in the offline state.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Online reports the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a connectivity observation. Callbacks fire only on a
// state change, so repeated observations of the same state are cheap.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	callbacks := make([]func(bool), len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(online)
	}
}

// OnChange registers a callback fired on every connectivity edge.
func (m *Monitor) OnChange(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Probe checks connectivity with the given health check and records the
// resulting state.
func (m *Monitor) Probe(ctx context.Context, health func(ctx context.Context) error) bool {
	online := health(ctx) == nil
	m.SetOnline(online)
	return online
}
