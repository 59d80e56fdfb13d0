// ABOUTME: Tests for the connectivity monitor.
// ABOUTME: Callbacks fire on state edges only, never on repeated observations.
package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorStartsOffline(t *testing.T) {
	m := NewMonitor()
	assert.False(t, m.Online())
}

func TestMonitorFiresOnEdgesOnly(t *testing.T) {
	m := NewMonitor()

	var transitions []bool
	m.OnChange(func(online bool) { transitions = append(transitions, online) })

	m.SetOnline(true)
	m.SetOnline(true) // repeat observation, no edge
	m.SetOnline(false)
	m.SetOnline(false)
	m.SetOnline(true)

	assert.Equal(t, []bool{true, false, true}, transitions)
}

func TestProbeRecordsHealthResult(t *testing.T) {
	m := NewMonitor()
	ctx := context.Background()

	ok := m.Probe(ctx, func(ctx context.Context) error { return nil })
	assert.True(t, ok)
	assert.True(t, m.Online())

	ok = m.Probe(ctx, func(ctx context.Context) error { return errors.New("connection refused") })
	assert.False(t, ok)
	assert.False(t, m.Online())
}
