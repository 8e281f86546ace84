// Package netwatch tracks whether the server is reachable and notifies
// subscribers when it comes back.
package netwatch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/tracker/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// DefaultProbeTimeout bounds a single health probe.
const DefaultProbeTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor probes the server periodically. It starts offline, so the first
// successful probe counts as coming online.
type Monitor struct {
	pinger       Pinger
	interval     time.Duration
	probeTimeout time.Duration
	log          logging.Logger

	mu       sync.Mutex
	mode     Mode
	handlers map[uint64]func()
	nextID   uint64
}

func NewMonitor(p Pinger, interval time.Duration, log logging.Logger) *Monitor {
	return &Monitor{
		pinger:       p,
		interval:     interval,
		probeTimeout: DefaultProbeTimeout,
		log:          log,
		mode:         ModeOffline,
		handlers:     make(map[uint64]func()),
	}
}

// Mode returns the last observed mode.
func (m *Monitor) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *Monitor) IsOnline() bool {
	return m.Mode() == ModeOnline
}

// OnOnline registers fn to be called on every offline -> online transition.
// The returned func removes exactly this registration and may be called more
// than once.
func (m *Monitor) OnOnline(fn func()) (remove func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.handlers, id)
		m.mu.Unlock()
	}
}

// Check probes the server once and applies the resulting transition.
// Handlers run synchronously, in registration order, outside the lock.
func (m *Monitor) Check(ctx context.Context) Mode {
	pctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	err := m.pinger.Ping(pctx)
	cancel()

	next := ModeOnline
	if err != nil {
		next = ModeOffline
	}

	m.mu.Lock()
	prev := m.mode
	m.mode = next
	var fire []func()
	if prev == ModeOffline && next == ModeOnline {
		ids := make([]uint64, 0, len(m.handlers))
		for id := range m.handlers {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fire = append(fire, m.handlers[id])
		}
	}
	m.mu.Unlock()

	if prev != next {
		if err != nil {
			m.log.Info(ctx, "switched mode", "mode", next, "error", err)
		} else {
			m.log.Info(ctx, "switched mode", "mode", next)
		}
	}
	for _, fn := range fire {
		fn()
	}
	return next
}

// Run probes immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
