package client

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
)

// Monitor runs the periodic heartbeat probe for a logged-in session.
//
// Only an explicit session-expired response evicts: transport failures are
// treated as transient and leave the authenticated state untouched, trading
// guaranteed eviction for no false evictions on flaky connectivity. Eviction
// is terminal for the token; a new login builds a new Monitor.
type Monitor struct {
	client      *Client
	session     *Session
	sessionPath string
	Interval    time.Duration
	OnEvicted   func()

	evicted atomic.Bool
}

// NewMonitor prepares a heartbeat monitor. sessionPath may be empty when the
// session is not cached on disk; OnEvicted may be nil.
func NewMonitor(c *Client, session *Session, sessionPath string, onEvicted func()) *Monitor {
	return &Monitor{
		client:      c,
		session:     session,
		sessionPath: sessionPath,
		Interval:    HeartbeatInterval,
		OnEvicted:   onEvicted,
	}
}

// Run blocks until the session is evicted or ctx is cancelled. Admin sessions
// are exempt from liveness enforcement and return immediately.
func (m *Monitor) Run(ctx context.Context) {
	if m.session.Role == model.RoleAdmin {
		return
	}

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := m.client.Heartbeat(ctx, m.session.ID, m.session.SessionID)
			if err == nil {
				continue
			}
			if errors.Is(err, ErrSessionExpired) {
				m.evict()
				return
			}
			// Transient network failure: keep the session, wait for the
			// next tick.
		}
	}
}

// Evicted reports whether the session was displaced.
func (m *Monitor) Evicted() bool {
	return m.evicted.Load()
}

func (m *Monitor) evict() {
	m.evicted.Store(true)
	if m.sessionPath != "" {
		_ = RemoveSession(m.sessionPath)
	}
	if m.OnEvicted != nil {
		m.OnEvicted()
	}
}
