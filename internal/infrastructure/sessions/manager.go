// Package sessions keeps the per-visitor flow state. Controllers are
// stateful, so each browser session gets its own intake and tracking
// controller pair, kept in memory, keyed by an opaque cookie token and
// swept after a period of inactivity.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SlnkoEnergy/Client-O-M/internal/application/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/application/tracking"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/goroutine"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
)

const (
	// DefaultTTL applies when the config omits a session lifetime.
	DefaultTTL = 30 * time.Minute
	// DefaultSweepInterval applies when the config omits a janitor cadence.
	DefaultSweepInterval = time.Minute
)

// Session bundles the per-visitor controllers.
type Session struct {
	ID       string
	Intake   *intake.Controller
	Tracking *tracking.Controller

	lastSeen time.Time
}

// Factory builds the controller pair for a fresh session.
type Factory func() (*intake.Controller, *tracking.Controller)

// Manager owns the live sessions and their janitor.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	factory Factory
	ttl     time.Duration
	logger  logger.Interface
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates a session manager and starts its sweep loop.
func NewManager(factory Factory, ttl, sweepInterval time.Duration, log logger.Interface) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		ttl:      ttl,
		logger:   log,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	goroutine.SafeGo(log, "session-sweeper", func() { m.sweepLoop(sweepInterval) })
	return m
}

// GetOrCreate returns the session for token, making a new one (with a
// fresh token) when the token is unknown or empty.
func (m *Manager) GetOrCreate(token string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != "" {
		if s, ok := m.sessions[token]; ok {
			s.lastSeen = m.now()
			return s
		}
	}

	intakeCtl, trackingCtl := m.factory()
	s := &Session{
		ID:       uuid.NewString(),
		Intake:   intakeCtl,
		Tracking: trackingCtl,
		lastSeen: m.now(),
	}
	m.sessions[s.ID] = s
	m.logger.Debugw("session created", "session_id", s.ID)
	return s
}

// Get returns the session for token without creating one.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

// Remove tears down one session, releasing its preview handles and any
// in-flight recording.
func (m *Manager) Remove(token string) {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		s.Intake.Close()
		m.logger.Debugw("session removed", "session_id", token)
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the janitor and tears down every session.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)

		m.mu.Lock()
		expired := make([]*Session, 0, len(m.sessions))
		for _, s := range m.sessions {
			expired = append(expired, s)
		}
		clear(m.sessions)
		m.mu.Unlock()

		for _, s := range expired {
			s.Intake.Close()
		}
	})
}

func (m *Manager) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for token, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, token)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Intake.Close()
		m.logger.Debugw("session expired", "session_id", s.ID)
	}
}
