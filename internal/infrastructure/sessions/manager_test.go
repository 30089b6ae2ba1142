package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlnkoEnergy/Client-O-M/internal/application/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/application/preview"
	"github.com/SlnkoEnergy/Client-O-M/internal/application/tracking"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (l nopLogger) With(args ...any) logger.Interface             { return l }
func (l nopLogger) Named(name string) logger.Interface            { return l }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func testFactory() (*intake.Controller, *tracking.Controller) {
	log := nopLogger{}
	intakeCtl := intake.NewController(nil, nil, nil, nil, preview.NewRegistry(), log)
	trackingCtl := tracking.NewController(nil, nil, log)
	return intakeCtl, trackingCtl
}

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m := NewManager(testFactory, ttl, time.Hour, nopLogger{})
	t.Cleanup(m.Close)
	return m
}

func TestManagerGetOrCreate(t *testing.T) {
	m := newTestManager(t, time.Minute)

	s1 := m.GetOrCreate("")
	require.NotNil(t, s1)
	assert.NotEmpty(t, s1.ID)
	assert.NotNil(t, s1.Intake)
	assert.NotNil(t, s1.Tracking)

	t.Run("known token returns same session", func(t *testing.T) {
		s2 := m.GetOrCreate(s1.ID)
		assert.Same(t, s1, s2)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("unknown token creates fresh session", func(t *testing.T) {
		s3 := m.GetOrCreate("not-a-session")
		assert.NotEqual(t, s1.ID, s3.ID)
		assert.Equal(t, 2, m.Len())
	})
}

func TestManagerGet(t *testing.T) {
	m := newTestManager(t, time.Minute)

	_, ok := m.Get("missing")
	assert.False(t, ok)

	s := m.GetOrCreate("")
	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestManagerRemove(t *testing.T) {
	m := newTestManager(t, time.Minute)

	s := m.GetOrCreate("")
	m.Remove(s.ID)

	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	// Removing twice is harmless.
	m.Remove(s.ID)
}

func TestManagerSweepExpiresIdleSessions(t *testing.T) {
	m := newTestManager(t, time.Minute)

	now := time.Now()
	m.now = func() time.Time { return now }

	stale := m.GetOrCreate("")
	now = now.Add(30 * time.Second)
	fresh := m.GetOrCreate("")
	require.Equal(t, 2, m.Len())

	now = now.Add(45 * time.Second)
	m.sweep()

	_, ok := m.Get(stale.ID)
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestManagerClose(t *testing.T) {
	m := NewManager(testFactory, time.Minute, time.Hour, nopLogger{})
	m.GetOrCreate("")
	m.GetOrCreate("")

	m.Close()
	assert.Equal(t, 0, m.Len())

	// Close is idempotent.
	m.Close()
}
