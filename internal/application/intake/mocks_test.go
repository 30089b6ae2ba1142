package intake

import (
	"bytes"
	"context"
	"sync"
	"time"

	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
)

type mockProjectDirectory struct {
	ProjectsByPhoneFunc func(ctx context.Context, number string) ([]domain.ProjectSummary, error)
	ProjectByIDFunc     func(ctx context.Context, id string) (*domain.ProjectDetail, error)
}

func (m *mockProjectDirectory) ProjectsByPhone(ctx context.Context, number string) ([]domain.ProjectSummary, error) {
	if m.ProjectsByPhoneFunc != nil {
		return m.ProjectsByPhoneFunc(ctx, number)
	}
	return nil, nil
}

func (m *mockProjectDirectory) ProjectByID(ctx context.Context, id string) (*domain.ProjectDetail, error) {
	if m.ProjectByIDFunc != nil {
		return m.ProjectByIDFunc(ctx, id)
	}
	return &domain.ProjectDetail{}, nil
}

type mockCatalog struct {
	CategoriesFunc func(ctx context.Context) ([]domain.EquipmentOption, error)
}

func (m *mockCatalog) Categories(ctx context.Context) ([]domain.EquipmentOption, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return nil, nil
}

type mockSubmitter struct {
	CreateComplaintFunc func(ctx context.Context, sub domain.Submission) (*SubmitReceipt, error)
}

func (m *mockSubmitter) CreateComplaint(ctx context.Context, sub domain.Submission) (*SubmitReceipt, error) {
	if m.CreateComplaintFunc != nil {
		return m.CreateComplaintFunc(ctx, sub)
	}
	return &SubmitReceipt{}, nil
}

type mockDevice struct {
	OpenFunc func(ctx context.Context) (CaptureSession, error)
}

func (m *mockDevice) Open(ctx context.Context) (CaptureSession, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx)
	}
	return newFakeSession("audio/webm"), nil
}

// fakeSession buffers written chunks like the real capture session.
type fakeSession struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	mimeType string
	closed   bool
}

func newFakeSession(mimeType string) *fakeSession {
	return &fakeSession{mimeType: mimeType}
}

func (s *fakeSession) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Write(p)
	return nil
}

func (s *fakeSession) Blob() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

func (s *fakeSession) MIMEType() string { return s.mimeType }

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type mockLogger struct{}

func (mockLogger) Debug(msg string, args ...any)                   {}
func (mockLogger) Info(msg string, args ...any)                    {}
func (mockLogger) Warn(msg string, args ...any)                    {}
func (mockLogger) Error(msg string, args ...any)                   {}
func (l mockLogger) With(args ...any) logger.Interface             { return l }
func (l mockLogger) Named(name string) logger.Interface            { return l }
func (mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}

// fakeClock is a mutable clock for driving elapsed-time behavior.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{t: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
