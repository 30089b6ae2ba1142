// Package capture implements voice capture for browser clients. The
// browser owns the microphone, so the server cannot probe capability
// itself: the client reports its recording support and permission state
// when it asks to start, and streams the captured audio up in chunks.
package capture

import (
	"bytes"
	"context"
	"sync"

	"github.com/SlnkoEnergy/Client-O-M/internal/application/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
)

const (
	// PermissionGranted and PermissionDenied are the client-reported
	// microphone permission states.
	PermissionGranted = "granted"
	PermissionDenied  = "denied"

	// DefaultMIMEType applies when the client does not name a recorder
	// container.
	DefaultMIMEType = "audio/webm"

	// Maximum audio accepted for a single capture session (16MB)
	maxSessionBytes = 16 << 20
)

// ClientReport is what the browser tells us about its recorder before a
// session opens.
type ClientReport struct {
	Supported  bool
	Permission string
	MIMEType   string
}

type reportKey struct{}

// WithReport attaches a client capability report to the context carried
// into AudioCaptureDevice.Open.
func WithReport(ctx context.Context, report ClientReport) context.Context {
	return context.WithValue(ctx, reportKey{}, report)
}

func reportFrom(ctx context.Context) (ClientReport, bool) {
	report, ok := ctx.Value(reportKey{}).(ClientReport)
	return report, ok
}

// BrowserDevice opens capture sessions backed by client-streamed chunks.
type BrowserDevice struct {
	logger logger.Interface
}

// NewBrowserDevice creates a chunk-fed capture device.
func NewBrowserDevice(log logger.Interface) *BrowserDevice {
	return &BrowserDevice{logger: log}
}

var _ intake.AudioCaptureDevice = (*BrowserDevice)(nil)

// Open validates the client's capability report and hands back an
// in-memory session for its chunks.
func (d *BrowserDevice) Open(ctx context.Context) (intake.CaptureSession, error) {
	report, ok := reportFrom(ctx)
	if !ok || !report.Supported {
		return nil, errors.NewUnsupportedError("Could not start recording on this device.")
	}
	if report.Permission == PermissionDenied {
		return nil, errors.NewPermissionError("Microphone permission denied. Please allow mic access.")
	}

	mimeType := report.MIMEType
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	d.logger.Debugw("capture session opened", "mime_type", mimeType)
	return &memorySession{mimeType: mimeType}, nil
}

// memorySession buffers one recording's chunks.
type memorySession struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	mimeType string
	closed   bool
}

func (s *memorySession) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.NewInternalError("capture session already closed")
	}
	if s.buf.Len()+len(p) > maxSessionBytes {
		return errors.NewCapacityError("Voice note is too large.")
	}
	s.buf.Write(p)
	return nil
}

func (s *memorySession) Blob() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob := make([]byte, s.buf.Len())
	copy(blob, s.buf.Bytes())
	return blob
}

func (s *memorySession) MIMEType() string {
	return s.mimeType
}

func (s *memorySession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// UnavailableDevice always refuses to open a session. It backs
// deployments where voice capture is disabled outright.
type UnavailableDevice struct{}

var _ intake.AudioCaptureDevice = (*UnavailableDevice)(nil)

func (UnavailableDevice) Open(ctx context.Context) (intake.CaptureSession, error) {
	return nil, errors.NewUnsupportedError("Voice recording is not available.")
}
