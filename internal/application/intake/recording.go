package intake

import (
	"context"
	"sync"
	"time"

	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
)

// recordingState tracks one exclusive capture session. The ticker goroutine
// refreshes elapsed time at RecordingTick resolution and auto-stops the
// session at MaxClipDuration; it exits whenever the session ends by any
// path so no timer keeps firing against retired state.
type recordingState struct {
	session   CaptureSession
	startedAt time.Time
	elapsed   time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
}

func (r *recordingState) signalStop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// StartRecording opens a capture session. Calling it while a session is
// active is a no-op; a fourth clip is rejected before the device is
// touched.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.NewConflictError("session is closed")
	}
	if c.rec != nil {
		c.mu.Unlock()
		return nil
	}
	if len(c.voiceClips) >= domain.MaxVoiceClips {
		c.mu.Unlock()
		return errors.NewCapacityError("You can add up to 3 voice notes.")
	}
	c.mu.Unlock()

	session, err := c.device.Open(ctx)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			return appErr
		}
		return errors.NewUnsupportedError("Could not start recording on this device.", err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.rec != nil {
		// Lost the race; give the stream back.
		_ = session.Close()
		if c.closed {
			return errors.NewConflictError("session is closed")
		}
		return nil
	}
	if len(c.voiceClips) >= domain.MaxVoiceClips {
		// A concurrent start+stop filled the last slot while Open was
		// in flight.
		_ = session.Close()
		return errors.NewCapacityError("You can add up to 3 voice notes.")
	}

	rec := &recordingState{
		session:   session,
		startedAt: c.now(),
		stop:      make(chan struct{}),
	}
	c.rec = rec
	go c.tickRecording(rec)
	return nil
}

func (c *Controller) tickRecording(rec *recordingState) {
	ticker := time.NewTicker(domain.RecordingTick)
	defer ticker.Stop()
	for {
		select {
		case <-rec.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.rec != rec {
				c.mu.Unlock()
				return
			}
			rec.elapsed = c.now().Sub(rec.startedAt)
			if rec.elapsed >= domain.MaxClipDuration {
				c.finalizeRecordingLocked()
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
		}
	}
}

// AppendRecordingChunk feeds captured audio into the active session.
func (c *Controller) AppendRecordingChunk(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rec == nil {
		return errors.NewValidationError("no recording in progress")
	}
	if err := c.rec.session.Write(p); err != nil {
		return errors.NewInternalError("failed to buffer recorded audio", err.Error())
	}
	return nil
}

// StopRecording finalizes the in-progress clip. No-op when idle.
func (c *Controller) StopRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rec == nil {
		return
	}
	c.rec.elapsed = c.now().Sub(c.rec.startedAt)
	c.finalizeRecordingLocked()
}

// finalizeRecordingLocked turns the active session into a VoiceClipDraft,
// releases the capture stream, and retires the ticker.
func (c *Controller) finalizeRecordingLocked() {
	rec := c.rec
	c.rec = nil
	rec.signalStop()

	blob := rec.session.Blob()
	mimeType := rec.session.MIMEType()
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	if err := rec.session.Close(); err != nil {
		c.log.Warnw("capture session close failed", "error", err)
	}

	name := domain.ClipName(len(c.voiceClips)+1, mimeType, c.now())
	handle, err := c.previews.Add(name, mimeType, blob)
	if err != nil {
		// Registry already drained by teardown; the clip is dropped.
		return
	}
	c.voiceClips = append(c.voiceClips, domain.VoiceClipDraft{
		Name:         name,
		MIMEType:     mimeType,
		Size:         int64(len(blob)),
		Duration:     rec.elapsed,
		PreviewToken: handle.Token,
	})
}

// cancelRecordingLocked discards the active session without producing a
// clip. Used by resets and teardown.
func (c *Controller) cancelRecordingLocked() {
	if c.rec == nil {
		return
	}
	rec := c.rec
	c.rec = nil
	rec.signalStop()
	if err := rec.session.Close(); err != nil {
		c.log.Warnw("capture session close failed", "error", err)
	}
}
