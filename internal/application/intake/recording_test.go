package intake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
)

func TestStartRecording(t *testing.T) {
	t.Run("is a no-op while a session is active", func(t *testing.T) {
		f := newFixture()
		f.toReady(t)
		opens := 0
		f.device.OpenFunc = func(ctx context.Context) (CaptureSession, error) {
			opens++
			return newFakeSession("audio/webm"), nil
		}

		require.NoError(t, f.ctrl.StartRecording(context.Background()))
		require.NoError(t, f.ctrl.StartRecording(context.Background()))
		assert.Equal(t, 1, opens)
		f.ctrl.StopRecording()
	})

	t.Run("fourth clip is rejected before the device is touched", func(t *testing.T) {
		f := newFixture()
		f.toReady(t)
		opens := 0
		f.device.OpenFunc = func(ctx context.Context) (CaptureSession, error) {
			opens++
			return newFakeSession("audio/webm"), nil
		}

		for i := 0; i < domain.MaxVoiceClips; i++ {
			require.NoError(t, f.ctrl.StartRecording(context.Background()))
			f.ctrl.StopRecording()
		}
		require.Equal(t, domain.MaxVoiceClips, opens)

		err := f.ctrl.StartRecording(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCapacityError(err))
		assert.Equal(t, domain.MaxVoiceClips, opens)
	})

	t.Run("slow open cannot fill a slot taken while it was in flight", func(t *testing.T) {
		f := newFixture()
		f.toReady(t)

		for i := 0; i < domain.MaxVoiceClips-1; i++ {
			require.NoError(t, f.ctrl.StartRecording(context.Background()))
			f.ctrl.StopRecording()
		}

		entered := make(chan struct{})
		release := make(chan struct{})
		slow := newFakeSession("audio/webm")
		f.device.OpenFunc = func(ctx context.Context) (CaptureSession, error) {
			close(entered)
			<-release
			return slow, nil
		}

		errCh := make(chan error, 1)
		go func() { errCh <- f.ctrl.StartRecording(context.Background()) }()
		<-entered

		// The last slot goes to a fast start+stop while the first open
		// is still blocked in the device.
		f.device.OpenFunc = func(ctx context.Context) (CaptureSession, error) {
			return newFakeSession("audio/webm"), nil
		}
		require.NoError(t, f.ctrl.StartRecording(context.Background()))
		f.ctrl.StopRecording()

		close(release)
		err := <-errCh
		require.Error(t, err)
		assert.True(t, errors.IsCapacityError(err))
		assert.True(t, slow.isClosed())
		assert.Len(t, f.ctrl.Snapshot().VoiceClips, domain.MaxVoiceClips)
	})

	t.Run("device errors pass through", func(t *testing.T) {
		tests := []struct {
			name    string
			openErr error
			wantErr func(error) bool
		}{
			{"permission denied", errors.NewPermissionError("mic denied"), errors.IsPermissionError},
			{"unsupported", errors.NewUnsupportedError("no recorder"), errors.IsUnsupportedError},
			{"plain error", assert.AnError, errors.IsUnsupportedError},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture()
				f.toReady(t)
				f.device.OpenFunc = func(ctx context.Context) (CaptureSession, error) {
					return nil, tt.openErr
				}

				err := f.ctrl.StartRecording(context.Background())
				require.Error(t, err)
				assert.True(t, tt.wantErr(err))
				assert.False(t, f.ctrl.Snapshot().Recording)
			})
		}
	})
}

func TestAppendRecordingChunk(t *testing.T) {
	f := newFixture()
	f.toReady(t)

	err := f.ctrl.AppendRecordingChunk([]byte("early"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	session := newFakeSession("audio/webm")
	f.device.OpenFunc = func(ctx context.Context) (CaptureSession, error) {
		return session, nil
	}
	require.NoError(t, f.ctrl.StartRecording(context.Background()))
	require.NoError(t, f.ctrl.AppendRecordingChunk([]byte("one-")))
	require.NoError(t, f.ctrl.AppendRecordingChunk([]byte("two")))
	f.ctrl.StopRecording()

	assert.Equal(t, []byte("one-two"), session.Blob())
}

func TestStopRecording(t *testing.T) {
	t.Run("no-op when idle", func(t *testing.T) {
		f := newFixture()
		f.toReady(t)
		f.ctrl.StopRecording()
		assert.Empty(t, f.ctrl.Snapshot().VoiceClips)
	})

	t.Run("finalizes a named clip with its preview handle", func(t *testing.T) {
		f := newFixture()
		f.toReady(t)
		clock := newFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
		f.ctrl.now = clock.Now
		session := newFakeSession("audio/ogg")
		f.device.OpenFunc = func(ctx context.Context) (CaptureSession, error) {
			return session, nil
		}

		require.NoError(t, f.ctrl.StartRecording(context.Background()))
		require.NoError(t, f.ctrl.AppendRecordingChunk([]byte("clip-bytes")))
		clock.Advance(4 * time.Second)
		f.ctrl.StopRecording()

		snap := f.ctrl.Snapshot()
		assert.False(t, snap.Recording)
		require.Len(t, snap.VoiceClips, 1)
		clip := snap.VoiceClips[0]
		assert.Equal(t, "voice-note-1-2026-03-14T09-30-04Z.ogg", clip.Name)
		assert.Equal(t, int64(4000), clip.DurationMs)
		assert.True(t, session.isClosed())
		assert.Equal(t, 1, f.ctrl.Previews().Len())
	})

	t.Run("clip ordinals advance", func(t *testing.T) {
		f := newFixture()
		f.toReady(t)

		for i := 0; i < 2; i++ {
			require.NoError(t, f.ctrl.StartRecording(context.Background()))
			f.ctrl.StopRecording()
		}

		snap := f.ctrl.Snapshot()
		require.Len(t, snap.VoiceClips, 2)
		assert.Contains(t, snap.VoiceClips[0].Name, "voice-note-1-")
		assert.Contains(t, snap.VoiceClips[1].Name, "voice-note-2-")
	})
}

func TestRecordingAutoStopsAtCap(t *testing.T) {
	f := newFixture()
	f.toReady(t)
	clock := newFakeClock(time.Now())
	f.ctrl.now = clock.Now

	require.NoError(t, f.ctrl.StartRecording(context.Background()))
	require.NoError(t, f.ctrl.AppendRecordingChunk([]byte("long clip")))
	clock.Advance(domain.MaxClipDuration + time.Second)

	require.Eventually(t, func() bool {
		snap := f.ctrl.Snapshot()
		return !snap.Recording && len(snap.VoiceClips) == 1
	}, 2*time.Second, 10*time.Millisecond)

	clip := f.ctrl.Snapshot().VoiceClips[0]
	assert.GreaterOrEqual(t, clip.DurationMs, domain.MaxClipDuration.Milliseconds())
}

func TestRecordingCancelledByReset(t *testing.T) {
	f := newFixture()
	f.toReady(t)
	session := newFakeSession("audio/webm")
	f.device.OpenFunc = func(ctx context.Context) (CaptureSession, error) {
		return session, nil
	}

	require.NoError(t, f.ctrl.StartRecording(context.Background()))
	require.NoError(t, f.ctrl.AppendRecordingChunk([]byte("discarded")))
	f.ctrl.Reset()

	snap := f.ctrl.Snapshot()
	assert.False(t, snap.Recording)
	assert.Empty(t, snap.VoiceClips)
	assert.True(t, session.isClosed())
	assert.Equal(t, 0, f.ctrl.Previews().Len())
}

func TestRemoveVoiceClip(t *testing.T) {
	f := newFixture()
	f.toReady(t)

	err := f.ctrl.RemoveVoiceClip(0)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	require.NoError(t, f.ctrl.StartRecording(context.Background()))
	f.ctrl.StopRecording()
	require.NoError(t, f.ctrl.StartRecording(context.Background()))
	f.ctrl.StopRecording()
	require.Equal(t, 2, f.ctrl.Previews().Len())

	require.NoError(t, f.ctrl.RemoveVoiceClip(0))

	snap := f.ctrl.Snapshot()
	require.Len(t, snap.VoiceClips, 1)
	assert.Equal(t, 1, f.ctrl.Previews().Len())
}
