package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentDraftKey(t *testing.T) {
	a := AttachmentDraft{Name: "panel.jpg", Size: 2048, LastModified: 1700000000000}
	b := AttachmentDraft{Name: "panel.jpg", Size: 2048, LastModified: 1700000000000}
	c := AttachmentDraft{Name: "panel.jpg", Size: 2049, LastModified: 1700000000000}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestCheckAttachment(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		size     int64
		mimeType string
		total    int64
		wantErr  bool
	}{
		{"jpeg ok", "panel.jpg", 1 << 20, "image/jpeg", 0, false},
		{"pdf ok", "report.pdf", 1 << 20, "application/pdf", 0, false},
		{"audio by mime", "clip.opus", 1 << 20, "audio/opus", 0, false},
		{"executable rejected", "payload.exe", 100, "application/octet-stream", 0, true},
		{"oversize file", "big.jpg", MaxAttachmentBytes + 1, "image/jpeg", 0, true},
		{"at the per-file limit", "edge.jpg", MaxAttachmentBytes, "image/jpeg", 0, false},
		{"aggregate overflow", "one-more.jpg", 1 << 20, "image/jpeg", MaxTotalAttachmentBytes - 1<<19, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAttachment(tt.file, tt.size, tt.mimeType, tt.total)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClipName(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 4, 0, time.UTC)

	assert.Equal(t, "voice-note-1-2026-03-14T09-30-04Z.webm", ClipName(1, "audio/webm", now))
	assert.Equal(t, "voice-note-2-2026-03-14T09-30-04Z.ogg", ClipName(2, "audio/ogg", now))

	t.Run("codec suffix is dropped", func(t *testing.T) {
		assert.Equal(t, "voice-note-3-2026-03-14T09-30-04Z.webm", ClipName(3, "audio/webm;codecs=opus", now))
	})

	t.Run("missing mime defaults to webm", func(t *testing.T) {
		assert.Equal(t, "voice-note-1-2026-03-14T09-30-04Z.webm", ClipName(1, "", now))
	})

	t.Run("non-utc timestamps normalize", func(t *testing.T) {
		ist := time.FixedZone("IST", 5*3600+1800)
		local := time.Date(2026, 3, 14, 15, 0, 4, 0, ist)
		assert.Equal(t, "voice-note-1-2026-03-14T09-30-04Z.webm", ClipName(1, "audio/webm", local))
	})
}
