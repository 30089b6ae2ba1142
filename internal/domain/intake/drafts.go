package intake

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxVoiceClips caps concurrent voice notes on one complaint draft.
	MaxVoiceClips = 3
	// MaxClipDuration is the per-clip recording cap; sessions auto-stop here.
	MaxClipDuration = 120 * time.Second
	// RecordingTick is the resolution of the elapsed-time ticker.
	RecordingTick = 200 * time.Millisecond

	// MaxAttachmentBytes caps one uploaded file, MaxTotalAttachmentBytes the
	// whole draft. The original UI advertised types without enforcing them;
	// this service enforces both as a deliberate hardening choice.
	MaxAttachmentBytes      = 15 << 20
	MaxTotalAttachmentBytes = 60 << 20
)

// allowedExtensions mirrors the file picker filter advertised to users:
// images, documents, and audio.
var allowedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true, ".bmp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".csv": true, ".txt": true,
	".mp3": true, ".wav": true, ".ogg": true, ".webm": true, ".m4a": true, ".aac": true,
}

// AttachmentDraft is a user-picked file staged for submission. PreviewToken
// references the preview handle owned by the controller's registry; the
// draft never releases it itself.
type AttachmentDraft struct {
	Name         string
	Size         int64
	LastModified int64
	MIMEType     string
	PreviewToken string
}

// Key is the identity used to drop duplicate adds.
func (a AttachmentDraft) Key() string {
	return fmt.Sprintf("%s-%d-%d", a.Name, a.Size, a.LastModified)
}

// CheckAttachment validates one candidate file against the allow-list and
// size ceilings. totalSoFar is the byte count of already-staged attachments.
func CheckAttachment(name string, size int64, mimeType string, totalSoFar int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] && !strings.HasPrefix(mimeType, "image/") && !strings.HasPrefix(mimeType, "audio/") {
		return fmt.Errorf("file type %q is not accepted", ext)
	}
	if size > MaxAttachmentBytes {
		return fmt.Errorf("file %q exceeds the %d MB limit", name, MaxAttachmentBytes>>20)
	}
	if totalSoFar+size > MaxTotalAttachmentBytes {
		return fmt.Errorf("attachments exceed the %d MB total limit", MaxTotalAttachmentBytes>>20)
	}
	return nil
}

// VoiceClipDraft is a finalized voice note. The generated name carries the
// clip ordinal and a filesystem-safe timestamp.
type VoiceClipDraft struct {
	Name         string
	MIMEType     string
	Size         int64
	Duration     time.Duration
	PreviewToken string
}

// ClipName builds the generated file name for the ordinal-th clip.
func ClipName(ordinal int, mimeType string, now time.Time) string {
	ext := "webm"
	if _, sub, ok := strings.Cut(mimeType, "/"); ok {
		ext, _, _ = strings.Cut(sub, ";")
	}
	stamp := now.UTC().Format("2006-01-02T15-04-05Z")
	return fmt.Sprintf("voice-note-%d-%s.%s", ordinal, stamp, ext)
}

// Submission is the write-only aggregate posted to the backend. Parts keep
// the attachments-then-voice-clips order under a single shared field name.
type Submission struct {
	ProjectID   string
	EquipmentID string
	Fault       string
	Details     string
	Parts       []SubmissionPart
}

// SubmissionPart is one binary part of the multipart payload.
type SubmissionPart struct {
	FileName string
	MIMEType string
	Data     []byte
}
