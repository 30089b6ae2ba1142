package intake

import (
	"context"

	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
)

// ProjectDirectory resolves registered projects for a caller.
type ProjectDirectory interface {
	ProjectsByPhone(ctx context.Context, number string) ([]domain.ProjectSummary, error)
	ProjectByID(ctx context.Context, id string) (*domain.ProjectDetail, error)
}

// EquipmentCatalog lists the equipment/material categories a complaint can
// be filed against.
type EquipmentCatalog interface {
	Categories(ctx context.Context) ([]domain.EquipmentOption, error)
}

// SubmitReceipt is the backend's answer to a created complaint.
type SubmitReceipt struct {
	TicketID string
	Message  string
}

// ComplaintSubmitter posts the multipart complaint payload.
type ComplaintSubmitter interface {
	CreateComplaint(ctx context.Context, sub domain.Submission) (*SubmitReceipt, error)
}

// AudioCaptureDevice opens exclusive voice capture sessions. Open returns
// a permission error when the caller's runtime denied microphone access and
// an unsupported error when no capture capability exists.
type AudioCaptureDevice interface {
	Open(ctx context.Context) (CaptureSession, error)
}

// CaptureSession is one in-progress recording. Write appends captured
// audio, Blob exposes the bytes so far, Close releases the underlying
// stream. Sessions are owned by exactly one controller.
type CaptureSession interface {
	Write(p []byte) error
	Blob() []byte
	MIMEType() string
	Close() error
}
