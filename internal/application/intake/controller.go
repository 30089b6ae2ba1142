// Package intake implements the complaint-intake flow controller: phone
// lookup, project selection, equipment and fault details, attachments,
// voice recording, and multipart submission.
package intake

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/SlnkoEnergy/Client-O-M/internal/application/preview"
	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
)

// Controller drives one user's complaint draft. All state-mutating
// operations serialize on the internal mutex; remote calls run outside it
// and their responses are discarded when the selection moved on in the
// meantime (see selectionEpoch).
type Controller struct {
	projects  ProjectDirectory
	catalog   EquipmentCatalog
	submitter ComplaintSubmitter
	device    AudioCaptureDevice
	previews  *preview.Registry
	log       logger.Interface
	now       func() time.Time

	mu sync.Mutex

	phone         string
	projectList   []domain.ProjectSummary
	projectID     string
	projectDetail *domain.ProjectDetail

	equipmentOptions []domain.EquipmentOption
	equipmentLoaded  bool
	catalogCache     []domain.EquipmentOption
	equipmentID      string

	fault   string
	details string

	attachments []domain.AttachmentDraft
	voiceClips  []domain.VoiceClipDraft
	rec         *recordingState

	// selectionEpoch invalidates in-flight lookups when the phone number or
	// project selection changes before they resolve.
	selectionEpoch uint64

	submitting bool
	closed     bool

	lastTicketID string
	lastMessage  string
}

// NewController wires a controller with its collaborators. The preview
// registry is owned exclusively by the returned controller.
func NewController(
	projects ProjectDirectory,
	catalog EquipmentCatalog,
	submitter ComplaintSubmitter,
	device AudioCaptureDevice,
	previews *preview.Registry,
	log logger.Interface,
) *Controller {
	return &Controller{
		projects:  projects,
		catalog:   catalog,
		submitter: submitter,
		device:    device,
		previews:  previews,
		log:       log,
		now:       time.Now,
	}
}

// Previews exposes the registry for serving preview URLs.
func (c *Controller) Previews() *preview.Registry {
	return c.previews
}

// LookupByPhone resolves the projects registered against a mobile number.
// Any prior selection and all downstream state (equipment, fault text,
// attachments, voice clips) are discarded when a new result set arrives,
// even if it contains the same project id as before.
func (c *Controller) LookupByPhone(ctx context.Context, raw string) ([]domain.ProjectSummary, error) {
	normalized := domain.NormalizePhone(raw)
	if len(normalized) < domain.MinPhoneDigits {
		return nil, errors.NewValidationError("Please enter a valid 10-digit mobile number.")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.NewConflictError("session is closed")
	}
	c.selectionEpoch++
	epoch := c.selectionEpoch
	c.mu.Unlock()

	list, err := c.projects.ProjectsByPhone(ctx, normalized)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.selectionEpoch != epoch {
		// A newer lookup or selection superseded this one in flight.
		return nil, nil
	}
	if err != nil {
		c.log.Warnw("project lookup failed", "error", err)
		return nil, remoteOr(err, "Failed to lookup mobile.")
	}

	c.lastTicketID = ""
	c.lastMessage = ""

	if len(list) == 0 {
		c.projectList = nil
		c.projectID = ""
		c.projectDetail = nil
		c.resetIssueLocked()
		return nil, errors.NewNotFoundError("This mobile number is not registered with any project.")
	}

	c.phone = normalized
	c.projectList = list
	c.projectID = ""
	c.projectDetail = nil
	c.resetIssueLocked()
	return list, nil
}

// SelectProject marks a listed project as chosen and loads its site detail
// plus the equipment catalog. On a detail fetch failure the project stays
// selected with nil detail, which keeps submission blocked. A late
// response for a superseded selection is discarded.
func (c *Controller) SelectProject(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.NewConflictError("session is closed")
	}
	if !c.listedLocked(id) {
		c.mu.Unlock()
		return errors.NewValidationError("Please select a project from the lookup results.")
	}

	c.selectionEpoch++
	epoch := c.selectionEpoch
	c.projectID = id
	c.projectDetail = nil
	c.resetIssueLocked()
	c.mu.Unlock()

	detail, err := c.projects.ProjectByID(ctx, id)

	c.mu.Lock()
	if c.closed || c.selectionEpoch != epoch {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warnw("project detail fetch failed", "project_id", id, "error", err)
		return remoteOr(err, "Failed to fetch project details.")
	}
	c.projectDetail = detail

	// Catalog is global; fetch once and reuse for the controller lifetime.
	if c.catalogCache != nil {
		c.equipmentOptions = c.catalogCache
		c.equipmentLoaded = true
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	options, err := c.catalog.Categories(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if c.closed || c.selectionEpoch != epoch {
			return nil
		}
		c.log.Warnw("equipment catalog fetch failed", "error", err)
		return remoteOr(err, "Failed to load equipment categories.")
	}
	c.catalogCache = options
	if c.closed || c.selectionEpoch != epoch {
		return nil
	}
	c.equipmentOptions = options
	c.equipmentLoaded = true
	return nil
}

// SelectEquipment records the affected equipment choice.
func (c *Controller) SelectEquipment(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.equipmentLoaded {
		return errors.NewValidationError("Equipment options are not loaded yet.")
	}
	for _, opt := range c.equipmentOptions {
		if opt.ID == id {
			c.equipmentID = id
			return nil
		}
	}
	return errors.NewValidationError("Please select affected equipment from the catalog.")
}

// SetFaultDescription stores the short fault description and the optional
// detailed description. Emptiness is judged at submit time.
func (c *Controller) SetFaultDescription(fault, details string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projectID == "" {
		return errors.NewValidationError("Please select a project.")
	}
	c.fault = fault
	c.details = details
	return nil
}

// FileInput is one picked file offered to AddAttachments.
type FileInput struct {
	Name         string
	Size         int64
	LastModified int64
	MIMEType     string
	Data         []byte
}

// AddAttachments stages picked files. Files whose identity key
// (name, size, lastModified) matches an already-staged attachment are
// silently dropped. Each accepted file gets exactly one preview handle.
func (c *Controller) AddAttachments(files []FileInput) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projectID == "" {
		return 0, errors.NewValidationError("Please select a project before adding attachments.")
	}

	existing := make(map[string]bool, len(c.attachments))
	var total int64
	for _, a := range c.attachments {
		existing[a.Key()] = true
		total += a.Size
	}

	added := 0
	for _, f := range files {
		draft := domain.AttachmentDraft{
			Name:         f.Name,
			Size:         f.Size,
			LastModified: f.LastModified,
			MIMEType:     f.MIMEType,
		}
		if existing[draft.Key()] {
			continue
		}
		if err := domain.CheckAttachment(f.Name, f.Size, f.MIMEType, total); err != nil {
			if f.Size > domain.MaxAttachmentBytes || total+f.Size > domain.MaxTotalAttachmentBytes {
				return added, errors.NewCapacityError(err.Error())
			}
			return added, errors.NewValidationError(err.Error())
		}
		handle, err := c.previews.Add(f.Name, f.MIMEType, f.Data)
		if err != nil {
			return added, errors.NewConflictError("session is closed")
		}
		draft.PreviewToken = handle.Token
		c.attachments = append(c.attachments, draft)
		existing[draft.Key()] = true
		total += f.Size
		added++
	}
	return added, nil
}

// RemoveAttachment drops the attachment at index, releasing exactly its
// preview handle.
func (c *Controller) RemoveAttachment(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.attachments) {
		return errors.NewValidationError("attachment index out of range")
	}
	if err := c.previews.Release(c.attachments[index].PreviewToken); err != nil {
		c.log.Errorw("attachment preview release failed", "error", err)
	}
	c.attachments = append(c.attachments[:index], c.attachments[index+1:]...)
	return nil
}

// RemoveVoiceClip drops the voice clip at index, releasing its preview
// handle.
func (c *Controller) RemoveVoiceClip(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.voiceClips) {
		return errors.NewValidationError("voice clip index out of range")
	}
	if err := c.previews.Release(c.voiceClips[index].PreviewToken); err != nil {
		c.log.Errorw("voice clip preview release failed", "error", err)
	}
	c.voiceClips = append(c.voiceClips[:index], c.voiceClips[index+1:]...)
	return nil
}

// Submit validates the draft and posts it to the backend. Validation order
// is phone, project, equipment, fault; the first failure short-circuits
// with no network call. Success releases every staged preview handle and
// resets the draft so the controller is immediately reusable; failure
// leaves the draft untouched for a retry.
func (c *Controller) Submit(ctx context.Context) (*SubmitReceipt, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.NewConflictError("session is closed")
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, errors.NewConflictError("a submission is already in progress")
	}
	if !domain.ValidPhone(c.phone) {
		c.mu.Unlock()
		return nil, errors.NewValidationError("Enter a valid mobile number first.")
	}
	if c.projectID == "" {
		c.mu.Unlock()
		return nil, errors.NewValidationError("Please select a project.")
	}
	if c.projectDetail == nil {
		c.mu.Unlock()
		return nil, errors.NewValidationError("Project details are still loading. Please retry in a moment.")
	}
	if c.equipmentID == "" {
		c.mu.Unlock()
		return nil, errors.NewValidationError("Please select affected equipment.")
	}
	if strings.TrimSpace(c.fault) == "" {
		c.mu.Unlock()
		return nil, errors.NewValidationError("Please enter a brief fault description.")
	}

	sub, err := c.buildSubmissionLocked()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.submitting = true
	c.mu.Unlock()

	receipt, err := c.submitter.CreateComplaint(ctx, *sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Warnw("complaint submission failed", "project_id", sub.ProjectID, "error", err)
		return nil, remoteOr(err, "Submission failed.")
	}

	message := receipt.Message
	if message == "" {
		message = "Complaint submitted successfully."
	}
	c.log.Infow("complaint submitted", "ticket_id", receipt.TicketID, "project_id", sub.ProjectID)

	c.resetAllLocked()
	c.lastTicketID = receipt.TicketID
	c.lastMessage = message
	return &SubmitReceipt{TicketID: receipt.TicketID, Message: message}, nil
}

// Reset discards the whole draft, releasing every preview handle.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAllLocked()
	c.lastTicketID = ""
	c.lastMessage = ""
}

// Close tears the controller down: it cancels any active recording and
// drains the preview registry. Idempotent; safe to call on session expiry
// or navigation away mid-flow.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelRecordingLocked()
	c.previews.Close()
	c.closed = true
}

func (c *Controller) listedLocked(id string) bool {
	for _, p := range c.projectList {
		if p.ID == id {
			return true
		}
	}
	return false
}

// resetIssueLocked clears everything downstream of project selection:
// equipment, fault text, attachments, and voice clips. Any active
// recording is cancelled without producing a clip.
func (c *Controller) resetIssueLocked() {
	c.cancelRecordingLocked()
	c.equipmentID = ""
	c.fault = ""
	c.details = ""
	for _, a := range c.attachments {
		if err := c.previews.Release(a.PreviewToken); err != nil {
			c.log.Errorw("attachment preview release failed", "error", err)
		}
	}
	c.attachments = nil
	for _, v := range c.voiceClips {
		if err := c.previews.Release(v.PreviewToken); err != nil {
			c.log.Errorw("voice clip preview release failed", "error", err)
		}
	}
	c.voiceClips = nil
}

func (c *Controller) resetAllLocked() {
	c.resetIssueLocked()
	c.phone = ""
	c.projectList = nil
	c.projectID = ""
	c.projectDetail = nil
	c.equipmentOptions = nil
	c.equipmentLoaded = false
	c.selectionEpoch++
}

func (c *Controller) buildSubmissionLocked() (*domain.Submission, error) {
	parts := make([]domain.SubmissionPart, 0, len(c.attachments)+len(c.voiceClips))
	for _, a := range c.attachments {
		_, mimeType, data, ok := c.previews.Open(a.PreviewToken)
		if !ok {
			return nil, errors.NewInternalError("attachment data is no longer available")
		}
		parts = append(parts, domain.SubmissionPart{FileName: a.Name, MIMEType: mimeType, Data: data})
	}
	for _, v := range c.voiceClips {
		_, mimeType, data, ok := c.previews.Open(v.PreviewToken)
		if !ok {
			return nil, errors.NewInternalError("voice clip data is no longer available")
		}
		parts = append(parts, domain.SubmissionPart{FileName: v.Name, MIMEType: mimeType, Data: data})
	}
	return &domain.Submission{
		ProjectID:   c.projectID,
		EquipmentID: c.equipmentID,
		Fault:       c.fault,
		Details:     c.details,
		Parts:       parts,
	}, nil
}

// remoteOr maps an arbitrary collaborator error to the user-facing remote
// error, preserving an upstream-provided message when one exists.
func remoteOr(err error, fallback string) error {
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr
	}
	return errors.NewRemoteError(fallback, err.Error())
}
