package intake

import (
	"github.com/SlnkoEnergy/Client-O-M/internal/application/preview"
	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
)

// AttachmentView is one staged attachment as rendered to the user.
type AttachmentView struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MIMEType   string `json:"mime_type"`
	PreviewURL string `json:"preview_url"`
}

// VoiceClipView is one staged voice note as rendered to the user.
type VoiceClipView struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
	PreviewURL string `json:"preview_url"`
}

// Snapshot is the complete view state of the intake flow.
type Snapshot struct {
	Stage            domain.Stage             `json:"stage"`
	Phone            string                   `json:"phone"`
	Projects         []domain.ProjectSummary  `json:"projects"`
	ProjectID        string                   `json:"project_id"`
	ProjectDetail    *domain.ProjectDetail    `json:"project_detail,omitempty"`
	EquipmentOptions []domain.EquipmentOption `json:"equipment_options"`
	EquipmentID      string                   `json:"equipment_id"`
	Fault            string                   `json:"fault"`
	Details          string                   `json:"details"`
	Attachments      []AttachmentView         `json:"attachments"`
	VoiceClips       []VoiceClipView          `json:"voice_clips"`
	Recording        bool                     `json:"recording"`
	ElapsedMs        int64                    `json:"elapsed_ms"`
	TicketID         string                   `json:"ticket_id,omitempty"`
	Message          string                   `json:"message,omitempty"`
}

// Snapshot returns the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Stage:            c.stageLocked(),
		Phone:            c.phone,
		Projects:         append([]domain.ProjectSummary(nil), c.projectList...),
		ProjectID:        c.projectID,
		ProjectDetail:    c.projectDetail,
		EquipmentOptions: append([]domain.EquipmentOption(nil), c.equipmentOptions...),
		EquipmentID:      c.equipmentID,
		Fault:            c.fault,
		Details:          c.details,
		Attachments:      make([]AttachmentView, 0, len(c.attachments)),
		VoiceClips:       make([]VoiceClipView, 0, len(c.voiceClips)),
		TicketID:         c.lastTicketID,
		Message:          c.lastMessage,
	}
	for _, a := range c.attachments {
		snap.Attachments = append(snap.Attachments, AttachmentView{
			Name:       a.Name,
			Size:       a.Size,
			MIMEType:   a.MIMEType,
			PreviewURL: preview.Handle{Token: a.PreviewToken}.URL(),
		})
	}
	for _, v := range c.voiceClips {
		snap.VoiceClips = append(snap.VoiceClips, VoiceClipView{
			Name:       v.Name,
			DurationMs: v.Duration.Milliseconds(),
			PreviewURL: preview.Handle{Token: v.PreviewToken}.URL(),
		})
	}
	if c.rec != nil {
		snap.Recording = true
		snap.ElapsedMs = c.rec.elapsed.Milliseconds()
	}
	return snap
}

// stageLocked derives the flow stage from the data present; no separate
// stage field exists to drift out of sync.
func (c *Controller) stageLocked() domain.Stage {
	switch {
	case c.submitting:
		return domain.StageSubmitting
	case c.projectID != "" && c.projectDetail != nil && c.equipmentLoaded:
		return domain.StageReady
	case c.projectID != "":
		return domain.StageProjectSelected
	case len(c.projectList) > 0:
		return domain.StageProjectsListed
	case c.lastTicketID != "":
		return domain.StageDone
	default:
		return domain.StageEmpty
	}
}
