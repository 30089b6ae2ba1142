package tracking

import (
	"regexp"
	"strings"
	"time"

	"github.com/SlnkoEnergy/Client-O-M/internal/domain/ticket"
)

// ResultCard is one entry of the disambiguation list.
type ResultCard struct {
	Index       int    `json:"index"`
	TicketID    string `json:"ticket_id"`
	Customer    string `json:"customer"`
	ProjectName string `json:"project_name"`
	Equipment   string `json:"equipment"`
	Status      string `json:"status"`
}

// TimelineEntry is one rendered status-history step.
type TimelineEntry struct {
	Status    string     `json:"status"`
	Remarks   string     `json:"remarks"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// CommentView is one rendered task comment.
type CommentView struct {
	Author      string     `json:"author"`
	Email       string     `json:"email,omitempty"`
	Initials    string     `json:"initials"`
	Remarks     string     `json:"remarks"`
	RemarksHTML string     `json:"remarks_html"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// AttachmentView is one rendered ticket attachment.
type AttachmentView struct {
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	IsImage   bool       `json:"is_image"`
	Author    string     `json:"author,omitempty"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// DetailView is the full view of one selected ticket.
type DetailView struct {
	TicketID         string           `json:"ticket_id"`
	ProjectName      string           `json:"project_name"`
	Customer         string           `json:"customer"`
	Equipment        string           `json:"equipment"`
	ShortDescription string           `json:"short_description"`
	Description      string           `json:"description"`
	CurrentStatus    string           `json:"current_status"`
	CurrentRemarks   string           `json:"current_remarks"`
	LastUpdated      *time.Time       `json:"last_updated"`
	Deadline         *time.Time       `json:"deadline"`
	Timeline         []TimelineEntry  `json:"timeline"`
	Comments         []CommentView    `json:"comments"`
	Attachments      []AttachmentView `json:"attachments"`
	AttachmentsShown bool             `json:"attachments_shown"`
}

// Snapshot is the complete view state of the lookup flow.
type Snapshot struct {
	Query    string       `json:"query"`
	Results  []ResultCard `json:"results"`
	Selected int          `json:"selected"`
	Detail   *DetailView  `json:"detail,omitempty"`
}

// Snapshot returns the current view state, rendering the selected ticket's
// detail when one is chosen.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Query:    c.query,
		Results:  make([]ResultCard, 0, len(c.results)),
		Selected: c.selected,
	}
	for i, r := range c.results {
		card := ResultCard{
			Index:    i,
			TicketID: fallback(r.TicketID, "N/A"),
			Status:   FormatStatus(r.ResolveCurrentStatus()),
		}
		if r.Project != nil {
			card.Customer = r.Project.Customer
			card.ProjectName = fallback(r.Project.Name, "N/A")
		}
		if r.Equipment != nil {
			card.Equipment = fallback(r.Equipment.Name, "N/A")
		}
		snap.Results = append(snap.Results, card)
	}
	if c.selected >= 0 && c.selected < len(c.results) {
		snap.Detail = c.detailLocked(&c.results[c.selected])
	}
	return snap
}

func (c *Controller) detailLocked(r *ticket.Record) *DetailView {
	view := &DetailView{
		TicketID:         fallback(r.TicketID, "N/A"),
		ShortDescription: fallback(r.ShortDescription, "N/A"),
		Description:      r.Description,
		CurrentStatus:    FormatStatus(r.ResolveCurrentStatus()),
		Deadline:         r.Deadline,
		AttachmentsShown: c.attachmentsShown,
	}
	if r.Project != nil {
		view.ProjectName = fallback(r.Project.Name, "N/A")
		view.Customer = r.Project.Customer
	}
	if r.Equipment != nil {
		view.Equipment = fallback(r.Equipment.Name, "N/A")
	}
	if r.CurrentStatus != nil {
		view.CurrentRemarks = fallback(r.CurrentStatus.Remarks, "N/A")
		view.LastUpdated = r.CurrentStatus.UpdatedAt
	}

	for _, h := range ticket.SortedHistory(r.StatusHistory) {
		view.Timeline = append(view.Timeline, TimelineEntry{
			Status:    FormatStatus(fallback(h.Status, "N/A")),
			Remarks:   h.Remarks,
			UpdatedAt: h.UpdatedAt,
		})
	}

	for _, cm := range r.Comments {
		author := ""
		email := ""
		if cm.Author != nil {
			author = cm.Author.Name
			email = cm.Author.Email
		}
		if author == "" && r.Project != nil {
			author = r.Project.Customer
		}
		if author == "" {
			author = "Unknown user"
		}
		html, err := c.render.ToHTMLSanitized(cm.Remarks)
		if err != nil {
			c.log.Warnw("remark rendering failed", "error", err)
			html = ""
		}
		view.Comments = append(view.Comments, CommentView{
			Author:      author,
			Email:       email,
			Initials:    Initials(author),
			Remarks:     cm.Remarks,
			RemarksHTML: html,
			UpdatedAt:   cm.UpdatedAt,
		})
	}

	for _, a := range r.CombinedAttachments() {
		author := ""
		if a.Author != nil {
			author = a.Author.Name
		}
		view.Attachments = append(view.Attachments, AttachmentView{
			Name:      fallback(a.Name, "Attachment"),
			URL:       a.URL,
			IsImage:   IsImageURL(a.URL),
			Author:    author,
			UpdatedAt: a.UpdatedAt,
		})
	}

	return view
}

// fallback substitutes alt for an empty string.
func fallback(s, alt string) string {
	if s == "" {
		return alt
	}
	return s
}

// FormatStatus title-cases a backend status string ("in progress" ->
// "In Progress").
func FormatStatus(s string) string {
	if s == "" || s == ticket.StatusUnavailable {
		return ticket.StatusUnavailable
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// Initials derives an avatar abbreviation: "Rahul Odd" -> "RO".
func Initials(name string) string {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "NA"
	}
	if len(parts) == 1 {
		r := []rune(parts[0])
		if len(r) == 1 {
			return strings.ToUpper(string(r))
		}
		return strings.ToUpper(string(r[:2]))
	}
	first := []rune(parts[0])
	last := []rune(parts[len(parts)-1])
	return strings.ToUpper(string(first[:1]) + string(last[:1]))
}

var imageExtRe = regexp.MustCompile(`(?i)\.(png|jpe?g|webp|gif)$`)

// IsImageURL reports whether a URL points at a renderable image.
func IsImageURL(url string) bool {
	if url == "" {
		return false
	}
	clean, _, _ := strings.Cut(url, "?")
	return imageExtRe.MatchString(clean)
}
