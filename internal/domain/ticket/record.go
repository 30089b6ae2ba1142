// Package ticket holds the read-side domain types for service tickets
// fetched from the O&M backend, plus the presentation rules for status
// history and attachments.
package ticket

import (
	"encoding/json"
	"time"
)

// FlexString tolerates backend fields that arrive as either a JSON string
// or a bare number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Actor is the backend user attached to a comment or attachment.
type Actor struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StatusEntry is one current-status value or status-history step.
type StatusEntry struct {
	Status    string     `json:"status"`
	Remarks   string     `json:"remarks"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Comment is one task comment on a ticket.
type Comment struct {
	ID        string     `json:"_id"`
	Remarks   string     `json:"remarks"`
	UpdatedAt *time.Time `json:"updatedAt"`
	Author    *Actor     `json:"user_id"`
}

// Attachment is one task-level attachment on a ticket.
type Attachment struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	UpdatedAt *time.Time `json:"updatedAt"`
	Author    *Actor     `json:"user_id"`
}

// ProjectRef is the embedded project reference on a ticket.
type ProjectRef struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Customer string `json:"customer"`
}

// EquipmentRef is the embedded material/equipment reference on a ticket.
type EquipmentRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Record is one ticket as returned by the backend lookup. Documents exists
// in the backend data model but is not part of the combined attachments
// view; see CombinedAttachments.
type Record struct {
	ID               string        `json:"_id"`
	TicketID         string        `json:"ticket_id"`
	Project          *ProjectRef   `json:"project_id"`
	Equipment        *EquipmentRef `json:"material"`
	Number           FlexString    `json:"number"`
	ShortDescription string        `json:"short_description"`
	Description      string        `json:"description"`
	CurrentStatus    *StatusEntry  `json:"current_status"`
	StatusHistory    []StatusEntry `json:"status_history"`
	Comments         []Comment     `json:"task_comments"`
	Attachments      []Attachment  `json:"task_attachments"`
	Documents        []Attachment  `json:"documents"`
	Deadline         *time.Time    `json:"deadline"`
	CreatedAt        *time.Time    `json:"createdAt"`
	UpdatedAt        *time.Time    `json:"updatedAt"`
}
