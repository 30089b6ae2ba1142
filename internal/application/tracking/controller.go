// Package tracking implements the ticket-status lookup flow controller:
// search by ticket number or phone, multi-result disambiguation, and the
// detail view with status timeline, comments, and attachments.
package tracking

import (
	"context"
	"strings"
	"sync"

	"github.com/SlnkoEnergy/Client-O-M/internal/domain/ticket"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
)

// TicketDirectory resolves tickets by ticket code or registered phone
// number.
type TicketDirectory interface {
	TicketsByIdentifier(ctx context.Context, raw string) ([]ticket.Record, error)
}

// Controller drives one user's ticket lookup. A selection index of -1
// means "no record chosen"; with exactly one result it is auto-set to 0.
type Controller struct {
	directory TicketDirectory
	render    RemarkRenderer
	log       logger.Interface

	mu sync.Mutex

	query            string
	results          []ticket.Record
	selected         int
	attachmentsShown bool
}

// RemarkRenderer turns remark/comment text into sanitized display HTML.
type RemarkRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

// NewController wires a lookup controller.
func NewController(directory TicketDirectory, render RemarkRenderer, log logger.Interface) *Controller {
	return &Controller{
		directory: directory,
		render:    render,
		log:       log,
		selected:  -1,
	}
}

// Search looks up tickets for the trimmed query. Zero matches surface a
// not-found error with the (empty) result set retained; exactly one match
// auto-selects it; several matches leave selection open for the
// disambiguation list.
func (c *Controller) Search(ctx context.Context, query string) error {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return errors.NewValidationError("Please enter your Ticket Number or Phone Number.")
	}

	c.mu.Lock()
	c.selected = -1
	c.attachmentsShown = false
	c.mu.Unlock()

	records, err := c.directory.TicketsByIdentifier(ctx, raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warnw("ticket lookup failed", "error", err)
		c.results = nil
		c.query = raw
		if appErr := errors.GetAppError(err); appErr != nil {
			return appErr
		}
		return errors.NewRemoteError("Failed to fetch ticket details.", err.Error())
	}

	c.query = raw
	c.results = records
	if len(records) == 0 {
		return errors.NewNotFoundError("No matching tickets found.")
	}
	if len(records) == 1 {
		c.selected = 0
	}
	return nil
}

// SelectResult opens the detail view for one result. The attachments
// toggle is collapsed again because its expanded state is scoped to a
// single ticket.
func (c *Controller) SelectResult(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.results) {
		return errors.NewValidationError("result index out of range")
	}
	c.selected = index
	c.attachmentsShown = false
	return nil
}

// Deselect returns from a detail view to the disambiguation list.
func (c *Controller) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = -1
	c.attachmentsShown = false
}

// ToggleAttachments flips the attachments panel for the selected ticket
// and reports the new state.
func (c *Controller) ToggleAttachments() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 {
		return false, errors.NewValidationError("no ticket selected")
	}
	c.attachmentsShown = !c.attachmentsShown
	return c.attachmentsShown, nil
}

// Clear discards results, selection, and query text.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = ""
	c.results = nil
	c.selected = -1
	c.attachmentsShown = false
}
