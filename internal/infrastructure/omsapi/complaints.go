package omsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"

	"github.com/SlnkoEnergy/Client-O-M/internal/application/intake"
	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
)

// CreateComplaint posts the multipart complaint payload. Every binary part
// (attachments and voice notes alike) goes under the repeated "file" field.
func (c *Client) CreateComplaint(ctx context.Context, sub domain.Submission) (*intake.SubmitReceipt, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"project_id":        sub.ProjectID,
		"material":          sub.EquipmentID,
		"short_description": sub.Fault,
		"description":       sub.Details,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, errors.NewInternalError("failed to build complaint payload", err.Error())
		}
	}

	for _, part := range sub.Parts {
		fw, err := writer.CreateFormFile("file", part.FileName)
		if err != nil {
			return nil, errors.NewInternalError("failed to build complaint payload", err.Error())
		}
		if _, err := fw.Write(part.Data); err != nil {
			return nil, errors.NewInternalError("failed to build complaint payload", err.Error())
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.NewInternalError("failed to build complaint payload", err.Error())
	}

	payload, message, err := c.postMultipart(ctx, "/create-complaint", writer.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}

	ticketID := extractTicketID(payload)
	if message == "" {
		message = "Complaint submitted successfully."
	}
	c.logger.Infow("complaint submitted",
		"ticket_id", ticketID,
		"parts", len(sub.Parts),
	)
	return &intake.SubmitReceipt{TicketID: ticketID, Message: message}, nil
}

// ticketIDPayload mirrors the spots a new ticket id has been observed in,
// in priority order.
type ticketIDPayload struct {
	TicketID string           `json:"ticket_id"`
	Data     *ticketIDPayload `json:"data"`
	Ticket   *struct {
		TicketID string `json:"ticket_id"`
	} `json:"ticket"`
}

func (p *ticketIDPayload) id(depth int) string {
	if p == nil || depth > 3 {
		return ""
	}
	if p.TicketID != "" {
		return p.TicketID
	}
	if id := p.Data.id(depth + 1); id != "" {
		return id
	}
	if p.Ticket != nil {
		return p.Ticket.TicketID
	}
	return ""
}

func extractTicketID(payload json.RawMessage) string {
	var p ticketIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return ""
	}
	return p.id(0)
}
