package omsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/SlnkoEnergy/Client-O-M/internal/domain/ticket"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
)

// TicketsByIdentifier looks up tickets by ticket number or phone number.
// A non-array payload is treated as no results, matching how the backend
// answers unknown identifiers.
func (c *Client) TicketsByIdentifier(ctx context.Context, raw string) ([]ticket.Record, error) {
	query := url.Values{"raw": {raw}}
	payload, _, err := c.get(ctx, "/getTicketByNo", query)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}

	var records []ticket.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, errors.NewRemoteError("unexpected ticket lookup response", err.Error())
	}
	return records, nil
}
