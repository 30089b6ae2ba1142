package omsapi

import (
	"context"
	"encoding/json"

	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
)

type categoryPayload struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Categories lists the equipment/material categories complaints can be
// filed against.
func (c *Client) Categories(ctx context.Context) ([]domain.EquipmentOption, error) {
	payload, _, err := c.get(ctx, "/getAllCategories", nil)
	if err != nil {
		return nil, err
	}

	var items []categoryPayload
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, errors.NewRemoteError("unexpected category response", err.Error())
	}

	options := make([]domain.EquipmentOption, 0, len(items))
	for _, it := range items {
		options = append(options, domain.EquipmentOption{ID: it.ID, Name: it.Name})
	}
	return options, nil
}
