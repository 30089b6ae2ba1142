package omsapi

import (
	"context"
	"encoding/json"
	"net/url"

	domain "github.com/SlnkoEnergy/Client-O-M/internal/domain/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
)

type projectSummaryPayload struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// flexAddress tolerates site_address arriving as either a plain string or
// an object carrying district_name.
type flexAddress string

func (a *flexAddress) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = flexAddress(s)
		return nil
	}
	var obj struct {
		DistrictName string `json:"district_name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Unknown shape, treat as not provided.
		*a = ""
		return nil
	}
	*a = flexAddress(obj.DistrictName)
	return nil
}

type projectDetailPayload struct {
	Customer    string      `json:"customer"`
	State       string      `json:"state"`
	SiteAddress flexAddress `json:"site_address"`
}

// ProjectsByPhone lists the projects registered against a phone number.
func (c *Client) ProjectsByPhone(ctx context.Context, number string) ([]domain.ProjectSummary, error) {
	query := url.Values{"number": {number}}
	payload, _, err := c.get(ctx, "/projectByNo", query)
	if err != nil {
		return nil, err
	}

	var items []projectSummaryPayload
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, errors.NewRemoteError("unexpected project lookup response", err.Error())
	}

	projects := make([]domain.ProjectSummary, 0, len(items))
	for _, it := range items {
		projects = append(projects, domain.ProjectSummary{
			ID:   it.ID,
			Name: it.Name,
			Code: it.Code,
		})
	}
	return projects, nil
}

// ProjectByID fetches the site detail for one project.
func (c *Client) ProjectByID(ctx context.Context, id string) (*domain.ProjectDetail, error) {
	query := url.Values{"_id": {id}}
	payload, _, err := c.get(ctx, "/get-projectById/"+url.PathEscape(id), query)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 || string(payload) == "null" {
		return nil, errors.NewNotFoundError("No project details found for this ID.")
	}

	var detail projectDetailPayload
	if err := json.Unmarshal(payload, &detail); err != nil {
		return nil, errors.NewRemoteError("unexpected project detail response", err.Error())
	}

	address := string(detail.SiteAddress)
	if address == "" {
		address = "N/A"
	}
	return &domain.ProjectDetail{
		SitePersonName: detail.Customer,
		SiteLocation:   detail.State,
		SiteAddress:    address,
	}, nil
}
