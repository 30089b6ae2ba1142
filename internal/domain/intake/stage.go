package intake

// Stage identifies how far a complaint draft has progressed. The stage is
// derived from the data the controller holds, never stored independently,
// so impossible combinations (equipment chosen with no project selected)
// cannot be represented.
type Stage string

const (
	StageEmpty           Stage = "empty"
	StageProjectsListed  Stage = "projects_listed"
	StageProjectSelected Stage = "project_selected"
	StageReady           Stage = "ready"
	StageSubmitting      Stage = "submitting"
	StageDone            Stage = "done"
)

// ProjectSummary is one project registered against a caller's phone number.
// One number may resolve to several projects; ordering follows the lookup
// response with no implied ranking.
type ProjectSummary struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// DisplayName prefers the project name, falling back to its code.
func (p ProjectSummary) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Code != "" {
		return p.Code
	}
	return "Unnamed Project"
}

// ProjectDetail carries the site fields shown once a project is selected.
type ProjectDetail struct {
	SitePersonName string `json:"site_person_name"`
	SiteLocation   string `json:"site_location"`
	SiteAddress    string `json:"site_address"`
}

// EquipmentOption is one entry of the equipment/material catalog.
type EquipmentOption struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
