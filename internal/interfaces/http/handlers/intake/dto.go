package intake

// LookupRequest asks for the projects registered against a mobile number.
type LookupRequest struct {
	Number string `json:"number" validate:"required"`
}

// SelectProjectRequest picks one project from the lookup results.
type SelectProjectRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
}

// SelectEquipmentRequest picks the affected equipment category.
type SelectEquipmentRequest struct {
	EquipmentID string `json:"equipment_id" validate:"required"`
}

// FaultRequest carries the short fault line and the optional details text.
// Emptiness is judged at submit time, so neither field is required here.
type FaultRequest struct {
	Fault   string `json:"fault"`
	Details string `json:"details"`
}

// StartRecordingRequest is the client's capability report for its recorder.
type StartRecordingRequest struct {
	Supported  bool   `json:"supported"`
	Permission string `json:"permission"`
	MIMEType   string `json:"mime_type"`
}
