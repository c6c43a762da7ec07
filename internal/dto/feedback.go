package dto

// SubmitFeedbackRequest is the anonymous feedback form payload.
type SubmitFeedbackRequest struct {
	BatchID   string            `json:"batchId" validate:"required,max=128"`
	Responses []FacultyResponse `json:"responses" validate:"dive"`
	Comments  *string           `json:"comments,omitempty"`
}

// FacultyResponse carries one faculty member's ratings keyed by parameter name.
type FacultyResponse struct {
	FacultyID string         `json:"facultyId" validate:"required"`
	Ratings   map[string]int `json:"ratings"`
}
