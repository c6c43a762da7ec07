package dto

// CreateBatchRequest publishes a new feedback batch.
type CreateBatchRequest struct {
	College       string   `json:"college" validate:"required"`
	Department    string   `json:"department" validate:"required"`
	Branch        string   `json:"branch" validate:"required"`
	Year          string   `json:"year" validate:"required"`
	Semester      string   `json:"semester" validate:"required"`
	Section       string   `json:"section" validate:"required"`
	Slot          int      `json:"slot" validate:"required,oneof=1 2"`
	SlotLabel     string   `json:"slotLabel" validate:"omitempty,max=64"`
	SlotStartDate string   `json:"slotStartDate" validate:"required,datetime=2006-01-02"`
	SlotEndDate   string   `json:"slotEndDate" validate:"required,datetime=2006-01-02"`
	FacultyIDs    []string `json:"facultyIds" validate:"required,min=1,unique,dive,required"`
}

// BatchListQuery binds batch listing query parameters.
type BatchListQuery struct {
	College    string `form:"college"`
	Department string `form:"department"`
	ActiveOnly bool   `form:"active"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}
