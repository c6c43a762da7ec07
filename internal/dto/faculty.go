package dto

// CreateFacultyRequest registers a faculty member.
type CreateFacultyRequest struct {
	Code       string `json:"code" validate:"required,max=32"`
	Name       string `json:"name" validate:"required,max=128"`
	Subject    string `json:"subject" validate:"omitempty,max=128"`
	College    string `json:"college" validate:"required"`
	Department string `json:"department" validate:"required"`
	Branch     string `json:"branch" validate:"omitempty"`
	Year       string `json:"year" validate:"omitempty"`
	Semester   string `json:"semester" validate:"omitempty"`
	Section    string `json:"section" validate:"omitempty"`
}

// FacultyListQuery binds faculty listing query parameters.
type FacultyListQuery struct {
	College    string `form:"college"`
	Department string `form:"department"`
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}
