package models

import "time"

// Faculty is one teaching staff record scoped to a department and section.
type Faculty struct {
	ID         string    `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	Subject    string    `db:"subject" json:"subject"`
	College    string    `db:"college" json:"college"`
	Department string    `db:"department" json:"department"`
	Branch     string    `db:"branch" json:"branch"`
	Year       string    `db:"year" json:"year"`
	Semester   string    `db:"semester" json:"semester"`
	Section    string    `db:"section" json:"section"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// FacultyFilter scopes faculty listings.
type FacultyFilter struct {
	College    string
	Department string
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
}

// FacultySummary is the display subset of a faculty record.
type FacultySummary struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

// Summary returns the display subset of f.
func (f *Faculty) Summary() FacultySummary {
	return FacultySummary{ID: f.ID, Code: f.Code, Name: f.Name, Subject: f.Subject}
}
