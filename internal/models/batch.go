package models

import "time"

// Batch is a feedback collection window for one class section and slot.
type Batch struct {
	ID            string     `db:"id" json:"batchId"`
	College       string     `db:"college" json:"college"`
	Department    string     `db:"department" json:"department"`
	Branch        string     `db:"branch" json:"branch"`
	Year          string     `db:"year" json:"year"`
	Semester      string     `db:"semester" json:"semester"`
	Section       string     `db:"section" json:"section"`
	Slot          int        `db:"slot" json:"slot"`
	SlotLabel     string     `db:"slot_label" json:"slotLabel"`
	SlotStartDate *time.Time `db:"slot_start_date" json:"slotStartDate,omitempty"`
	SlotEndDate   *time.Time `db:"slot_end_date" json:"slotEndDate,omitempty"`
	Active        bool       `db:"active" json:"active"`
	CreatedBy     string     `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`

	FacultyIDs []string `db:"-" json:"facultyIds"`
}

// BatchFilter scopes batch listings.
type BatchFilter struct {
	College    string
	Department string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// BatchSummary is the public view of a batch offered to the feedback form.
type BatchSummary struct {
	Batch
	Faculty []FacultySummary `json:"faculty"`
}

// WindowContains reports whether now falls within the slot window, compared by
// UTC calendar day with both ends inclusive. A nil bound leaves that side open.
func (b *Batch) WindowContains(now time.Time) bool {
	today := dateOf(now)
	if b.SlotStartDate != nil && today.Before(dateOf(*b.SlotStartDate)) {
		return false
	}
	if b.SlotEndDate != nil && today.After(dateOf(*b.SlotEndDate)) {
		return false
	}
	return true
}

// WindowWellFormed reports whether the end date is not before the start date.
func (b *Batch) WindowWellFormed() bool {
	if b.SlotStartDate == nil || b.SlotEndDate == nil {
		return true
	}
	return !dateOf(*b.SlotEndDate).Before(dateOf(*b.SlotStartDate))
}

// HasFaculty reports whether facultyID is assigned to the batch.
func (b *Batch) HasFaculty(facultyID string) bool {
	for _, id := range b.FacultyIDs {
		if id == facultyID {
			return true
		}
	}
	return false
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
