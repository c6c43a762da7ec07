package models

import "time"

// Submission is one anonymous response event against a batch.
type Submission struct {
	ID          string    `db:"id" json:"id"`
	BatchID     string    `db:"batch_id" json:"batchId"`
	Slot        int       `db:"slot" json:"slot"`
	Comment     *string   `db:"comment" json:"comment,omitempty"`
	SourceTag   string    `db:"source_tag" json:"-"`
	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
}

// Rating is one (faculty, parameter) score owned by a submission.
type Rating struct {
	ID           string `db:"id" json:"id"`
	SubmissionID string `db:"submission_id" json:"submissionId"`
	FacultyID    string `db:"faculty_id" json:"facultyId"`
	Parameter    string `db:"parameter" json:"parameter"`
	Value        int    `db:"rating" json:"rating"`
}

// RatingRecord is a rating joined with its submission for the read path.
type RatingRecord struct {
	SubmissionID string    `db:"submission_id" json:"submissionId"`
	BatchID      string    `db:"batch_id" json:"batchId"`
	FacultyID    string    `db:"faculty_id" json:"facultyId"`
	Parameter    string    `db:"parameter" json:"parameter"`
	Value        int       `db:"rating" json:"rating"`
	Slot         int       `db:"slot" json:"slot"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submittedAt"`
	Comment      *string   `db:"comment" json:"comment,omitempty"`
}

// FacultyRatingGroup holds one faculty's ratings within a batch.
type FacultyRatingGroup struct {
	FacultyID string         `json:"facultyId"`
	Ratings   []RatingRecord `json:"ratings"`
}

// SubmissionReceipt acknowledges an accepted submission.
type SubmissionReceipt struct {
	SubmissionID  string    `json:"submissionId"`
	BatchID       string    `json:"batchId"`
	Slot          int       `json:"slot"`
	FacultyRated  int       `json:"facultyRated"`
	RatingsStored int       `json:"ratingsStored"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// BatchFeedbackCount reports distinct submissions received by a batch.
type BatchFeedbackCount struct {
	BatchID string `json:"batchId"`
	Count   int    `json:"count"`
}
