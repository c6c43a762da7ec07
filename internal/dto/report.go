package dto

import "github.com/noah-isme/feedback-api/internal/models"

// ReportRequest captures the POST /reports payload.
type ReportRequest struct {
	Type      models.ReportType   `json:"type" validate:"required,oneof=faculty batch"`
	SubjectID string              `json:"subjectId" validate:"required"`
	Format    models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ReportType   `json:"type"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
