package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/internal/service"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
	"github.com/noah-isme/feedback-api/pkg/response"
)

type reportJobService interface {
	CreateJob(ctx context.Context, req dto.ReportRequest, viewer models.Identity) (*dto.ReportJobResponse, error)
	GetStatus(ctx context.Context, id string, viewer models.Identity) (*dto.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

type reportRenderer interface {
	Render(ctx context.Context, viewer models.Identity, reportType models.ReportType, subjectID string, format models.ReportFormat) (*service.RenderedReport, error)
}

type ratingsSource interface {
	FacultyRatings(ctx context.Context, viewer models.Identity, facultyID string) ([]models.RatingRecord, error)
}

// ReportHandler exposes report downloads and background export jobs.
type ReportHandler struct {
	jobs     reportJobService
	renderer reportRenderer
	ratings  ratingsSource
}

// NewReportHandler constructs handler.
func NewReportHandler(jobs reportJobService, renderer reportRenderer, ratings ratingsSource) *ReportHandler {
	return &ReportHandler{jobs: jobs, renderer: renderer, ratings: ratings}
}

// FacultyReport godoc
// @Summary Download a faculty feedback report
// @Tags Reports
// @Produce octet-stream
// @Param id path string true "Faculty ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /reports/faculty/{id} [get]
func (h *ReportHandler) FacultyReport(c *gin.Context) {
	h.render(c, models.ReportTypeFaculty)
}

// BatchReport godoc
// @Summary Download a batch feedback report
// @Tags Reports
// @Produce octet-stream
// @Param id path string true "Batch ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /reports/batches/{id} [get]
func (h *ReportHandler) BatchReport(c *gin.Context) {
	h.render(c, models.ReportTypeBatch)
}

// FacultyData godoc
// @Summary Raw rating records for a faculty member
// @Tags Reports
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /reports/faculty/{id}/data [get]
func (h *ReportHandler) FacultyData(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	records, err := h.ratings.FacultyRatings(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{"count": len(records)})
}

// CreateJob godoc
// @Summary Queue a report for background generation
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Report request"
// @Success 202 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) CreateJob(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload"))
		return
	}
	job, err := h.jobs.CreateJob(c.Request.Context(), req, viewer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// JobStatus godoc
// @Summary Report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) JobStatus(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	status, err := h.jobs.GetStatus(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a generated report via signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	download, err := h.jobs.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), download.ContentType, download.File, nil)
}

func (h *ReportHandler) render(c *gin.Context, reportType models.ReportType) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	format := models.ReportFormat(strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(models.ReportFormatCSV)))))
	report, err := h.renderer.Render(c.Request.Context(), viewer, reportType, c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, report.Filename, report.ContentType, report.Body)
}
