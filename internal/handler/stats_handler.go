package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/middleware"
	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/internal/service"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
	"github.com/noah-isme/feedback-api/pkg/response"
)

type statisticsService interface {
	FacultyStats(ctx context.Context, viewer models.Identity, facultyID string) (*models.FacultyStatistics, error)
	SlotComparison(ctx context.Context, viewer models.Identity, facultyID string) (*models.SlotComparison, error)
	BatchStats(ctx context.Context, viewer models.Identity, batchID string) (*models.BatchStatistics, error)
	DepartmentRollup(ctx context.Context, viewer models.Identity, college, department string) (*models.DepartmentRollup, error)
	FacultyAnalytics(ctx context.Context, viewer models.Identity, college, department string) ([]models.FacultyAnalytics, error)
	Overview(ctx context.Context, viewer models.Identity, college, department string) (*models.StatisticsOverview, error)
}

// emptyStatistics is returned in place of numbers when nothing was rated yet.
type emptyStatistics struct {
	FacultyID string `json:"facultyId"`
	NoData    bool   `json:"noData"`
	Message   string `json:"message"`
}

// StatsHandler exposes the statistics read endpoints.
type StatsHandler struct {
	service statisticsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(service statisticsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Faculty godoc
// @Summary Per-slot statistics for a faculty member
// @Tags Statistics
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /stats/faculty/{id} [get]
func (h *StatsHandler) Faculty(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	stats, err := h.service.FacultyStats(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		h.respondStatsError(c, c.Param("id"), err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, withMeta(c))
}

// Comparison godoc
// @Summary Slot 1 versus slot 2 comparison for a faculty member
// @Description Missing slots read as zero averages with zero improvement.
// @Tags Statistics
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /stats/faculty/{id}/comparison [get]
func (h *StatsHandler) Comparison(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	comparison, err := h.service.SlotComparison(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comparison, nil, withMeta(c))
}

// Batch godoc
// @Summary Statistics for every faculty member of a batch
// @Tags Statistics
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /stats/batches/{id} [get]
func (h *StatsHandler) Batch(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	stats, err := h.service.BatchStats(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, withMeta(c))
}

// Department godoc
// @Summary Department rollup with the top rated faculty
// @Tags Statistics
// @Produce json
// @Param college query string false "College (admins only)"
// @Param department query string false "Department (admins only)"
// @Success 200 {object} response.Envelope
// @Router /stats/departments [get]
func (h *StatsHandler) Department(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	var query dto.DepartmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	rollup, err := h.service.DepartmentRollup(c.Request.Context(), viewer, strings.TrimSpace(query.College), strings.TrimSpace(query.Department))
	if err != nil {
		response.Error(c, err)
		return
	}
	if rollup.FacultyWithData == 0 {
		middleware.SetNoData(c)
	}
	response.JSON(c, http.StatusOK, rollup, nil, withMeta(c))
}

// Analytics godoc
// @Summary Faculty ranked by satisfaction with slot averages
// @Tags Statistics
// @Produce json
// @Param college query string false "College filter"
// @Param department query string false "Department filter"
// @Success 200 {object} response.Envelope
// @Router /stats/analytics [get]
func (h *StatsHandler) Analytics(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	var query dto.DepartmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	items, err := h.service.FacultyAnalytics(c.Request.Context(), viewer, strings.TrimSpace(query.College), strings.TrimSpace(query.Department))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil, withMeta(c))
}

// Overview godoc
// @Summary Dashboard totals with college and department breakdowns
// @Tags Statistics
// @Produce json
// @Param college query string false "College (admins only)"
// @Param department query string false "Department (admins only)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	var query dto.DepartmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	overview, err := h.service.Overview(c.Request.Context(), viewer, strings.TrimSpace(query.College), strings.TrimSpace(query.Department))
	if err != nil {
		response.Error(c, err)
		return
	}
	if overview.Totals.FacultyWithData == 0 {
		middleware.SetNoData(c)
	}
	response.JSON(c, http.StatusOK, overview, nil, withMeta(c))
}

func (h *StatsHandler) respondStatsError(c *gin.Context, facultyID string, err error) {
	if !errors.Is(err, service.ErrNoData) {
		response.Error(c, err)
		return
	}
	middleware.SetNoData(c)
	response.JSON(c, http.StatusOK, emptyStatistics{
		FacultyID: facultyID,
		NoData:    true,
		Message:   "No feedback has been recorded for this faculty member yet.",
	}, nil, withMeta(c))
}
