package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/models"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
	"github.com/noah-isme/feedback-api/pkg/response"
)

type facultyService interface {
	List(ctx context.Context, viewer models.Identity, query dto.FacultyListQuery) ([]models.Faculty, *models.Pagination, error)
	Get(ctx context.Context, viewer models.Identity, id string) (*models.Faculty, error)
	Create(ctx context.Context, viewer models.Identity, req dto.CreateFacultyRequest) (*models.Faculty, error)
	Deactivate(ctx context.Context, viewer models.Identity, id string) error
}

// FacultyHandler manages faculty records.
type FacultyHandler struct {
	service facultyService
}

// NewFacultyHandler constructs the handler.
func NewFacultyHandler(service facultyService) *FacultyHandler {
	return &FacultyHandler{service: service}
}

// List godoc
// @Summary List faculty
// @Tags Faculty
// @Produce json
// @Param college query string false "College"
// @Param department query string false "Department"
// @Param search query string false "Name or code search"
// @Param active query bool false "Only active faculty"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	var query dto.FacultyListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	faculty, pagination, err := h.service.List(c.Request.Context(), viewer, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, pagination)
}

// Get godoc
// @Summary Get a faculty member
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	faculty, err := h.service.Get(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Create godoc
// @Summary Register a faculty member
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body dto.CreateFacultyRequest true "Faculty payload"
// @Success 201 {object} response.Envelope
// @Router /faculty [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload"))
		return
	}
	faculty, err := h.service.Create(c.Request.Context(), viewer, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty)
}

// Delete godoc
// @Summary Deactivate a faculty member
// @Tags Faculty
// @Param id path string true "Faculty ID"
// @Success 204
// @Router /faculty/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), viewer, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
