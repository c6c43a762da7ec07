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

type batchService interface {
	List(ctx context.Context, viewer models.Identity, query dto.BatchListQuery) ([]models.Batch, *models.Pagination, error)
	Get(ctx context.Context, viewer models.Identity, id string) (*models.Batch, error)
	Create(ctx context.Context, viewer models.Identity, req dto.CreateBatchRequest) (*models.Batch, error)
	Deactivate(ctx context.Context, viewer models.Identity, id string) error
}

// BatchHandler manages feedback batches.
type BatchHandler struct {
	service batchService
}

// NewBatchHandler constructs the handler.
func NewBatchHandler(service batchService) *BatchHandler {
	return &BatchHandler{service: service}
}

// List godoc
// @Summary List feedback batches
// @Tags Batches
// @Produce json
// @Param college query string false "College"
// @Param department query string false "Department"
// @Param active query bool false "Only active batches"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	var query dto.BatchListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	batches, pagination, err := h.service.List(c.Request.Context(), viewer, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, pagination)
}

// Get godoc
// @Summary Get a batch
// @Tags Batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	batch, err := h.service.Get(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, nil)
}

// Create godoc
// @Summary Publish a feedback batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body dto.CreateBatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload"))
		return
	}
	batch, err := h.service.Create(c.Request.Context(), viewer, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// Delete godoc
// @Summary Close a batch for new submissions
// @Tags Batches
// @Param id path string true "Batch ID"
// @Success 204
// @Router /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
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
