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

type feedbackService interface {
	Submit(ctx context.Context, req dto.SubmitFeedbackRequest, clientAddr string) (*models.SubmissionReceipt, error)
	CountForBatch(ctx context.Context, batchID string) (*models.BatchFeedbackCount, error)
}

type publicBatchService interface {
	Public(ctx context.Context, id string) (*models.BatchSummary, error)
}

// FeedbackHandler serves the anonymous feedback form endpoints.
type FeedbackHandler struct {
	feedback feedbackService
	batches  publicBatchService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(feedback feedbackService, batches publicBatchService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, batches: batches}
}

// Submit godoc
// @Summary Submit anonymous feedback for a batch
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body dto.SubmitFeedbackRequest true "Feedback form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /feedback/submit [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload"))
		return
	}
	receipt, err := h.feedback.Submit(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		if appErrors.Retryable(err) {
			c.Header("Retry-After", "1")
		}
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// BatchCount godoc
// @Summary Count distinct submissions for a batch
// @Tags Feedback
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /feedback/batches/{id}/count [get]
func (h *FeedbackHandler) BatchCount(c *gin.Context) {
	count, err := h.feedback.CountForBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}

// PublicBatch godoc
// @Summary Active batch details for the feedback form
// @Tags Feedback
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/public [get]
func (h *FeedbackHandler) PublicBatch(c *gin.Context) {
	summary, err := h.batches.Public(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
