package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/pkg/cache"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

type feedbackStore interface {
	CreateSubmission(ctx context.Context, submission *models.Submission, ratings []models.Rating) (string, error)
	CountSubmissionsByBatch(ctx context.Context, batchID string) (int, error)
}

type attemptCounter interface {
	Enabled() bool
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

type statsInvalidator interface {
	InvalidateForSubmission(ctx context.Context, batchID string, facultyIDs []string)
}

// FeedbackConfig tunes the submission flow.
type FeedbackConfig struct {
	CommentMaxLength int
	RateLimit        int
	RateLimitWindow  time.Duration
}

// FeedbackService accepts anonymous submissions.
type FeedbackService struct {
	store       feedbackStore
	checker     *SubmissionValidator
	attempts    attemptCounter
	tagger      *SourceTagger
	invalidator statsInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	config      FeedbackConfig
	now         func() time.Time
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(
	store feedbackStore,
	checker *SubmissionValidator,
	attempts attemptCounter,
	tagger *SourceTagger,
	invalidator statsInvalidator,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg FeedbackConfig,
) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CommentMaxLength <= 0 {
		cfg.CommentMaxLength = 2000
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Hour
	}
	return &FeedbackService{
		store:       store,
		checker:     checker,
		attempts:    attempts,
		tagger:      tagger,
		invalidator: invalidator,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		config:      cfg,
		now:         time.Now,
	}
}

// Submit validates and stores one anonymous submission. clientAddr is only
// used to derive the source tag and is never persisted or logged.
func (s *FeedbackService) Submit(ctx context.Context, req dto.SubmitFeedbackRequest, clientAddr string) (*models.SubmissionReceipt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.reject(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload"))
	}

	tag := ""
	if s.tagger != nil {
		tag = s.tagger.Tag(clientAddr)
	}
	if err := s.checkRate(ctx, tag); err != nil {
		return nil, s.reject(err)
	}

	validated, err := s.checker.Validate(ctx, req)
	if err != nil {
		return nil, s.reject(err)
	}

	submission := &models.Submission{
		BatchID:     validated.Batch.ID,
		Slot:        validated.Batch.Slot,
		Comment:     SanitizeComment(req.Comments, s.config.CommentMaxLength),
		SourceTag:   tag,
		SubmittedAt: s.now().UTC(),
	}
	id, err := s.store.CreateSubmission(ctx, submission, validated.Ratings)
	if err != nil {
		return nil, s.reject(err)
	}

	s.metrics.RecordSubmission(len(validated.Ratings))
	if s.invalidator != nil {
		s.invalidator.InvalidateForSubmission(ctx, validated.Batch.ID, validated.FacultyIDs)
	}
	if len(validated.DroppedFaculty) > 0 {
		s.logger.Info("dropped unknown faculty from submission",
			zap.String("batch_id", validated.Batch.ID),
			zap.Int("dropped", len(validated.DroppedFaculty)),
		)
	}

	return &models.SubmissionReceipt{
		SubmissionID:  id,
		BatchID:       validated.Batch.ID,
		Slot:          validated.Batch.Slot,
		FacultyRated:  len(validated.FacultyIDs),
		RatingsStored: len(validated.Ratings),
		SubmittedAt:   submission.SubmittedAt,
	}, nil
}

// CountForBatch returns the number of distinct submissions a batch received.
func (s *FeedbackService) CountForBatch(ctx context.Context, batchID string) (*models.BatchFeedbackCount, error) {
	count, err := s.store.CountSubmissionsByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count submissions")
	}
	return &models.BatchFeedbackCount{BatchID: batchID, Count: count}, nil
}

// checkRate fails open: an unavailable counter never blocks a submission.
func (s *FeedbackService) checkRate(ctx context.Context, tag string) error {
	if tag == "" || s.config.RateLimit <= 0 || s.attempts == nil || !s.attempts.Enabled() {
		return nil
	}
	count, err := s.attempts.Increment(ctx, cache.Key("attempts", tag), s.config.RateLimitWindow)
	if err != nil {
		s.logger.Warn("submission attempt counter unavailable", zap.Error(err))
		return nil
	}
	if count > int64(s.config.RateLimit) {
		return appErrors.ErrRateLimited
	}
	return nil
}

func (s *FeedbackService) reject(err error) error {
	appErr := appErrors.FromError(err)
	s.metrics.RecordRejection(appErr.Code)
	switch {
	case errors.Is(err, appErrors.ErrConstraintViolation), errors.Is(err, appErrors.ErrInternal):
		s.logger.Error("feedback submission failed", zap.String("reason", appErr.Code), zap.Error(err))
	default:
		s.logger.Info("feedback submission rejected", zap.String("reason", appErr.Code))
	}
	return err
}
