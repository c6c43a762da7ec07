package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/pkg/database"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

const ratingRecordColumns = `r.submission_id, s.batch_id, r.faculty_id, r.parameter, r.rating, s.slot, s.submitted_at, s.comment`

const ratingRecordJoin = `FROM feedback_ratings r JOIN feedback_submissions s ON s.id = r.submission_id`

// FeedbackRepository is the append-only store for submissions and their ratings.
type FeedbackRepository struct {
	db     *sqlx.DB
	policy database.RetryPolicy
	logger *zap.Logger
}

// NewFeedbackRepository constructs the repository. Writes are retried on
// transient database failures according to policy.
func NewFeedbackRepository(db *sqlx.DB, policy database.RetryPolicy, logger *zap.Logger) *FeedbackRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackRepository{db: db, policy: policy, logger: logger}
}

// CreateSubmission persists a submission and all of its ratings atomically.
func (r *FeedbackRepository) CreateSubmission(ctx context.Context, submission *models.Submission, ratings []models.Rating) (string, error) {
	if len(ratings) == 0 {
		return "", appErrors.Clone(appErrors.ErrConstraintViolation, "submission has no ratings")
	}
	for _, rating := range ratings {
		if !models.IsValidParameter(rating.Parameter) || !models.IsValidRating(rating.Value) {
			r.logger.Error("rating reached store unvalidated",
				zap.String("parameter", rating.Parameter),
				zap.Int("value", rating.Value),
			)
			return "", appErrors.Clone(appErrors.ErrConstraintViolation, "rating outside the accepted range")
		}
	}

	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}
	for i := range ratings {
		if ratings[i].ID == "" {
			ratings[i].ID = uuid.NewString()
		}
		ratings[i].SubmissionID = submission.ID
	}

	err := database.WithTx(ctx, r.db, r.policy, func(tx *sqlx.Tx) error {
		const insertSubmission = `INSERT INTO feedback_submissions (id, batch_id, slot, comment, source_tag, submitted_at)
			VALUES (:id, :batch_id, :slot, :comment, :source_tag, :submitted_at)`
		if _, err := tx.NamedExecContext(ctx, insertSubmission, submission); err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}

		const insertRating = `INSERT INTO feedback_ratings (id, submission_id, faculty_id, parameter, rating)
			VALUES (:id, :submission_id, :faculty_id, :parameter, :rating)`
		if _, err := tx.NamedExecContext(ctx, insertRating, ratings); err != nil {
			return fmt.Errorf("insert ratings: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", r.classify(err)
	}
	return submission.ID, nil
}

func (r *FeedbackRepository) classify(err error) error {
	switch {
	case database.IsConstraintViolation(err):
		r.logger.Error("feedback constraint violation", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrConstraintViolation.Code, appErrors.ErrConstraintViolation.Status, appErrors.ErrConstraintViolation.Message)
	case errors.Is(err, database.ErrRetriesExhausted), database.IsTransient(err):
		r.logger.Warn("feedback store unavailable", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, appErrors.ErrStorageUnavailable.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}
}

// RatingsForFaculty returns every rating a faculty member has received.
func (r *FeedbackRepository) RatingsForFaculty(ctx context.Context, facultyID string) ([]models.RatingRecord, error) {
	query := "SELECT " + ratingRecordColumns + " " + ratingRecordJoin + " WHERE r.faculty_id = $1 ORDER BY s.submitted_at ASC, r.id ASC"
	var records []models.RatingRecord
	if err := r.db.SelectContext(ctx, &records, query, facultyID); err != nil {
		return nil, fmt.Errorf("ratings for faculty: %w", err)
	}
	return records, nil
}

// RatingsForFaculties returns ratings for several faculty members keyed by faculty id.
func (r *FeedbackRepository) RatingsForFaculties(ctx context.Context, facultyIDs []string) (map[string][]models.RatingRecord, error) {
	out := make(map[string][]models.RatingRecord, len(facultyIDs))
	if len(facultyIDs) == 0 {
		return out, nil
	}
	query := "SELECT " + ratingRecordColumns + " " + ratingRecordJoin + " WHERE r.faculty_id = ANY($1) ORDER BY s.submitted_at ASC, r.id ASC"
	var records []models.RatingRecord
	if err := r.db.SelectContext(ctx, &records, query, pq.Array(facultyIDs)); err != nil {
		return nil, fmt.Errorf("ratings for faculties: %w", err)
	}
	for _, rec := range records {
		out[rec.FacultyID] = append(out[rec.FacultyID], rec)
	}
	return out, nil
}

// RatingsForBatch returns the batch's ratings grouped by faculty in order of first appearance.
func (r *FeedbackRepository) RatingsForBatch(ctx context.Context, batchID string) ([]models.FacultyRatingGroup, error) {
	query := "SELECT " + ratingRecordColumns + " " + ratingRecordJoin + " WHERE s.batch_id = $1 ORDER BY s.submitted_at ASC, r.id ASC"
	var records []models.RatingRecord
	if err := r.db.SelectContext(ctx, &records, query, batchID); err != nil {
		return nil, fmt.Errorf("ratings for batch: %w", err)
	}

	index := make(map[string]int)
	groups := make([]models.FacultyRatingGroup, 0)
	for _, rec := range records {
		i, ok := index[rec.FacultyID]
		if !ok {
			i = len(groups)
			index[rec.FacultyID] = i
			groups = append(groups, models.FacultyRatingGroup{FacultyID: rec.FacultyID})
		}
		groups[i].Ratings = append(groups[i].Ratings, rec)
	}
	return groups, nil
}

// CountSubmissionsByBatch returns the number of distinct submissions for a batch.
func (r *FeedbackRepository) CountSubmissionsByBatch(ctx context.Context, batchID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM feedback_submissions WHERE batch_id = $1", batchID); err != nil {
		return 0, fmt.Errorf("count batch submissions: %w", err)
	}
	return count, nil
}
