package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/pkg/database"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

func newFeedbackRepoMock(t *testing.T, attempts int) (*FeedbackRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo := NewFeedbackRepository(sqlx.NewDb(db, "sqlmock"), database.RetryPolicy{Attempts: attempts}, nil)
	return repo, mock, func() { db.Close() }
}

func sampleRatings() []models.Rating {
	return []models.Rating{
		{FacultyID: "f1", Parameter: "Knowledge of the subject", Value: 8},
		{FacultyID: "f1", Parameter: "Coverage of syllabus", Value: 6},
	}
}

func TestFeedbackRepositoryCreateSubmission(t *testing.T) {
	repo, mock, cleanup := newFeedbackRepoMock(t, 3)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO feedback_submissions").
		WithArgs(sqlmock.AnyArg(), "b1", 1, nil, "tag", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO feedback_ratings").
		WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectCommit()

	sub := &models.Submission{BatchID: "b1", Slot: 1, SourceTag: "tag"}
	ratings := sampleRatings()
	id, err := repo.CreateSubmission(context.Background(), sub, ratings)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	for _, r := range ratings {
		assert.Equal(t, id, r.SubmissionID)
		assert.NotEmpty(t, r.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryRetriesTransientFailure(t *testing.T) {
	repo, mock, cleanup := newFeedbackRepoMock(t, 2)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO feedback_submissions").WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO feedback_submissions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO feedback_ratings").WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectCommit()

	_, err := repo.CreateSubmission(context.Background(), &models.Submission{BatchID: "b1", Slot: 1}, sampleRatings())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryStorageUnavailable(t *testing.T) {
	repo, mock, cleanup := newFeedbackRepoMock(t, 1)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO feedback_submissions").WillReturnError(&pq.Error{Code: "08006"})
	mock.ExpectRollback()

	_, err := repo.CreateSubmission(context.Background(), &models.Submission{BatchID: "b1", Slot: 1}, sampleRatings())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStorageUnavailable))
	assert.True(t, appErrors.Retryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryConstraintViolationRollsBack(t *testing.T) {
	repo, mock, cleanup := newFeedbackRepoMock(t, 3)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO feedback_submissions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO feedback_ratings").WillReturnError(&pq.Error{Code: "23514"})
	mock.ExpectRollback()

	_, err := repo.CreateSubmission(context.Background(), &models.Submission{BatchID: "b1", Slot: 1}, sampleRatings())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConstraintViolation))
	assert.False(t, appErrors.Retryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryRejectsOutOfRangeBeforeWriting(t *testing.T) {
	repo, mock, cleanup := newFeedbackRepoMock(t, 3)
	defer cleanup()

	ratings := []models.Rating{{FacultyID: "f1", Parameter: "Knowledge of the subject", Value: 11}}
	_, err := repo.CreateSubmission(context.Background(), &models.Submission{BatchID: "b1", Slot: 1}, ratings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConstraintViolation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func ratingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"submission_id", "batch_id", "faculty_id", "parameter", "rating", "slot", "submitted_at", "comment"})
}

func TestFeedbackRepositoryRatingsForBatchGroupsByFaculty(t *testing.T) {
	repo, mock, cleanup := newFeedbackRepoMock(t, 1)
	defer cleanup()

	now := time.Now()
	rows := ratingRows().
		AddRow("s1", "b1", "f2", "Knowledge of the subject", 10, 1, now, nil).
		AddRow("s1", "b1", "f1", "Knowledge of the subject", 8, 1, now, nil).
		AddRow("s2", "b1", "f2", "Knowledge of the subject", 6, 1, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM feedback_ratings r JOIN feedback_submissions s ON s.id = r.submission_id WHERE s.batch_id = $1")).
		WithArgs("b1").
		WillReturnRows(rows)

	groups, err := repo.RatingsForBatch(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "f2", groups[0].FacultyID)
	assert.Len(t, groups[0].Ratings, 2)
	assert.Equal(t, "f1", groups[1].FacultyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryRatingsForFaculties(t *testing.T) {
	repo, mock, cleanup := newFeedbackRepoMock(t, 1)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("WHERE r.faculty_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(ratingRows().
			AddRow("s1", "b1", "f1", "Knowledge of the subject", 8, 1, now, nil).
			AddRow("s1", "b1", "f2", "Knowledge of the subject", 9, 1, now, nil))

	byFaculty, err := repo.RatingsForFaculties(context.Background(), []string{"f1", "f2", "f3"})
	require.NoError(t, err)
	assert.Len(t, byFaculty["f1"], 1)
	assert.Len(t, byFaculty["f2"], 1)
	assert.Empty(t, byFaculty["f3"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryCountSubmissionsByBatch(t *testing.T) {
	repo, mock, cleanup := newFeedbackRepoMock(t, 1)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM feedback_submissions WHERE batch_id = $1")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountSubmissionsByBatch(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
