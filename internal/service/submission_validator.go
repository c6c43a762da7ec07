package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/models"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

type validatorBatchReader interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
}

type validatorFacultyReader interface {
	ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
}

// ValidatedSubmission is a submission that passed every business rule and may
// be handed to the store as is.
type ValidatedSubmission struct {
	Batch          *models.Batch
	Ratings        []models.Rating
	FacultyIDs     []string
	DroppedFaculty []string
}

// SubmissionValidator enforces the business rules of an anonymous submission.
// It only reads; nothing is written on any path.
type SubmissionValidator struct {
	batches       validatorBatchReader
	faculty       validatorFacultyReader
	enforceWindow bool
	now           func() time.Time
}

// NewSubmissionValidator constructs a validator. A nil clock defaults to time.Now.
func NewSubmissionValidator(batches validatorBatchReader, faculty validatorFacultyReader, enforceWindow bool, now func() time.Time) *SubmissionValidator {
	if now == nil {
		now = time.Now
	}
	return &SubmissionValidator{batches: batches, faculty: faculty, enforceWindow: enforceWindow, now: now}
}

// Validate runs the checks in order and stops at the first failure:
// batch, window, emptiness, faculty membership, ratings.
func (v *SubmissionValidator) Validate(ctx context.Context, req dto.SubmitFeedbackRequest) (*ValidatedSubmission, error) {
	batch, err := v.batches.FindByID(ctx, req.BatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrBatchNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if !batch.Active {
		return nil, appErrors.ErrBatchNotFound
	}

	if v.enforceWindow && !batch.WindowContains(v.now()) {
		return nil, appErrors.WithDetails(appErrors.ErrWindowClosed, windowDetails(batch))
	}

	if !hasAnyRating(req.Responses) {
		return nil, appErrors.ErrEmptyResponse
	}

	ids := make([]string, 0, len(req.Responses))
	seen := make(map[string]struct{}, len(req.Responses))
	for _, resp := range req.Responses {
		if _, dup := seen[resp.FacultyID]; dup {
			return nil, appErrors.WithDetails(
				appErrors.Clone(appErrors.ErrValidation, "faculty rated more than once"),
				map[string]interface{}{"facultyId": resp.FacultyID},
			)
		}
		seen[resp.FacultyID] = struct{}{}
		ids = append(ids, resp.FacultyID)
	}

	known, err := v.faculty.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve faculty")
	}

	result := &ValidatedSubmission{Batch: batch}
	kept := make([]dto.FacultyResponse, 0, len(req.Responses))
	for _, resp := range req.Responses {
		if _, ok := known[resp.FacultyID]; !ok {
			result.DroppedFaculty = append(result.DroppedFaculty, resp.FacultyID)
			continue
		}
		if !batch.HasFaculty(resp.FacultyID) {
			return nil, appErrors.WithDetails(appErrors.ErrFacultyNotInBatch, map[string]interface{}{"facultyId": resp.FacultyID})
		}
		if len(resp.Ratings) == 0 {
			continue
		}
		kept = append(kept, resp)
	}
	if len(kept) == 0 {
		return nil, appErrors.ErrEmptyResponse
	}

	for _, resp := range kept {
		ratings, err := orderedRatings(resp)
		if err != nil {
			return nil, err
		}
		result.Ratings = append(result.Ratings, ratings...)
		result.FacultyIDs = append(result.FacultyIDs, resp.FacultyID)
	}
	return result, nil
}

// orderedRatings checks one faculty's ratings and returns them in registry
// order. Unknown parameter names are reported in lexical order so the error
// is stable across requests.
func orderedRatings(resp dto.FacultyResponse) ([]models.Rating, error) {
	names := make([]string, 0, len(resp.Ratings))
	for name := range resp.Ratings {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ii, iok := models.IndexOf(names[i])
		jj, jok := models.IndexOf(names[j])
		switch {
		case iok && jok:
			return ii < jj
		case iok != jok:
			return !iok
		default:
			return names[i] < names[j]
		}
	})

	out := make([]models.Rating, 0, len(names))
	for _, name := range names {
		value := resp.Ratings[name]
		if !models.IsValidParameter(name) {
			return nil, appErrors.WithDetails(
				appErrors.Clone(appErrors.ErrInvalidRating, "unknown rating parameter"),
				map[string]interface{}{"facultyId": resp.FacultyID, "parameter": name},
			)
		}
		if !models.IsValidRating(value) {
			return nil, appErrors.WithDetails(
				appErrors.Clone(appErrors.ErrInvalidRating, "rating must be between 1 and 10"),
				map[string]interface{}{"facultyId": resp.FacultyID, "parameter": name, "value": value},
			)
		}
		out = append(out, models.Rating{FacultyID: resp.FacultyID, Parameter: name, Value: value})
	}
	return out, nil
}

func hasAnyRating(responses []dto.FacultyResponse) bool {
	for _, resp := range responses {
		if len(resp.Ratings) > 0 {
			return true
		}
	}
	return false
}

func windowDetails(batch *models.Batch) map[string]interface{} {
	details := map[string]interface{}{}
	if batch.SlotStartDate != nil {
		details["slotStartDate"] = batch.SlotStartDate.UTC().Format(dateLayout)
	}
	if batch.SlotEndDate != nil {
		details["slotEndDate"] = batch.SlotEndDate.UTC().Format(dateLayout)
	}
	return details
}

const dateLayout = "2006-01-02"
