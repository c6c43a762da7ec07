package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/models"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

type batchRepository interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error)
	Create(ctx context.Context, batch *models.Batch) error
	Deactivate(ctx context.Context, id string) (bool, error)
}

type batchFacultyReader interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Faculty, error)
}

// BatchService manages feedback batches.
type BatchService struct {
	repo      batchRepository
	faculty   batchFacultyReader
	scopes    scopeInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBatchService constructs a BatchService.
func NewBatchService(repo batchRepository, faculty batchFacultyReader, scopes scopeInvalidator, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{repo: repo, faculty: faculty, scopes: scopes, validator: validate, logger: logger, now: time.Now}
}

// List returns batches visible to viewer plus pagination data.
func (s *BatchService) List(ctx context.Context, viewer models.Identity, query dto.BatchListQuery) ([]models.Batch, *models.Pagination, error) {
	filter := models.BatchFilter{
		College:    query.College,
		Department: query.Department,
		ActiveOnly: query.ActiveOnly,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	if viewer.Role == models.RoleHoD {
		filter.College, filter.Department = viewer.College, viewer.Department
	}
	batches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	return batches, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a batch by id.
func (s *BatchService) Get(ctx context.Context, viewer models.Identity, id string) (*models.Batch, error) {
	batch, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanAccess(batch.College, batch.Department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "batch is outside your department")
	}
	return batch, nil
}

// Public returns an active batch with its faculty for the anonymous form.
// Inactive and unknown batches are indistinguishable.
func (s *BatchService) Public(ctx context.Context, id string) (*models.BatchSummary, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrBatchNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if !batch.Active {
		return nil, appErrors.ErrBatchNotFound
	}

	records, err := s.faculty.FindByIDs(ctx, batch.FacultyIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	byID := make(map[string]*models.Faculty, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}

	summary := &models.BatchSummary{Batch: *batch, Faculty: make([]models.FacultySummary, 0, len(batch.FacultyIDs))}
	for _, id := range batch.FacultyIDs {
		if f, ok := byID[id]; ok && f.Active {
			summary.Faculty = append(summary.Faculty, f.Summary())
		}
	}
	return summary, nil
}

// Create publishes a new batch. Every assigned faculty member must exist and
// be active.
func (s *BatchService) Create(ctx context.Context, viewer models.Identity, req dto.CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	if !viewer.CanAccess(req.College, req.Department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot create batches for another department")
	}

	start, err := time.Parse(dateLayout, req.SlotStartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot start date")
	}
	end, err := time.Parse(dateLayout, req.SlotEndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot end date")
	}

	batch := &models.Batch{
		College:       strings.TrimSpace(req.College),
		Department:    strings.TrimSpace(req.Department),
		Branch:        strings.TrimSpace(req.Branch),
		Year:          strings.TrimSpace(req.Year),
		Semester:      strings.TrimSpace(req.Semester),
		Section:       strings.TrimSpace(req.Section),
		Slot:          req.Slot,
		SlotLabel:     strings.TrimSpace(req.SlotLabel),
		SlotStartDate: &start,
		SlotEndDate:   &end,
		Active:        true,
		CreatedBy:     viewer.UserID,
		FacultyIDs:    req.FacultyIDs,
	}
	if !batch.WindowWellFormed() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot end date is before the start date")
	}
	if batch.SlotLabel == "" {
		batch.SlotLabel = fmt.Sprintf("Slot %d", batch.Slot)
	}
	if err := s.ensureFacultyAssignable(ctx, req.FacultyIDs); err != nil {
		return nil, err
	}

	batch.ID = batchID(batch, s.now())
	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}
	s.logger.Info("batch created", zap.String("batch_id", batch.ID), zap.Int("faculty", len(batch.FacultyIDs)))
	if s.scopes != nil {
		s.scopes.InvalidateScopes(ctx)
	}
	return batch, nil
}

// Deactivate closes a batch for new submissions. Existing ratings remain.
func (s *BatchService) Deactivate(ctx context.Context, viewer models.Identity, id string) error {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	changed, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate batch")
	}
	if !changed {
		return appErrors.Clone(appErrors.ErrConflict, "batch already inactive")
	}
	if s.scopes != nil {
		s.scopes.InvalidateScopes(ctx)
	}
	return nil
}

func (s *BatchService) ensureFacultyAssignable(ctx context.Context, ids []string) error {
	records, err := s.faculty.FindByIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	active := make(map[string]bool, len(records))
	for _, f := range records {
		active[f.ID] = f.Active
	}
	var missing []string
	for _, id := range ids {
		if !active[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrValidation, "unknown or inactive faculty"),
			map[string]interface{}{"facultyIds": missing},
		)
	}
	return nil
}

func (s *BatchService) load(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	return batch, nil
}

// batchID renders college-department-branch-year-semester-section-<unix ms>.
func batchID(b *models.Batch, now time.Time) string {
	parts := []string{b.College, b.Department, b.Branch, b.Year, b.Semester, b.Section}
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), "_")
	}
	return fmt.Sprintf("%s-%d", strings.Join(parts, "-"), now.UnixMilli())
}

func paginate(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
