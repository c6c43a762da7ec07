package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/models"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	ExistsByCode(ctx context.Context, college, code string) (bool, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Deactivate(ctx context.Context, id string) (bool, error)
}

// scopeInvalidator drops cached aggregates that depend on which faculty and
// batches exist in a department.
type scopeInvalidator interface {
	InvalidateScopes(ctx context.Context)
}

// FacultyService orchestrates faculty records.
type FacultyService struct {
	repo      facultyRepository
	scopes    scopeInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs a FacultyService. scopes may be nil when
// statistics are not cached.
func NewFacultyService(repo facultyRepository, scopes scopeInvalidator, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, scopes: scopes, validator: validate, logger: logger}
}

// List returns faculty plus pagination data. Heads of department only see
// their own department.
func (s *FacultyService) List(ctx context.Context, viewer models.Identity, query dto.FacultyListQuery) ([]models.Faculty, *models.Pagination, error) {
	filter := models.FacultyFilter{
		College:    query.College,
		Department: query.Department,
		ActiveOnly: query.ActiveOnly,
		Search:     strings.TrimSpace(query.Search),
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	if viewer.Role == models.RoleHoD {
		filter.College, filter.Department = viewer.College, viewer.Department
	}
	faculty, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	return faculty, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a faculty member by id.
func (s *FacultyService) Get(ctx context.Context, viewer models.Identity, id string) (*models.Faculty, error) {
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	if !viewer.CanAccess(faculty.College, faculty.Department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "faculty is outside your department")
	}
	return faculty, nil
}

// Create registers a new faculty member. Codes are unique per college.
func (s *FacultyService) Create(ctx context.Context, viewer models.Identity, req dto.CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	if !viewer.CanAccess(req.College, req.Department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot register faculty for another department")
	}

	code := strings.TrimSpace(req.Code)
	exists, err := s.repo.ExistsByCode(ctx, req.College, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check faculty code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "faculty code already in use")
	}

	faculty := &models.Faculty{
		Code:       code,
		Name:       strings.TrimSpace(req.Name),
		Subject:    strings.TrimSpace(req.Subject),
		College:    strings.TrimSpace(req.College),
		Department: strings.TrimSpace(req.Department),
		Branch:     strings.TrimSpace(req.Branch),
		Year:       strings.TrimSpace(req.Year),
		Semester:   strings.TrimSpace(req.Semester),
		Section:    strings.TrimSpace(req.Section),
		Active:     true,
	}
	if err := s.repo.Create(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}
	s.invalidateScopes(ctx)
	return faculty, nil
}

// Deactivate soft-deletes a faculty member. Their ratings are kept.
func (s *FacultyService) Deactivate(ctx context.Context, viewer models.Identity, id string) error {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	changed, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate faculty")
	}
	if !changed {
		return appErrors.Clone(appErrors.ErrConflict, "faculty already inactive")
	}
	s.invalidateScopes(ctx)
	return nil
}

func (s *FacultyService) invalidateScopes(ctx context.Context) {
	if s.scopes != nil {
		s.scopes.InvalidateScopes(ctx)
	}
}
