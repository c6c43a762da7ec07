package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/middleware"
	"github.com/noah-isme/feedback-api/internal/models"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

type facultyServiceMock struct {
	viewer models.Identity
	query  dto.FacultyListQuery
	err    error
}

func (m *facultyServiceMock) List(ctx context.Context, viewer models.Identity, query dto.FacultyListQuery) ([]models.Faculty, *models.Pagination, error) {
	m.viewer, m.query = viewer, query
	return []models.Faculty{{ID: "F1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, m.err
}

func (m *facultyServiceMock) Get(ctx context.Context, viewer models.Identity, id string) (*models.Faculty, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Faculty{ID: id}, nil
}

func (m *facultyServiceMock) Create(ctx context.Context, viewer models.Identity, req dto.CreateFacultyRequest) (*models.Faculty, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Faculty{ID: "F9", Code: req.Code}, nil
}

func (m *facultyServiceMock) Deactivate(ctx context.Context, viewer models.Identity, id string) error {
	return m.err
}

func TestFacultyHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &facultyServiceMock{}
	handler := NewFacultyHandler(svc)

	c, w := newGinContext(http.MethodGet, "/faculty?search=ada&page_size=5", nil)
	c.Set(middleware.ContextUserKey, hodClaims)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada", svc.query.Search)
	assert.Equal(t, 5, svc.query.PageSize)
	assert.Equal(t, models.RoleHoD, svc.viewer.Role)
}

func TestFacultyHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &facultyServiceMock{}
	handler := NewFacultyHandler(svc)
	payload := []byte(`{"code":"CS-1","name":"Ada","college":"KIT","department":"CSE"}`)

	c, w := newGinContext(http.MethodPost, "/faculty", payload)
	c.Set(middleware.ContextUserKey, adminClaims)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"CS-1"`)

	svc.err = appErrors.Clone(appErrors.ErrConflict, "faculty code already in use")
	c, w = newGinContext(http.MethodPost, "/faculty", payload)
	c.Set(middleware.ContextUserKey, adminClaims)
	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFacultyHandlerGetForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewFacultyHandler(&facultyServiceMock{err: appErrors.ErrForbidden})

	c, w := newGinContext(http.MethodGet, "/faculty/F3", nil)
	c.Params = gin.Params{{Key: "id", Value: "F3"}}
	c.Set(middleware.ContextUserKey, hodClaims)
	handler.Get(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
