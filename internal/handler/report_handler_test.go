package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/feedback-api/internal/dto"
	"github.com/noah-isme/feedback-api/internal/middleware"
	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/internal/service"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

var (
	adminClaims = &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin}
	hodClaims   = &models.JWTClaims{UserID: "hod", Role: models.RoleHoD, College: "KIT", Department: "CSE"}
)

type reportServiceMock struct {
	createResp  *dto.ReportJobResponse
	createErr   error
	createdBy   models.Identity
	statusResp  *dto.ReportStatusResponse
	statusErr   error
	download    *service.ReportDownload
	downloadErr error
}

func (m *reportServiceMock) CreateJob(ctx context.Context, req dto.ReportRequest, viewer models.Identity) (*dto.ReportJobResponse, error) {
	m.createdBy = viewer
	return m.createResp, m.createErr
}

func (m *reportServiceMock) GetStatus(ctx context.Context, id string, viewer models.Identity) (*dto.ReportStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *reportServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error) {
	return m.download, m.downloadErr
}

type rendererMock struct {
	format models.ReportFormat
	kind   models.ReportType
	err    error
}

func (m *rendererMock) Render(ctx context.Context, viewer models.Identity, reportType models.ReportType, subjectID string, format models.ReportFormat) (*service.RenderedReport, error) {
	m.format, m.kind = format, reportType
	if m.err != nil {
		return nil, m.err
	}
	return &service.RenderedReport{Filename: "faculty_F1.csv", ContentType: "text/csv", Body: []byte("Parameter\n")}, nil
}

type ratingsMock struct {
	records []models.RatingRecord
}

func (m *ratingsMock) FacultyRatings(ctx context.Context, viewer models.Identity, facultyID string) ([]models.RatingRecord, error) {
	return m.records, nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestReportHandlerCreateJob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		createResp: &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued},
	}
	handler := NewReportHandler(mockSvc, &rendererMock{}, &ratingsMock{})

	payload, _ := json.Marshal(dto.ReportRequest{Type: models.ReportTypeFaculty, SubjectID: "F1", Format: models.ReportFormatCSV})
	c, w := newGinContext(http.MethodPost, "/reports", payload)
	c.Set(middleware.ContextUserKey, hodClaims)

	handler.CreateJob(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "CSE", mockSvc.createdBy.Department)
}

func TestReportHandlerCreateJobRequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{}, &rendererMock{}, &ratingsMock{})

	c, w := newGinContext(http.MethodPost, "/reports", []byte(`{}`))
	handler.CreateJob(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportHandlerJobStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		statusResp: &dto.ReportStatusResponse{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100},
	}
	handler := NewReportHandler(mockSvc, &rendererMock{}, &ratingsMock{})

	c, w := newGinContext(http.MethodGet, "/reports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	c.Set(middleware.ContextUserKey, adminClaims)

	handler.JobStatus(c)
	require.Equal(t, http.StatusOK, w.Code)

	mockSvc.statusErr = appErrors.ErrForbidden
	c, w = newGinContext(http.MethodGet, "/reports/job-1", nil)
	c.Set(middleware.ContextUserKey, hodClaims)
	handler.JobStatus(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportHandlerFacultyReportDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	renderer := &rendererMock{}
	handler := NewReportHandler(&reportServiceMock{}, renderer, &ratingsMock{})

	c, w := newGinContext(http.MethodGet, "/reports/faculty/F1", nil)
	c.Params = gin.Params{{Key: "id", Value: "F1"}}
	c.Set(middleware.ContextUserKey, adminClaims)

	handler.FacultyReport(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReportFormatCSV, renderer.format)
	assert.Equal(t, models.ReportTypeFaculty, renderer.kind)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "faculty_F1.csv")
	assert.Equal(t, "Parameter\n", w.Body.String())
}

func TestReportHandlerBatchReportPropagatesErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	renderer := &rendererMock{err: appErrors.Clone(appErrors.ErrValidation, "unsupported report format")}
	handler := NewReportHandler(&reportServiceMock{}, renderer, &ratingsMock{})

	c, w := newGinContext(http.MethodGet, "/reports/batches/B?format=XLSX", nil)
	c.Params = gin.Params{{Key: "id", Value: "B"}}
	c.Set(middleware.ContextUserKey, adminClaims)

	handler.BatchReport(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ReportFormat("xlsx"), renderer.format)
}

func TestReportHandlerFacultyData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ratings := &ratingsMock{records: []models.RatingRecord{{FacultyID: "F1", Value: 7}}}
	handler := NewReportHandler(&reportServiceMock{}, &rendererMock{}, ratings)

	c, w := newGinContext(http.MethodGet, "/reports/faculty/F1/data", nil)
	c.Params = gin.Params{{Key: "id", Value: "F1"}}
	c.Set(middleware.ContextUserKey, adminClaims)

	handler.FacultyData(c)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.RatingRecord `json:"data"`
		Meta map[string]int        `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 1, body.Meta["count"])
}

func TestReportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	mockSvc := &reportServiceMock{download: &service.ReportDownload{File: file, Filename: "report.csv", ContentType: "text/csv"}}
	handler := NewReportHandler(mockSvc, &rendererMock{}, &ratingsMock{})

	c, w := newGinContext(http.MethodGet, "/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}
	handler.Download(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a,b\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report.csv")

	mockSvc.download, mockSvc.downloadErr = nil, appErrors.Clone(appErrors.ErrNotFound, "report file expired")
	c, w = newGinContext(http.MethodGet, "/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}
	handler.Download(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
