package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/feedback-api/internal/middleware"
	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/internal/service"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

type statsServiceMock struct {
	facultyErr error
	rollup     *models.DepartmentRollup
	overview   *models.StatisticsOverview
	scope      [2]string
}

func (m *statsServiceMock) FacultyStats(ctx context.Context, viewer models.Identity, facultyID string) (*models.FacultyStatistics, error) {
	if m.facultyErr != nil {
		return nil, m.facultyErr
	}
	return &models.FacultyStatistics{FacultyID: facultyID, OverallAverage: 8.5, TotalResponses: 3}, nil
}

func (m *statsServiceMock) SlotComparison(ctx context.Context, viewer models.Identity, facultyID string) (*models.SlotComparison, error) {
	return &models.SlotComparison{FacultyID: facultyID}, nil
}

func (m *statsServiceMock) BatchStats(ctx context.Context, viewer models.Identity, batchID string) (*models.BatchStatistics, error) {
	return &models.BatchStatistics{BatchID: batchID}, nil
}

func (m *statsServiceMock) DepartmentRollup(ctx context.Context, viewer models.Identity, college, department string) (*models.DepartmentRollup, error) {
	m.scope = [2]string{college, department}
	return m.rollup, nil
}

func (m *statsServiceMock) FacultyAnalytics(ctx context.Context, viewer models.Identity, college, department string) ([]models.FacultyAnalytics, error) {
	m.scope = [2]string{college, department}
	return []models.FacultyAnalytics{}, nil
}

func (m *statsServiceMock) Overview(ctx context.Context, viewer models.Identity, college, department string) (*models.StatisticsOverview, error) {
	m.scope = [2]string{college, department}
	if viewer.Role == models.RoleHoD && college != "" && (college != viewer.College || department != viewer.Department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "overview is outside your scope")
	}
	return m.overview, nil
}

func newStatsRouter(svc statisticsService, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
		c.Next()
	})
	h := NewStatsHandler(svc)
	r.GET("/stats/faculty/:id", h.Faculty)
	r.GET("/stats/faculty/:id/comparison", h.Comparison)
	r.GET("/stats/batches/:id", h.Batch)
	r.GET("/stats/departments", h.Department)
	r.GET("/stats/analytics", h.Analytics)
	r.GET("/stats/overview", h.Overview)
	return r
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func serve(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestStatsHandlerFaculty(t *testing.T) {
	r := newStatsRouter(&statsServiceMock{}, hodClaims)

	w, body := serve(t, r, "/stats/faculty/F1")
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.FacultyStatistics
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, "F1", stats.FacultyID)
	assert.Equal(t, 8.5, stats.OverallAverage)
	assert.Nil(t, body.Meta["no_data"])
}

func TestStatsHandlerNoDataIsNotAnError(t *testing.T) {
	r := newStatsRouter(&statsServiceMock{facultyErr: service.ErrNoData}, adminClaims)

	w, body := serve(t, r, "/stats/faculty/F2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body.Error)
	assert.Equal(t, true, body.Meta["no_data"])
	var empty emptyStatistics
	require.NoError(t, json.Unmarshal(body.Data, &empty))
	assert.True(t, empty.NoData)
	assert.Equal(t, "F2", empty.FacultyID)
}

func TestStatsHandlerComparisonWithoutDataIsZeros(t *testing.T) {
	r := newStatsRouter(&statsServiceMock{}, adminClaims)

	w, body := serve(t, r, "/stats/faculty/F2/comparison")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body.Error)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &fields))
	assert.Equal(t, "F2", fields["facultyId"])
	assert.Equal(t, 0.0, fields["slot1Average"])
	assert.Equal(t, 0.0, fields["slot2Average"])
	assert.Equal(t, 0.0, fields["improvement"])
	assert.Equal(t, false, fields["hasSlot1"])
}

func TestStatsHandlerOverview(t *testing.T) {
	svc := &statsServiceMock{overview: &models.StatisticsOverview{
		Totals:   models.ScopeSummary{FacultyCount: 4, FacultyWithData: 3, BatchCount: 2, TotalResponses: 9, SatisfactionPercentage: 72.5},
		Colleges: []models.ScopeSummary{{College: "KIT", FacultyCount: 4}},
	}}
	r := newStatsRouter(svc, hodClaims)

	w, body := serve(t, r, "/stats/overview")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]string{"", ""}, svc.scope)
	assert.Nil(t, body.Meta["no_data"])
	var overview models.StatisticsOverview
	require.NoError(t, json.Unmarshal(body.Data, &overview))
	assert.Equal(t, 72.5, overview.Totals.SatisfactionPercentage)
	assert.Equal(t, "KIT", overview.Colleges[0].College)

	w, body = serve(t, r, "/stats/overview?college=KIT&department=ECE")
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, body.Error)

	svc.overview = &models.StatisticsOverview{}
	_, body = serve(t, newStatsRouter(svc, adminClaims), "/stats/overview?college=MIT")
	assert.Equal(t, [2]string{"MIT", ""}, svc.scope)
	assert.Equal(t, true, body.Meta["no_data"])
}

func TestStatsHandlerErrors(t *testing.T) {
	r := newStatsRouter(&statsServiceMock{facultyErr: appErrors.Clone(appErrors.ErrForbidden, "faculty is outside your department")}, hodClaims)
	w, body := serve(t, r, "/stats/faculty/F9")
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)

	r = newStatsRouter(&statsServiceMock{}, nil)
	w, _ = serve(t, r, "/stats/batches/B")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatsHandlerDepartment(t *testing.T) {
	svc := &statsServiceMock{rollup: &models.DepartmentRollup{College: "KIT", Department: "CSE", FacultyCount: 3}}
	r := newStatsRouter(svc, adminClaims)

	w, body := serve(t, r, "/stats/departments?college=KIT&department=%20CSE%20")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]string{"KIT", "CSE"}, svc.scope)
	assert.Equal(t, true, body.Meta["no_data"])

	svc.rollup.FacultyWithData = 2
	_, body = serve(t, r, "/stats/departments?college=KIT&department=CSE")
	assert.Nil(t, body.Meta["no_data"])
}

func TestStatsHandlerAnalytics(t *testing.T) {
	svc := &statsServiceMock{}
	r := newStatsRouter(svc, adminClaims)

	w, body := serve(t, r, "/stats/analytics?department=ECE")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]string{"", "ECE"}, svc.scope)
	assert.JSONEq(t, `[]`, string(body.Data))
}
