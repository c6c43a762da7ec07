package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/pkg/cache"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

const (
	topFacultyLimit = 5
	batchPageSize   = 100

	adminRecentBatches = 10
	hodRecentBatches   = 5
)

type statsRatingReader interface {
	RatingsForFaculty(ctx context.Context, facultyID string) ([]models.RatingRecord, error)
	RatingsForFaculties(ctx context.Context, facultyIDs []string) (map[string][]models.RatingRecord, error)
	RatingsForBatch(ctx context.Context, batchID string) ([]models.FacultyRatingGroup, error)
}

type statsFacultyReader interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Faculty, error)
	ListByScope(ctx context.Context, college, department string) ([]models.Faculty, error)
}

type statsBatchReader interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error)
}

// StatisticsService reads ratings and delegates to the aggregation engine.
// Results are cached when a cache is configured; every accepted submission
// invalidates the entries it could affect.
type StatisticsService struct {
	ratings statsRatingReader
	faculty statsFacultyReader
	batches statsBatchReader
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
}

// NewStatisticsService constructs a StatisticsService.
func NewStatisticsService(ratings statsRatingReader, faculty statsFacultyReader, batches statsBatchReader, cacheSvc *CacheService, metrics *MetricsService, logger *zap.Logger, ttl time.Duration) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		ratings: ratings,
		faculty: faculty,
		batches: batches,
		cache:   cacheSvc,
		metrics: metrics,
		logger:  logger,
		ttl:     ttl,
	}
}

// FacultyStats returns the aggregated statistics for one faculty member, or
// ErrNoData when nothing has been rated yet.
func (s *StatisticsService) FacultyStats(ctx context.Context, viewer models.Identity, facultyID string) (*models.FacultyStatistics, error) {
	if _, err := s.authorizeFaculty(ctx, viewer, facultyID); err != nil {
		return nil, err
	}

	key := cache.Key("stats", "faculty", facultyID)
	var cached models.FacultyStatistics
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	records, err := s.ratings.RatingsForFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ratings")
	}
	stats, err := ComputeFacultyStatistics(facultyID, records)
	s.metrics.ObserveStats("faculty", time.Since(start))
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, stats)
	return stats, nil
}

// SlotComparison contrasts a faculty member's two feedback cycles. A missing
// slot reads as a zero average, so an unrated faculty member compares as zeros.
func (s *StatisticsService) SlotComparison(ctx context.Context, viewer models.Identity, facultyID string) (*models.SlotComparison, error) {
	if _, err := s.authorizeFaculty(ctx, viewer, facultyID); err != nil {
		return nil, err
	}

	key := cache.Key("stats", "faculty", facultyID, "comparison")
	var cached models.SlotComparison
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	records, err := s.ratings.RatingsForFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ratings")
	}
	cmp := CompareSlots(facultyID, records)
	s.writeCache(ctx, key, cmp)
	return &cmp, nil
}

// FacultyRatings returns the raw ratings behind a faculty member's statistics.
func (s *StatisticsService) FacultyRatings(ctx context.Context, viewer models.Identity, facultyID string) ([]models.RatingRecord, error) {
	if _, err := s.authorizeFaculty(ctx, viewer, facultyID); err != nil {
		return nil, err
	}
	records, err := s.ratings.RatingsForFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ratings")
	}
	if records == nil {
		records = []models.RatingRecord{}
	}
	return records, nil
}

// BatchStats aggregates every faculty member of a batch using only ratings
// submitted against that batch. Assigned faculty come first in assignment
// order, followed by any formerly assigned faculty that still hold ratings.
func (s *StatisticsService) BatchStats(ctx context.Context, viewer models.Identity, batchID string) (*models.BatchStatistics, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if !viewer.CanAccess(batch.College, batch.Department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "batch is outside your department")
	}

	key := cache.Key("stats", "batch", batchID)
	var cached models.BatchStatistics
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	groups, err := s.ratings.RatingsForBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ratings")
	}

	byFaculty := make(map[string][]models.RatingRecord, len(groups))
	order := append([]string(nil), batch.FacultyIDs...)
	var all []models.RatingRecord
	for _, group := range groups {
		byFaculty[group.FacultyID] = group.Ratings
		all = append(all, group.Ratings...)
		if !batch.HasFaculty(group.FacultyID) {
			order = append(order, group.FacultyID)
		}
	}

	summaries, err := s.summaries(ctx, order)
	if err != nil {
		return nil, err
	}

	result := &models.BatchStatistics{
		BatchID:        batch.ID,
		Slot:           batch.Slot,
		TotalResponses: CountDistinctSubmissions(all),
		Faculty:        make([]models.BatchFacultyStatistics, 0, len(order)),
	}
	for _, id := range order {
		entry := models.BatchFacultyStatistics{Faculty: summaries[id]}
		stats, err := ComputeFacultyStatistics(id, byFaculty[id])
		switch {
		case errors.Is(err, ErrNoData):
		case err != nil:
			return nil, err
		default:
			entry.HasData = true
			entry.Stats = stats
		}
		result.Faculty = append(result.Faculty, entry)
	}
	s.metrics.ObserveStats("batch", time.Since(start))

	s.writeCache(ctx, key, result)
	return result, nil
}

// DepartmentRollup summarises satisfaction across the active faculty of a
// department. Faculty without ratings are counted but do not pull the mean down.
// A head of department asking without a scope gets their own department.
func (s *StatisticsService) DepartmentRollup(ctx context.Context, viewer models.Identity, college, department string) (*models.DepartmentRollup, error) {
	college, department = ownScope(viewer, college, department)
	if college == "" || department == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "college and department are required")
	}
	if !viewer.CanAccess(college, department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "department is outside your scope")
	}

	key := cache.Key("stats", "department", college, department)
	var cached models.DepartmentRollup
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	rankings, faculty, err := s.rankScope(ctx, college, department)
	if err != nil {
		return nil, err
	}

	rollup := &models.DepartmentRollup{
		College:         college,
		Department:      department,
		FacultyCount:    len(faculty),
		FacultyWithData: len(rankings),
		TopFaculty:      make([]models.FacultyRanking, 0, topFacultyLimit),
	}
	var satisfactionSum float64
	for _, r := range rankings {
		satisfactionSum += r.SatisfactionPercentage
		rollup.TotalResponses += r.TotalResponses
	}
	if len(rankings) > 0 {
		rollup.MeanSatisfaction = roundPercentage(satisfactionSum / float64(len(rankings)))
	}
	for i := 0; i < len(rankings) && i < topFacultyLimit; i++ {
		rollup.TopFaculty = append(rollup.TopFaculty, rankings[i].FacultyRanking)
	}
	s.metrics.ObserveStats("department", time.Since(start))

	s.writeCache(ctx, key, rollup)
	return rollup, nil
}

// FacultyAnalytics lists every rated faculty member in scope with their slot
// comparison, best satisfaction first. Heads of department are pinned to
// their own department; admins may filter or see everything.
func (s *StatisticsService) FacultyAnalytics(ctx context.Context, viewer models.Identity, college, department string) ([]models.FacultyAnalytics, error) {
	if viewer.Role == models.RoleHoD {
		college, department = viewer.College, viewer.Department
	}
	if !viewer.CanAccess(college, department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "analytics are outside your scope")
	}

	key := cache.Key("stats", "analytics", college, department)
	var cached []models.FacultyAnalytics
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	start := time.Now()
	rankings, _, err := s.rankScope(ctx, college, department)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveStats("analytics", time.Since(start))

	s.writeCache(ctx, key, rankings)
	return rankings, nil
}

// Overview summarises a scope for the dashboards: totals, a per-college and a
// per-department breakdown, the top rated faculty and the latest batches.
// Admins see everything unless they filter; heads of department get their own
// department when they pass no scope.
func (s *StatisticsService) Overview(ctx context.Context, viewer models.Identity, college, department string) (*models.StatisticsOverview, error) {
	college, department = ownScope(viewer, college, department)
	if !viewer.CanAccess(college, department) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "overview is outside your scope")
	}

	key := cache.Key("stats", "overview", college, department)
	var cached models.StatisticsOverview
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	rankings, faculty, err := s.rankScope(ctx, college, department)
	if err != nil {
		return nil, err
	}
	batches, err := s.scopeBatches(ctx, college, department)
	if err != nil {
		return nil, err
	}

	t := newScopeTally()
	scopeOf := make(map[string]*models.Faculty, len(faculty))
	for i := range faculty {
		f := &faculty[i]
		scopeOf[f.ID] = f
		for _, sum := range t.scopes(f.College, f.Department) {
			sum.FacultyCount++
		}
	}
	for _, r := range rankings {
		f := scopeOf[r.Faculty.ID]
		for _, sum := range t.scopes(f.College, f.Department) {
			sum.FacultyWithData++
			sum.TotalResponses += r.TotalResponses
			t.satisfaction[sum] += r.SatisfactionPercentage
		}
	}
	for i := range batches {
		for _, sum := range t.scopes(batches[i].College, batches[i].Department) {
			sum.BatchCount++
		}
	}

	overview := t.overview()
	for i := 0; i < len(rankings) && i < topFacultyLimit; i++ {
		overview.TopFaculty = append(overview.TopFaculty, rankings[i].FacultyRanking)
	}

	limit := adminRecentBatches
	if viewer.Role == models.RoleHoD {
		limit = hodRecentBatches
	}
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].CreatedAt.Equal(batches[j].CreatedAt) {
			return batches[i].CreatedAt.After(batches[j].CreatedAt)
		}
		return batches[i].ID < batches[j].ID
	})
	if len(batches) > limit {
		batches = batches[:limit]
	}
	overview.RecentBatches = append(overview.RecentBatches, batches...)
	s.metrics.ObserveStats("overview", time.Since(start))

	s.writeCache(ctx, key, overview)
	return overview, nil
}

// InvalidateScopes drops cached aggregates that depend on which faculty and
// batches exist, after a faculty or batch is created or deactivated.
func (s *StatisticsService) InvalidateScopes(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	for _, scope := range []string{"department", "analytics", "overview"} {
		_ = s.cache.Invalidate(ctx, cache.Key("stats", scope, "*"))
	}
}

// InvalidateForSubmission drops every cached entry a new submission could
// change. Failures are logged; stale reads expire with the cache TTL.
func (s *StatisticsService) InvalidateForSubmission(ctx context.Context, batchID string, facultyIDs []string) {
	if !s.cache.Enabled() {
		return
	}
	keys := make([]string, 0, len(facultyIDs)*2+1)
	keys = append(keys, cache.Key("stats", "batch", batchID))
	for _, id := range facultyIDs {
		keys = append(keys, cache.Key("stats", "faculty", id), cache.Key("stats", "faculty", id, "comparison"))
	}
	_ = s.cache.Delete(ctx, keys...)
	s.InvalidateScopes(ctx)
}

// rankScope computes statistics for the active faculty in scope and returns
// those with data sorted by satisfaction, then overall average, then name,
// along with every active faculty record in scope.
func (s *StatisticsService) rankScope(ctx context.Context, college, department string) ([]models.FacultyAnalytics, []models.Faculty, error) {
	faculty, err := s.faculty.ListByScope(ctx, college, department)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	if len(faculty) == 0 {
		return []models.FacultyAnalytics{}, faculty, nil
	}

	ids := make([]string, len(faculty))
	for i := range faculty {
		ids[i] = faculty[i].ID
	}
	records, err := s.ratings.RatingsForFaculties(ctx, ids)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ratings")
	}

	rankings := make([]models.FacultyAnalytics, 0, len(faculty))
	for i := range faculty {
		f := &faculty[i]
		stats, err := ComputeFacultyStatistics(f.ID, records[f.ID])
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		rankings = append(rankings, models.FacultyAnalytics{
			FacultyRanking: models.FacultyRanking{
				Faculty:                f.Summary(),
				OverallAverage:         stats.OverallAverage,
				SatisfactionPercentage: stats.SatisfactionPercentage,
				TotalResponses:         stats.TotalResponses,
			},
			Comparison: CompareSlots(f.ID, records[f.ID]),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.SatisfactionPercentage != b.SatisfactionPercentage {
			return a.SatisfactionPercentage > b.SatisfactionPercentage
		}
		if a.OverallAverage != b.OverallAverage {
			return a.OverallAverage > b.OverallAverage
		}
		return a.Faculty.Name < b.Faculty.Name
	})
	return rankings, faculty, nil
}

// scopeBatches pages through every batch in scope, active or not.
func (s *StatisticsService) scopeBatches(ctx context.Context, college, department string) ([]models.Batch, error) {
	var out []models.Batch
	for page := 1; ; page++ {
		items, total, err := s.batches.List(ctx, models.BatchFilter{College: college, Department: department, Page: page, PageSize: batchPageSize})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
		}
		out = append(out, items...)
		if len(items) == 0 || len(out) >= total {
			return out, nil
		}
	}
}

func ownScope(viewer models.Identity, college, department string) (string, string) {
	if viewer.Role == models.RoleHoD && college == "" && department == "" {
		return viewer.College, viewer.Department
	}
	return college, department
}

func (s *StatisticsService) authorizeFaculty(ctx context.Context, viewer models.Identity, facultyID string) (*models.Faculty, error) {
	faculty, err := s.faculty.FindByID(ctx, facultyID)
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

// summaries resolves display data for ids. Ids without a record keep only
// their id so historical ratings still show up.
func (s *StatisticsService) summaries(ctx context.Context, ids []string) (map[string]models.FacultySummary, error) {
	out := make(map[string]models.FacultySummary, len(ids))
	records, err := s.faculty.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	for i := range records {
		out[records[i].ID] = records[i].Summary()
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = models.FacultySummary{ID: id}
		}
	}
	return out, nil
}

func (s *StatisticsService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if !s.cache.Enabled() {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	return err == nil && hit
}

func (s *StatisticsService) writeCache(ctx context.Context, key string, value interface{}) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Set(ctx, key, value, s.ttl)
}

// scopeTally accumulates overview summaries at three levels at once.
type scopeTally struct {
	totals       *models.ScopeSummary
	colleges     map[string]*models.ScopeSummary
	departments  map[[2]string]*models.ScopeSummary
	satisfaction map[*models.ScopeSummary]float64
}

func newScopeTally() *scopeTally {
	return &scopeTally{
		totals:       &models.ScopeSummary{},
		colleges:     make(map[string]*models.ScopeSummary),
		departments:  make(map[[2]string]*models.ScopeSummary),
		satisfaction: make(map[*models.ScopeSummary]float64),
	}
}

// scopes returns the totals, college and department summaries a record
// counts towards.
func (t *scopeTally) scopes(college, department string) []*models.ScopeSummary {
	c, ok := t.colleges[college]
	if !ok {
		c = &models.ScopeSummary{College: college}
		t.colleges[college] = c
	}
	key := [2]string{college, department}
	d, ok := t.departments[key]
	if !ok {
		d = &models.ScopeSummary{College: college, Department: department}
		t.departments[key] = d
	}
	return []*models.ScopeSummary{t.totals, c, d}
}

func (t *scopeTally) overview() *models.StatisticsOverview {
	out := &models.StatisticsOverview{
		Colleges:      make([]models.ScopeSummary, 0, len(t.colleges)),
		Departments:   make([]models.ScopeSummary, 0, len(t.departments)),
		TopFaculty:    make([]models.FacultyRanking, 0, topFacultyLimit),
		RecentBatches: []models.Batch{},
	}
	t.finish(t.totals)
	out.Totals = *t.totals
	for _, c := range t.colleges {
		t.finish(c)
		out.Colleges = append(out.Colleges, *c)
	}
	for _, d := range t.departments {
		t.finish(d)
		out.Departments = append(out.Departments, *d)
	}
	sort.Slice(out.Colleges, func(i, j int) bool { return out.Colleges[i].College < out.Colleges[j].College })
	sort.Slice(out.Departments, func(i, j int) bool {
		a, b := out.Departments[i], out.Departments[j]
		if a.College != b.College {
			return a.College < b.College
		}
		return a.Department < b.Department
	})
	return out
}

func (t *scopeTally) finish(sum *models.ScopeSummary) {
	if sum.FacultyWithData > 0 {
		sum.SatisfactionPercentage = roundPercentage(t.satisfaction[sum] / float64(sum.FacultyWithData))
	}
}
