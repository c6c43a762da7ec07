package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/feedback-api/internal/models"
)

type memoryFeedbackStore struct {
	submissions []models.Submission
	ratings     []models.Rating
	createErr   error
	readErr     error
}

func (m *memoryFeedbackStore) CreateSubmission(ctx context.Context, submission *models.Submission, ratings []models.Rating) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	submission.ID = fmt.Sprintf("sub-%d", len(m.submissions)+1)
	m.submissions = append(m.submissions, *submission)
	for i := range ratings {
		ratings[i].ID = fmt.Sprintf("rat-%d", len(m.ratings)+1)
		ratings[i].SubmissionID = submission.ID
		m.ratings = append(m.ratings, ratings[i])
	}
	return submission.ID, nil
}

func (m *memoryFeedbackStore) CountSubmissionsByBatch(ctx context.Context, batchID string) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	count := 0
	for _, s := range m.submissions {
		if s.BatchID == batchID {
			count++
		}
	}
	return count, nil
}

func (m *memoryFeedbackStore) records(match func(models.Submission, models.Rating) bool) []models.RatingRecord {
	subs := make(map[string]models.Submission, len(m.submissions))
	for _, s := range m.submissions {
		subs[s.ID] = s
	}
	var out []models.RatingRecord
	for _, r := range m.ratings {
		s := subs[r.SubmissionID]
		if !match(s, r) {
			continue
		}
		out = append(out, models.RatingRecord{
			SubmissionID: s.ID,
			BatchID:      s.BatchID,
			FacultyID:    r.FacultyID,
			Parameter:    r.Parameter,
			Value:        r.Value,
			Slot:         s.Slot,
			SubmittedAt:  s.SubmittedAt,
			Comment:      s.Comment,
		})
	}
	return out
}

func (m *memoryFeedbackStore) RatingsForFaculty(ctx context.Context, facultyID string) ([]models.RatingRecord, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.records(func(_ models.Submission, r models.Rating) bool { return r.FacultyID == facultyID }), nil
}

func (m *memoryFeedbackStore) RatingsForFaculties(ctx context.Context, facultyIDs []string) (map[string][]models.RatingRecord, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make(map[string][]models.RatingRecord)
	for _, id := range facultyIDs {
		if recs, _ := m.RatingsForFaculty(ctx, id); len(recs) > 0 {
			out[id] = recs
		}
	}
	return out, nil
}

func (m *memoryFeedbackStore) RatingsForBatch(ctx context.Context, batchID string) ([]models.FacultyRatingGroup, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	var groups []models.FacultyRatingGroup
	index := make(map[string]int)
	for _, rec := range m.records(func(s models.Submission, _ models.Rating) bool { return s.BatchID == batchID }) {
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

type memoryBatches struct {
	items   map[string]*models.Batch
	findErr error
	created []*models.Batch
}

func newMemoryBatches(batches ...*models.Batch) *memoryBatches {
	m := &memoryBatches{items: make(map[string]*models.Batch)}
	for _, b := range batches {
		m.items[b.ID] = b
	}
	return m
}

func (m *memoryBatches) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	b, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *b
	clone.FacultyIDs = append([]string(nil), b.FacultyIDs...)
	return &clone, nil
}

func (m *memoryBatches) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error) {
	var out []models.Batch
	for _, b := range m.items {
		if filter.College != "" && b.College != filter.College {
			continue
		}
		if filter.Department != "" && b.Department != filter.Department {
			continue
		}
		if filter.ActiveOnly && !b.Active {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *memoryBatches) Create(ctx context.Context, batch *models.Batch) error {
	batch.CreatedAt = time.Now().UTC()
	m.items[batch.ID] = batch
	m.created = append(m.created, batch)
	return nil
}

func (m *memoryBatches) Deactivate(ctx context.Context, id string) (bool, error) {
	b, ok := m.items[id]
	if !ok || !b.Active {
		return false, nil
	}
	b.Active = false
	return true, nil
}

type memoryFaculty struct {
	items   map[string]*models.Faculty
	order   []string
	listErr error
}

func newMemoryFaculty(faculty ...*models.Faculty) *memoryFaculty {
	m := &memoryFaculty{items: make(map[string]*models.Faculty)}
	for _, f := range faculty {
		m.items[f.ID] = f
		m.order = append(m.order, f.ID)
	}
	return m
}

func (m *memoryFaculty) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	f, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *f
	return &clone, nil
}

func (m *memoryFaculty) FindByIDs(ctx context.Context, ids []string) ([]models.Faculty, error) {
	var out []models.Faculty
	for _, id := range ids {
		if f, ok := m.items[id]; ok {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memoryFaculty) ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := m.items[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (m *memoryFaculty) ListByScope(ctx context.Context, college, department string) ([]models.Faculty, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Faculty
	for _, id := range m.order {
		f := m.items[id]
		if !f.Active {
			continue
		}
		if college != "" && f.College != college {
			continue
		}
		if department != "" && f.Department != department {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (m *memoryFaculty) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	out, err := m.ListByScope(ctx, filter.College, filter.Department)
	return out, len(out), err
}

func (m *memoryFaculty) ExistsByCode(ctx context.Context, college, code string) (bool, error) {
	for _, f := range m.items {
		if f.College == college && f.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryFaculty) Create(ctx context.Context, faculty *models.Faculty) error {
	faculty.ID = fmt.Sprintf("fac-%d", len(m.items)+1)
	m.items[faculty.ID] = faculty
	m.order = append(m.order, faculty.ID)
	return nil
}

func (m *memoryFaculty) Deactivate(ctx context.Context, id string) (bool, error) {
	f, ok := m.items[id]
	if !ok || !f.Active {
		return false, nil
	}
	f.Active = false
	return true, nil
}

// fixture data shared by the service tests.

var (
	adminViewer = models.Identity{UserID: "admin-1", Role: models.RoleAdmin}
	cseHoD      = models.Identity{UserID: "hod-cse", Role: models.RoleHoD, College: "KIT", Department: "CSE"}
	eceHoD      = models.Identity{UserID: "hod-ece", Role: models.RoleHoD, College: "KIT", Department: "ECE"}
)

func param(i int) string {
	return models.Parameters()[i]
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func testFaculty(id, name string) *models.Faculty {
	return &models.Faculty{ID: id, Code: "C-" + id, Name: name, Subject: "Subject " + id, College: "KIT", Department: "CSE", Active: true}
}

func testBatch(id string, slot int, facultyIDs ...string) *models.Batch {
	return &models.Batch{
		ID:            id,
		College:       "KIT",
		Department:    "CSE",
		Branch:        "CSE",
		Year:          "3",
		Semester:      "5",
		Section:       "A",
		Slot:          slot,
		SlotLabel:     "Slot",
		SlotStartDate: day(2026, time.March, 1),
		SlotEndDate:   day(2026, time.March, 31),
		Active:        true,
		FacultyIDs:    facultyIDs,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var inWindow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
