package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/feedback-api/internal/models"
)

const facultyColumns = "id, code, name, subject, college, department, branch, year, semester, section, active, created_at, updated_at"

// FacultyRepository manages persistence for faculty records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns faculty matching filters along with total count.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	base := "FROM faculty WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.College != "" {
		conditions = append(conditions, fmt.Sprintf("college = $%d", len(args)+1))
		args = append(args, filter.College)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", facultyColumns, base, size, offset)
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}
	return faculty, total, nil
}

// ListByScope returns active faculty of a college department. Empty arguments widen the scope.
func (r *FacultyRepository) ListByScope(ctx context.Context, college, department string) ([]models.Faculty, error) {
	query := "SELECT " + facultyColumns + " FROM faculty WHERE active = TRUE"
	var args []interface{}
	if college != "" {
		args = append(args, college)
		query += fmt.Sprintf(" AND college = $%d", len(args))
	}
	if department != "" {
		args = append(args, department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	query += " ORDER BY name ASC"

	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, args...); err != nil {
		return nil, fmt.Errorf("list faculty by scope: %w", err)
	}
	return faculty, nil
}

// FindByID fetches a faculty member by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	query := "SELECT " + facultyColumns + " FROM faculty WHERE id = $1"
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// FindByIDs fetches the faculty records for ids, including deactivated ones.
func (r *FacultyRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Faculty, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + facultyColumns + " FROM faculty WHERE id = ANY($1)"
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find faculty by ids: %w", err)
	}
	return faculty, nil
}

// ExistingIDs returns the subset of ids that have a faculty record.
func (r *FacultyRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []string
	if err := r.db.SelectContext(ctx, &found, "SELECT id FROM faculty WHERE id = ANY($1)", pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("check faculty ids: %w", err)
	}
	for _, id := range found {
		out[id] = struct{}{}
	}
	return out, nil
}

// ExistsByCode checks whether a faculty code is already used within a college.
func (r *FacultyRepository) ExistsByCode(ctx context.Context, college, code string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM faculty WHERE college = $1 AND code = $2 LIMIT 1", college, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check faculty code: %w", err)
	}
	return true, nil
}

// Create inserts a new faculty record.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if faculty.CreatedAt.IsZero() {
		faculty.CreatedAt = now
	}
	faculty.UpdatedAt = now

	const query = `INSERT INTO faculty (id, code, name, subject, college, department, branch, year, semester, section, active, created_at, updated_at)
		VALUES (:id, :code, :name, :subject, :college, :department, :branch, :year, :semester, :section, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Deactivate clears the active flag, leaving historical ratings intact.
func (r *FacultyRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE faculty SET active = FALSE, updated_at = $2 WHERE id = $1 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("deactivate faculty: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate faculty: %w", err)
	}
	return affected > 0, nil
}
