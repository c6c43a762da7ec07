package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/feedback-api/internal/models"
)

const batchColumns = "id, college, department, branch, year, semester, section, slot, slot_label, slot_start_date, slot_end_date, active, created_by, created_at, updated_at"

// BatchRepository manages feedback batches and their faculty assignments.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// FindByID fetches a batch with its faculty ids in assignment order.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	query := "SELECT " + batchColumns + " FROM batches WHERE id = $1"
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	assignments, err := r.facultyIDs(ctx, []string{batch.ID})
	if err != nil {
		return nil, err
	}
	batch.FacultyIDs = assignments[batch.ID]
	return &batch, nil
}

// List returns batches matching filters along with total count.
func (r *BatchRepository) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error) {
	base := "FROM batches WHERE 1=1"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", batchColumns, base, size, offset)
	var batches []models.Batch
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count batches: %w", err)
	}

	if len(batches) > 0 {
		ids := make([]string, len(batches))
		for i := range batches {
			ids[i] = batches[i].ID
		}
		assignments, err := r.facultyIDs(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range batches {
			batches[i].FacultyIDs = assignments[batches[i].ID]
		}
	}
	return batches, total, nil
}

// Create inserts a batch and its faculty assignments in one transaction.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	now := time.Now().UTC()
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = now
	}
	batch.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertBatch = `INSERT INTO batches (id, college, department, branch, year, semester, section, slot, slot_label, slot_start_date, slot_end_date, active, created_by, created_at, updated_at)
		VALUES (:id, :college, :department, :branch, :year, :semester, :section, :slot, :slot_label, :slot_start_date, :slot_end_date, :active, :created_by, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertBatch, batch); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}

	const insertAssignment = `INSERT INTO batch_faculty (batch_id, faculty_id, position) VALUES ($1, $2, $3)`
	for i, facultyID := range batch.FacultyIDs {
		if _, err := tx.ExecContext(ctx, insertAssignment, batch.ID, facultyID, i); err != nil {
			return fmt.Errorf("assign faculty to batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create batch: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a batch so its submissions stay valid.
func (r *BatchRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE batches SET active = FALSE, updated_at = $2 WHERE id = $1 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("deactivate batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate batch: %w", err)
	}
	return affected > 0, nil
}

type batchAssignment struct {
	BatchID   string `db:"batch_id"`
	FacultyID string `db:"faculty_id"`
}

func (r *BatchRepository) facultyIDs(ctx context.Context, batchIDs []string) (map[string][]string, error) {
	const query = `SELECT batch_id, faculty_id FROM batch_faculty WHERE batch_id = ANY($1) ORDER BY batch_id, position ASC`
	var rows []batchAssignment
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(batchIDs)); err != nil {
		return nil, fmt.Errorf("load batch faculty: %w", err)
	}
	out := make(map[string][]string, len(batchIDs))
	for _, row := range rows {
		out[row.BatchID] = append(out[row.BatchID], row.FacultyID)
	}
	return out, nil
}
