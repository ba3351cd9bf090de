package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/assignment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// AssignmentRepository implements the assignment.Repository interface for PostgreSQL
type AssignmentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewAssignmentRepository(logger *slog.Logger, db *persistence.PostgresDB) assignment.Repository {
	return &AssignmentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *AssignmentRepository) WithTx(tx pgx.Tx) assignment.Repository {
	return &AssignmentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const assignmentColumns = `id, staff_id, title, description, shift, shift_date, status, assigned_by, completed_at, created_at, updated_at`

func scanTask(row rowScanner) (*assignment.Task, error) {
	var t assignment.Task
	err := row.Scan(
		&t.ID,
		&t.StaffID,
		&t.Title,
		&t.Description,
		&t.Shift,
		&t.ShiftDate,
		&t.Status,
		&t.AssignedBy,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, t *assignment.Task) error {
	query := `
		INSERT INTO staff_assignments (id, staff_id, title, description, shift, shift_date, status, assigned_by, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		t.ID,
		t.StaffID,
		t.Title,
		t.Description,
		string(t.Shift),
		t.ShiftDate,
		string(t.Status),
		t.AssignedBy,
		t.CompletedAt,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create task", "task_id", t.ID.String(), "error", err)
		return shared.StoreError{Op: "create task", Err: err}
	}
	return nil
}

func (r *AssignmentRepository) get(ctx context.Context, query string, id uuid.UUID) (*assignment.Task, error) {
	t, err := scanTask(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Entity: "task", ID: id}
		}
		r.logger.Error("Failed to get task", "id", id.String(), "error", err)
		return nil, shared.StoreError{Op: "get task", Err: err}
	}
	return t, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Task, error) {
	return r.get(ctx, `SELECT `+assignmentColumns+` FROM staff_assignments WHERE id = $1`, id)
}

func (r *AssignmentRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*assignment.Task, error) {
	return r.get(ctx, `SELECT `+assignmentColumns+` FROM staff_assignments WHERE id = $1 FOR UPDATE`, id)
}

// Update persists status and completion time
func (r *AssignmentRepository) Update(ctx context.Context, t *assignment.Task) error {
	query := `
		UPDATE staff_assignments
		SET status = $1, completed_at = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.querier.Exec(ctx, query, string(t.Status), t.CompletedAt, t.UpdatedAt, t.ID)
	if err != nil {
		r.logger.Error("Failed to update task", "id", t.ID.String(), "error", err)
		return shared.StoreError{Op: "update task", Err: err}
	}
	if result.RowsAffected() == 0 {
		return shared.NotFoundError{Entity: "task", ID: t.ID}
	}
	return nil
}

// ListForStaff returns the tasks of staffID whose shift date falls in [from, to]
func (r *AssignmentRepository) ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*assignment.Task, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM staff_assignments
		WHERE staff_id = $1 AND shift_date >= $2 AND shift_date <= $3
		ORDER BY shift_date ASC, shift ASC
	`

	rows, err := r.querier.Query(ctx, query, staffID, from, to)
	if err != nil {
		r.logger.Error("Failed to list tasks", "staff_id", staffID.String(), "error", err)
		return nil, shared.StoreError{Op: "list tasks", Err: err}
	}
	defer rows.Close()

	tasks := make([]*assignment.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, shared.StoreError{Op: "scan task", Err: err}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.StoreError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}
