package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/assignment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// AssignmentServiceImpl implements the AssignmentService interface
type AssignmentServiceImpl struct {
	db     persistence.TxBeginner
	tasks  assignment.Repository
	logger *slog.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(logger *slog.Logger, db persistence.TxBeginner, tasks assignment.Repository) AssignmentService {
	return &AssignmentServiceImpl{
		db:     db,
		tasks:  tasks,
		logger: logger,
	}
}

// Assign creates an open task for a staff member
func (s *AssignmentServiceImpl) Assign(ctx context.Context, params assignment.NewTaskParams) (*assignment.Task, error) {
	task, err := assignment.NewTask(params)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Task assigned",
		"task_id", task.ID.String(),
		"staff_id", task.StaffID.String(),
		"shift", string(task.Shift),
	)
	return task, nil
}

// Complete marks a task done
func (s *AssignmentServiceImpl) Complete(ctx context.Context, id uuid.UUID, at time.Time) (*assignment.Task, error) {
	var done *assignment.Task

	err := persistence.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := task.Complete(at); err != nil {
			return err
		}
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}

		done = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task completed", "task_id", id.String())
	return done, nil
}

// ListForStaff returns a staff member's tasks between two shift dates
func (s *AssignmentServiceImpl) ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*assignment.Task, error) {
	if staffID == uuid.Nil {
		return nil, shared.ValidationError{Field: "staff_id", Reason: "is required"}
	}
	if to.Before(from) {
		return nil, shared.ValidationError{Field: "to", Reason: "must not be before from"}
	}
	return s.tasks.ListForStaff(ctx, staffID, from, to)
}
