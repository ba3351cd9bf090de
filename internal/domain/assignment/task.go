// Package assignment models staff tasks scheduled per shift.
package assignment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
)

// Shift is the part of the day a task belongs to
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

// Valid reports whether s is a known shift
func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

// Status of a task
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// Task is work assigned to a staff member for one shift
type Task struct {
	ID          uuid.UUID  `json:"id"`
	StaffID     uuid.UUID  `json:"staff_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Shift       Shift      `json:"shift"`
	ShiftDate   time.Time  `json:"shift_date"`
	Status      Status     `json:"status"`
	AssignedBy  *uuid.UUID `json:"assigned_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTaskParams describes a task to assign
type NewTaskParams struct {
	StaffID     uuid.UUID
	Title       string
	Description string
	Shift       Shift
	ShiftDate   time.Time
	AssignedBy  *uuid.UUID
}

// NewTask creates an open task. ShiftDate is truncated to the UTC day.
func NewTask(p NewTaskParams) (*Task, error) {
	if p.StaffID == uuid.Nil {
		return nil, shared.ValidationError{Field: "staff_id", Reason: "is required"}
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, shared.ValidationError{Field: "title", Reason: "is required"}
	}
	if !p.Shift.Valid() {
		return nil, shared.ValidationError{Field: "shift", Reason: "unknown shift " + string(p.Shift)}
	}
	if p.ShiftDate.IsZero() {
		return nil, shared.ValidationError{Field: "shift_date", Reason: "is required"}
	}

	now := time.Now().UTC()
	return &Task{
		ID:          uuid.New(),
		StaffID:     p.StaffID,
		Title:       title,
		Description: strings.TrimSpace(p.Description),
		Shift:       p.Shift,
		ShiftDate:   p.ShiftDate.UTC().Truncate(24 * time.Hour),
		Status:      StatusOpen,
		AssignedBy:  p.AssignedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Complete marks an open task done
func (t *Task) Complete(at time.Time) error {
	if t.Status != StatusOpen {
		return shared.InvalidStateError{Entity: "task", ID: t.ID, From: string(t.Status), To: string(StatusDone)}
	}
	done := at.UTC()
	t.Status = StatusDone
	t.CompletedAt = &done
	t.UpdatedAt = done
	return nil
}

// Repository defines task persistence operations
type Repository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, task *Task) error
	ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*Task, error)
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Task, error)
	WithTx(tx pgx.Tx) Repository
}
