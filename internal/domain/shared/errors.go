package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports a missing or malformed input. It is always returned
// before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError when the target has no field set
func (e ValidationError) Is(target error) bool {
	t, ok := target.(ValidationError)
	if !ok {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

// InvalidStateError reports a transition the state machine does not allow
type InvalidStateError struct {
	Entity string
	ID     uuid.UUID
	From   string
	To     string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: cannot move from %s to %s", e.Entity, e.ID, e.From, e.To)
}

// Is matches any InvalidStateError when the target has no entity set
func (e InvalidStateError) Is(target error) bool {
	t, ok := target.(InvalidStateError)
	if !ok {
		return false
	}
	if t.Entity == "" {
		return true
	}
	return t.Entity == e.Entity && (t.ID == uuid.Nil || t.ID == e.ID)
}

// NotFoundError reports an unknown identifier
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Is matches any NotFoundError when the target has no entity set
func (e NotFoundError) Is(target error) bool {
	t, ok := target.(NotFoundError)
	if !ok {
		return false
	}
	if t.Entity == "" {
		return true
	}
	return t.Entity == e.Entity && (t.ID == uuid.Nil || t.ID == e.ID)
}

// ConflictError reports a write that lost against concurrent or overlapping data
type ConflictError struct {
	Entity string
	ID     uuid.UUID
	Reason string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s: conflict: %s", e.Entity, e.ID, e.Reason)
}

// Is matches any ConflictError when the target has no entity set
func (e ConflictError) Is(target error) bool {
	t, ok := target.(ConflictError)
	if !ok {
		return false
	}
	if t.Entity == "" {
		return true
	}
	return t.Entity == e.Entity && (t.ID == uuid.Nil || t.ID == e.ID)
}

// StoreError wraps a failure of the underlying store
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}

// Is matches any StoreError when the target has no operation set
func (e StoreError) Is(target error) bool {
	t, ok := target.(StoreError)
	if !ok {
		return false
	}
	return t.Op == "" || t.Op == e.Op
}
