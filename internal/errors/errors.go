//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import (
	"fmt"
	"strings"
)

// ColumnNotFoundError indicates the column ID or name doesn't match any column.
type ColumnNotFoundError struct {
	Ref string
}

func (e ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Ref)
}

// TaskNotFoundError indicates the task ID doesn't match any task on the board.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// InvalidPriorityError indicates an invalid priority value.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: P0, P1, P2, none)", e.Value)
}

// InvalidDurationError indicates an unknown auto-clear duration.
type InvalidDurationError struct {
	Value string
	Valid []string
}

func (e InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid auto-clear duration: %s (valid: %s)", e.Value, strings.Join(e.Valid, ", "))
}

// InvalidDateError indicates a date that is not in YYYY-MM-DD form.
type InvalidDateError struct {
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %q (expected YYYY-MM-DD)", e.Value)
}

// InvalidRangeError indicates a report range that ends before it starts.
type InvalidRangeError struct {
	From string
	To   string
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: %s is after %s", e.From, e.To)
}

// MaxDepthError indicates a subtask would be nested below the deepest allowed level.
type MaxDepthError struct {
	ParentID string
}

func (e MaxDepthError) Error() string {
	return fmt.Sprintf("task %s is already at the maximum depth and cannot have subtasks", e.ParentID)
}

// EmptyTextError indicates a name or task text that is blank after trimming.
type EmptyTextError struct {
	Field string
}

func (e EmptyTextError) Error() string {
	return e.Field + " must not be empty"
}

// SaveError indicates a blob could not be persisted.
type SaveError struct {
	Name string
	Err  error
}

func (e SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Name, e.Err)
}

func (e SaveError) Unwrap() error {
	return e.Err
}

// LockedError indicates another live process owns the data directory.
type LockedError struct {
	PID      int
	Hostname string
}

func (e LockedError) Error() string {
	return fmt.Sprintf("data directory is locked by pid %d on %s; stop it first", e.PID, e.Hostname)
}
