package task

import (
	"bytes"
	"encoding/json"
	"time"
)

// Priority represents the importance tag of a task. The zero value means no priority.
type Priority string

const (
	PriorityP0   Priority = "P0"
	PriorityP1   Priority = "P1"
	PriorityP2   Priority = "P2"
	PriorityNone Priority = ""
)

// MaxDepth is the deepest level a task may sit at (root = 0).
const MaxDepth = 2

// PriorityOrder returns the sort order for a priority (lower = higher priority).
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2 //nolint:mnd // enum rank
	default:
		return 3 //nolint:mnd // none sorts last
	}
}

// IsValidPriority checks if a priority value is one of the known tags (none included).
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityP0, PriorityP1, PriorityP2, PriorityNone:
		return true
	default:
		return false
	}
}

// ParsePriority converts user input into a Priority. "none" and "" both map to PriorityNone.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "P0", "p0":
		return PriorityP0, true
	case "P1", "p1":
		return PriorityP1, true
	case "P2", "p2":
		return PriorityP2, true
	case "", "none":
		return PriorityNone, true
	default:
		return PriorityNone, false
	}
}

// MarshalJSON writes PriorityNone as null.
func (p Priority) MarshalJSON() ([]byte, error) {
	if p == PriorityNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON reads null or an unknown tag as PriorityNone.
func (p *Priority) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = PriorityNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, _ := ParsePriority(s)
	*p = parsed
	return nil
}

// Task is a unit of work on the board. Tasks form a forest through ParentID/Children.
type Task struct {
	ID          string     `json:"id"                    yaml:"id"`
	Text        string     `json:"text"                  yaml:"text"`
	Priority    Priority   `json:"priority"              yaml:"priority,omitempty"`
	Completed   bool       `json:"completed"             yaml:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
	Cleared     bool       `json:"cleared"               yaml:"cleared"`
	ClearedAt   *time.Time `json:"clearedAt,omitempty"   yaml:"cleared_at,omitempty"`
	Pending     bool       `json:"pending"               yaml:"pending"`
	ParentID    *string    `json:"parentId"              yaml:"parent_id,omitempty"`
	Children    []string   `json:"children"              yaml:"children,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"     yaml:"due_date,omitempty"`
}

// IsRoot reports whether the task has no parent.
func (t *Task) IsRoot() bool {
	return t.ParentID == nil
}

// Parent returns the parent id, or "" for a root task.
func (t *Task) Parent() string {
	if t.ParentID == nil {
		return ""
	}
	return *t.ParentID
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.ClearedAt != nil {
		at := *t.ClearedAt
		c.ClearedAt = &at
	}
	if t.ParentID != nil {
		id := *t.ParentID
		c.ParentID = &id
	}
	c.Children = append([]string{}, t.Children...)
	return &c
}

// SetCompleted updates the completion flag and keeps CompletedAt in step with it.
func (t *Task) SetCompleted(completed bool, at time.Time) {
	t.Completed = completed
	if completed {
		stamp := at
		t.CompletedAt = &stamp
		return
	}
	t.CompletedAt = nil
}

// MarkCleared soft-deletes the task at the given instant.
func (t *Task) MarkCleared(at time.Time) {
	stamp := at
	t.Cleared = true
	t.ClearedAt = &stamp
}
