package storage

import (
	"encoding/json"
	"time"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/task"
)

// rawColumn is the on-disk column. Pointer fields tell absent apart from zero
// so documents written by older versions can be backfilled.
type rawColumn struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	BackgroundColor string    `json:"backgroundColor"`
	Visible         *bool     `json:"visible"`
	Order           *int      `json:"order"`
	AutoSort        *bool     `json:"autoSort"`
	Tasks           []rawTask `json:"tasks"`
}

type rawTask struct {
	ID          string        `json:"id"`
	Text        string        `json:"text"`
	Priority    task.Priority `json:"priority"`
	Completed   bool          `json:"completed"`
	CompletedAt *string       `json:"completedAt"`
	Cleared     *bool         `json:"cleared"`
	ClearedAt   *string       `json:"clearedAt"`
	Pending     *bool         `json:"pending"`
	ParentID    *string       `json:"parentId"`
	Children    []string      `json:"children"`
	DueDate     *string       `json:"dueDate"`
}

type rawBoard struct {
	Columns []rawColumn `json:"columns"`
}

// Decode parses a tasks.json document. Missing fields are backfilled
// (visible and order from position, everything else false or empty) and the
// result is normalized. repaired reports whether normalization had to fix
// the stored tree.
func Decode(data []byte) (*board.Board, bool, error) {
	var raw rawBoard
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, &parseError{"invalid tasks document: " + err.Error()}
	}

	b := &board.Board{Columns: make([]*board.Column, 0, len(raw.Columns))}
	for i, rc := range raw.Columns {
		c := &board.Column{
			ID:              rc.ID,
			Name:            rc.Name,
			BackgroundColor: rc.BackgroundColor,
			Visible:         valueOr(rc.Visible, true),
			Order:           valueOr(rc.Order, i),
			AutoSort:        valueOr(rc.AutoSort, false),
			Tasks:           make([]*task.Task, 0, len(rc.Tasks)),
		}
		for _, rt := range rc.Tasks {
			c.Tasks = append(c.Tasks, decodeTask(rt))
		}
		b.Columns = append(b.Columns, c)
	}

	repaired := b.Normalize()
	return b, repaired, nil
}

func decodeTask(rt rawTask) *task.Task {
	t := &task.Task{
		ID:          rt.ID,
		Text:        rt.Text,
		Priority:    rt.Priority,
		Completed:   rt.Completed,
		CompletedAt: parseTimestamp(rt.CompletedAt),
		Cleared:     valueOr(rt.Cleared, false),
		ClearedAt:   parseTimestamp(rt.ClearedAt),
		Pending:     valueOr(rt.Pending, false),
		ParentID:    rt.ParentID,
		Children:    rt.Children,
		DueDate:     valueOr(rt.DueDate, ""),
	}
	if t.Children == nil {
		t.Children = []string{}
	}
	if !t.Completed {
		t.CompletedAt = nil
	}
	return t
}

// Encode serializes the board as indented JSON.
func Encode(b *board.Board) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// parseTimestamp reads a stored instant. Unreadable values are dropped.
func parseTimestamp(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil
	}
	return &t
}

// parseTime tries to parse a time string in common formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &parseError{"unrecognized time format"}
}
