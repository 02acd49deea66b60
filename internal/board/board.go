// Package board holds the column/task data model and every mutation on it.
//
// Mutations act on the receiver in place and report whether anything changed.
// Callers that need immutable snapshots (see internal/store) clone first and
// publish the clone only when the mutation reports a change.
package board

import (
	"slices"
	"strings"
	"time"

	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/tree"
)

// Column is a named lane holding a flat list of tasks (roots and descendants).
type Column struct {
	ID              string       `json:"id"              yaml:"id"`
	Name            string       `json:"name"            yaml:"name"`
	BackgroundColor string       `json:"backgroundColor" yaml:"background_color"`
	Visible         bool         `json:"visible"         yaml:"visible"`
	Order           int          `json:"order"           yaml:"order"`
	AutoSort        bool         `json:"autoSort"        yaml:"auto_sort"`
	Tasks           []*task.Task `json:"tasks"           yaml:"tasks"`
}

// Board is the entire persisted state: columns in display order.
type Board struct {
	Columns []*Column `json:"columns" yaml:"columns"`
}

// New returns an empty board.
func New() *Board {
	return &Board{Columns: []*Column{}}
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{Columns: make([]*Column, len(b.Columns))}
	for i, col := range b.Columns {
		c.Columns[i] = col.Clone()
	}
	return c
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	cc := *c
	cc.Tasks = make([]*task.Task, len(c.Tasks))
	for i, t := range c.Tasks {
		cc.Tasks[i] = t.Clone()
	}
	return &cc
}

// Index builds the id index over the column's tasks.
func (c *Column) Index() *tree.Index {
	return tree.New(c.Tasks)
}

// Task returns a task in this column by ID, or nil.
func (c *Column) Task(id string) *task.Task {
	for _, t := range c.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Column returns a column by ID, or nil.
func (b *Board) Column(id string) *Column {
	for _, c := range b.Columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ColumnByName returns the first column whose name matches case-insensitively, or nil.
func (b *Board) ColumnByName(name string) *Column {
	for _, c := range b.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// ColumnOf returns the column that holds the task, or nil.
func (b *Board) ColumnOf(taskID string) *Column {
	for _, c := range b.Columns {
		if c.Task(taskID) != nil {
			return c
		}
	}
	return nil
}

// VisibleColumns returns the columns shown in the main view, in order.
func (b *Board) VisibleColumns() []*Column {
	var visible []*Column
	for _, c := range b.Columns {
		if c.Visible {
			visible = append(visible, c)
		}
	}
	return visible
}

// idExists reports whether any column or task already uses id.
func (b *Board) idExists(id string) bool {
	for _, c := range b.Columns {
		if c.ID == id || c.Task(id) != nil {
			return true
		}
	}
	return false
}

// renumber rewrites Order as the dense 0..N-1 position of each column.
func (b *Board) renumber() {
	for i, c := range b.Columns {
		c.Order = i
	}
}

// AddColumn appends a visible, unsorted, empty column and returns its ID.
// An empty name is rejected with "".
func (b *Board) AddColumn(name, color string, now time.Time) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	id := task.GenerateID("c", name, now, b.idExists)
	b.Columns = append(b.Columns, &Column{
		ID:              id,
		Name:            name,
		BackgroundColor: color,
		Visible:         true,
		Order:           len(b.Columns),
		AutoSort:        false,
		Tasks:           []*task.Task{},
	})
	return id
}

// DeleteColumn removes a column and all of its tasks.
func (b *Board) DeleteColumn(columnID string) bool {
	idx := slices.IndexFunc(b.Columns, func(c *Column) bool { return c.ID == columnID })
	if idx < 0 {
		return false
	}
	b.Columns = slices.Delete(b.Columns, idx, idx+1)
	b.renumber()
	return true
}

// UpdateColumnColor sets the column background.
func (b *Board) UpdateColumnColor(columnID, color string) bool {
	c := b.Column(columnID)
	if c == nil || c.BackgroundColor == color {
		return false
	}
	c.BackgroundColor = color
	return true
}

// RenameColumn sets the column display name. Empty names are ignored.
func (b *Board) RenameColumn(columnID, name string) bool {
	name = strings.TrimSpace(name)
	c := b.Column(columnID)
	if c == nil || name == "" || c.Name == name {
		return false
	}
	c.Name = name
	return true
}

// ToggleColumnVisibility flips whether the column is shown.
func (b *Board) ToggleColumnVisibility(columnID string) bool {
	c := b.Column(columnID)
	if c == nil {
		return false
	}
	c.Visible = !c.Visible
	return true
}

// ToggleAutoSort flips priority sorting for the column's views.
func (b *Board) ToggleAutoSort(columnID string) bool {
	c := b.Column(columnID)
	if c == nil {
		return false
	}
	c.AutoSort = !c.AutoSort
	return true
}

// ReorderColumns moves the column at from to position to and renumbers all columns.
func (b *Board) ReorderColumns(from, to int) bool {
	n := len(b.Columns)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		b.renumber()
		return false
	}
	moved := b.Columns[from]
	b.Columns = slices.Delete(b.Columns, from, from+1)
	b.Columns = slices.Insert(b.Columns, to, moved)
	b.renumber()
	return true
}
