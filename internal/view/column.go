// Package view derives read-only presentations of a board snapshot: the
// display forest of a column, the Markdown mirror and the completion report.
// Nothing here mutates the board.
package view

import (
	"cmp"
	"slices"
	"time"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/settings"
	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/tree"
)

// Options controls how a column is rendered.
type Options struct {
	DueDateMode settings.DueDateDisplayMode
	Today       time.Time
}

// Node is one task in a column's display forest.
type Node struct {
	Task     *task.Task `json:"task"               yaml:"task"`
	Depth    int        `json:"depth"              yaml:"depth"`
	Due      *Due       `json:"due,omitempty"      yaml:"due,omitempty"`
	Children []*Node    `json:"children,omitempty" yaml:"children,omitempty"`
}

// ColumnView is a column together with its display forest.
type ColumnView struct {
	ID              string  `json:"id"              yaml:"id"`
	Name            string  `json:"name"            yaml:"name"`
	BackgroundColor string  `json:"backgroundColor" yaml:"background_color"`
	Visible         bool    `json:"visible"         yaml:"visible"`
	AutoSort        bool    `json:"autoSort"        yaml:"auto_sort"`
	Tasks           []*Node `json:"tasks"           yaml:"tasks"`
}

// Column builds the display forest of a column. Cleared tasks are left out
// along with everything beneath them. At every level incomplete tasks come
// before completed ones, and with AutoSort each group is ordered by priority.
func Column(c *board.Column, opts Options) ColumnView {
	idx := c.Index()
	return ColumnView{
		ID:              c.ID,
		Name:            c.Name,
		BackgroundColor: c.BackgroundColor,
		Visible:         c.Visible,
		AutoSort:        c.AutoSort,
		Tasks:           buildLevel(idx, idx.Roots(), 0, c.AutoSort, opts),
	}
}

// Board builds the views of every visible column in order.
func Board(b *board.Board, opts Options) []ColumnView {
	visible := b.VisibleColumns()
	views := make([]ColumnView, 0, len(visible))
	for _, c := range visible {
		views = append(views, Column(c, opts))
	}
	return views
}

func buildLevel(idx *tree.Index, siblings []*task.Task, depth int, autoSort bool, opts Options) []*Node {
	ordered := arrange(siblings, autoSort)
	nodes := make([]*Node, 0, len(ordered))
	for _, t := range ordered {
		n := &Node{Task: t, Depth: depth}
		if t.DueDate != "" {
			// An unparseable stored date just renders without a label.
			n.Due, _ = NewDue(t.DueDate, opts.DueDateMode, resolveToday(opts))
		}
		if depth < task.MaxDepth {
			n.Children = buildLevel(idx, idx.Children(t.ID), depth+1, autoSort, opts)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// arrange drops cleared tasks and puts incomplete ones first.
func arrange(siblings []*task.Task, autoSort bool) []*task.Task {
	var open, done []*task.Task
	for _, t := range siblings {
		switch {
		case t.Cleared:
		case t.Completed:
			done = append(done, t)
		default:
			open = append(open, t)
		}
	}
	if autoSort {
		slices.SortStableFunc(open, byPriority)
		slices.SortStableFunc(done, byPriority)
	}
	return append(open, done...)
}

func byPriority(a, b *task.Task) int {
	return cmp.Compare(task.PriorityOrder(a.Priority), task.PriorityOrder(b.Priority))
}

func resolveToday(opts Options) time.Time {
	if opts.Today.IsZero() {
		return time.Now()
	}
	return opts.Today
}
