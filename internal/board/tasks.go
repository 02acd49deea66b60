package board

import (
	"slices"
	"strings"
	"time"

	"github.com/abatilo/lanes/internal/task"
)

// dueDateLayout is the ISO calendar date format due dates are stored in.
const dueDateLayout = "2006-01-02"

func (b *Board) newTask(text string, priority task.Priority, parentID *string, now time.Time) *task.Task {
	return &task.Task{
		ID:       task.GenerateID("t", text, now, b.idExists),
		Text:     text,
		Priority: priority,
		ParentID: parentID,
		Children: []string{},
	}
}

// AddTask appends a root task to the column and returns its ID, or "" when rejected.
func (b *Board) AddTask(columnID, text string, priority task.Priority, now time.Time) string {
	text = strings.TrimSpace(text)
	c := b.Column(columnID)
	if c == nil || text == "" || !task.IsValidPriority(priority) {
		return ""
	}
	t := b.newTask(text, priority, nil, now)
	c.Tasks = append(c.Tasks, t)
	return t.ID
}

// AddSubtask creates a task under parentID and returns its ID.
// It returns "" without touching the tree when the parent is missing or already
// sits at task.MaxDepth, so no task can ever be created below the grandchild level.
func (b *Board) AddSubtask(columnID, parentID, text string, priority task.Priority, now time.Time) string {
	text = strings.TrimSpace(text)
	c := b.Column(columnID)
	if c == nil || text == "" || !task.IsValidPriority(priority) {
		return ""
	}
	idx := c.Index()
	parent := idx.Get(parentID)
	if parent == nil || idx.Depth(parentID) >= task.MaxDepth {
		return ""
	}
	pid := parentID
	t := b.newTask(text, priority, &pid, now)
	c.Tasks = append(c.Tasks, t)
	parent.Children = append(parent.Children, t.ID)
	return t.ID
}

// ToggleTask flips completion on the task and every descendant to the same value.
// All affected tasks share one CompletedAt stamp when turning on.
func (b *Board) ToggleTask(columnID, taskID string, now time.Time) bool {
	c := b.Column(columnID)
	if c == nil {
		return false
	}
	idx := c.Index()
	target := idx.Get(taskID)
	if target == nil {
		return false
	}
	completed := !target.Completed
	for _, id := range idx.Subtree(taskID) {
		idx.Get(id).SetCompleted(completed, now)
	}
	return true
}

// DeleteTask permanently removes the task and its subtree and unlinks it from its parent.
func (b *Board) DeleteTask(columnID, taskID string) bool {
	c := b.Column(columnID)
	if c == nil {
		return false
	}
	return c.RemoveTask(taskID)
}

// RemoveTask deletes a task subtree from the column, keeping parent links consistent.
func (c *Column) RemoveTask(taskID string) bool {
	idx := c.Index()
	target := idx.Get(taskID)
	if target == nil {
		return false
	}

	doomed := make(map[string]bool)
	for _, id := range idx.Subtree(taskID) {
		doomed[id] = true
	}
	if parent := idx.Get(target.Parent()); parent != nil {
		parent.Children = slices.DeleteFunc(parent.Children, func(id string) bool { return id == taskID })
	}
	c.Tasks = slices.DeleteFunc(c.Tasks, func(t *task.Task) bool { return doomed[t.ID] })
	return true
}

// ClearCompleted soft-deletes every completed task in the column that is not already cleared.
// Links are left untouched so reports can still walk the tree.
func (b *Board) ClearCompleted(columnID string, now time.Time) int {
	c := b.Column(columnID)
	if c == nil {
		return 0
	}
	cleared := 0
	for _, t := range c.Tasks {
		if t.Completed && !t.Cleared {
			t.MarkCleared(now)
			cleared++
		}
	}
	return cleared
}

// UpdateTask replaces the task text. Empty text is ignored.
func (b *Board) UpdateTask(columnID, taskID, text string) bool {
	text = strings.TrimSpace(text)
	t := b.task(columnID, taskID)
	if t == nil || text == "" || t.Text == text {
		return false
	}
	t.Text = text
	return true
}

// UpdateTaskPriority sets the task priority.
func (b *Board) UpdateTaskPriority(columnID, taskID string, priority task.Priority) bool {
	t := b.task(columnID, taskID)
	if t == nil || !task.IsValidPriority(priority) || t.Priority == priority {
		return false
	}
	t.Priority = priority
	return true
}

// TogglePending flips the pending flag without cascading.
func (b *Board) TogglePending(columnID, taskID string) bool {
	t := b.task(columnID, taskID)
	if t == nil {
		return false
	}
	t.Pending = !t.Pending
	return true
}

// SetDueDate stores a YYYY-MM-DD due date on the task. Unparseable dates are ignored.
func (b *Board) SetDueDate(columnID, taskID, date string) bool {
	t := b.task(columnID, taskID)
	if t == nil || t.DueDate == date {
		return false
	}
	if _, err := time.Parse(dueDateLayout, date); err != nil {
		return false
	}
	t.DueDate = date
	return true
}

// RemoveDueDate clears the task's due date.
func (b *Board) RemoveDueDate(columnID, taskID string) bool {
	t := b.task(columnID, taskID)
	if t == nil || t.DueDate == "" {
		return false
	}
	t.DueDate = ""
	return true
}

// MoveTask moves a task to position to among its siblings that are not
// cleared, the ones a column view shows. Root tasks are reordered within the
// column's flat list; subtasks within their parent's Children. Cleared
// siblings keep their place relative to the others.
func (b *Board) MoveTask(columnID, taskID string, to int) bool {
	c := b.Column(columnID)
	if c == nil {
		return false
	}
	idx := c.Index()
	t := idx.Get(taskID)
	if t == nil {
		return false
	}

	if parent := idx.Get(t.Parent()); parent != nil {
		moved, ok := moveID(parent.Children, taskID, to, c.shown)
		if ok {
			parent.Children = moved
		}
		return ok
	}

	var rootIDs []string
	for _, r := range idx.Roots() {
		rootIDs = append(rootIDs, r.ID)
	}
	moved, ok := moveID(rootIDs, taskID, to, c.shown)
	if !ok {
		return false
	}
	reordered := make([]*task.Task, 0, len(c.Tasks))
	for _, id := range moved {
		reordered = append(reordered, idx.Get(id))
	}
	for _, tk := range c.Tasks {
		if !tk.IsRoot() {
			reordered = append(reordered, tk)
		}
	}
	c.Tasks = reordered
	return true
}

// Siblings returns the uncleared tasks that share taskID's parent, taskID
// included, in order. MoveTask positions index into this list.
func (c *Column) Siblings(taskID string) []*task.Task {
	idx := c.Index()
	t := idx.Get(taskID)
	if t == nil {
		return nil
	}
	all := idx.Roots()
	if !t.IsRoot() {
		all = idx.Children(t.Parent())
	}
	var out []*task.Task
	for _, s := range all {
		if !s.Cleared {
			out = append(out, s)
		}
	}
	return out
}

func (c *Column) shown(id string) bool {
	t := c.Task(id)
	return t != nil && !t.Cleared
}

// moveID returns ids with id moved to position to among the ids accepted by
// shown. ok is false when nothing moves.
func moveID(ids []string, id string, to int, shown func(string) bool) ([]string, bool) {
	var visible []string
	for _, v := range ids {
		if shown(v) {
			visible = append(visible, v)
		}
	}
	from := slices.Index(visible, id)
	if from < 0 || to < 0 || to >= len(visible) || from == to {
		return ids, false
	}
	target := visible[to]

	out := slices.Clone(ids)
	out = slices.Delete(out, slices.Index(out, id), slices.Index(out, id)+1)
	at := slices.Index(out, target)
	if to > from {
		at++
	}
	return slices.Insert(out, at, id), true
}

func (b *Board) task(columnID, taskID string) *task.Task {
	c := b.Column(columnID)
	if c == nil {
		return nil
	}
	return c.Task(taskID)
}
