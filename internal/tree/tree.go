package tree

import (
	"github.com/abatilo/lanes/internal/task"
)

// Index is an id-keyed view over a column's flat task list. It does not own the
// tasks: mutations made through the returned pointers are visible to the caller.
type Index struct {
	tasks map[string]*task.Task
	order []*task.Task
}

// New creates an Index from a flat list of tasks, preserving their order.
func New(tasks []*task.Task) *Index {
	x := &Index{
		tasks: make(map[string]*task.Task, len(tasks)),
		order: tasks,
	}
	for _, t := range tasks {
		x.tasks[t.ID] = t
	}
	return x
}

// Get returns a task by ID, or nil.
func (x *Index) Get(id string) *task.Task {
	return x.tasks[id]
}

// Has reports whether the ID is present.
func (x *Index) Has(id string) bool {
	_, ok := x.tasks[id]
	return ok
}

// Len returns the number of indexed tasks.
func (x *Index) Len() int {
	return len(x.tasks)
}

// Depth returns how many ancestors the task has (root = 0), or -1 if unknown.
func (x *Index) Depth(id string) int {
	t := x.tasks[id]
	if t == nil {
		return -1
	}
	return len(x.Ancestors(id))
}

// Ancestors returns the parent chain of a task, nearest first.
// A dangling parent reference ends the chain.
func (x *Index) Ancestors(id string) []string {
	var chain []string
	seen := map[string]bool{id: true}
	t := x.tasks[id]
	for t != nil && t.ParentID != nil {
		pid := *t.ParentID
		if seen[pid] || x.tasks[pid] == nil {
			break
		}
		seen[pid] = true
		chain = append(chain, pid)
		t = x.tasks[pid]
	}
	return chain
}

// Descendants returns every task below id in pre-order, following Children lists.
func (x *Index) Descendants(id string) []string {
	var out []string
	visited := map[string]bool{id: true}

	var walk func(string)
	walk = func(current string) {
		t := x.tasks[current]
		if t == nil {
			return
		}
		for _, childID := range t.Children {
			if visited[childID] || x.tasks[childID] == nil {
				continue
			}
			visited[childID] = true
			out = append(out, childID)
			walk(childID)
		}
	}
	walk(id)
	return out
}

// Subtree returns id followed by its descendants. Unknown ids yield nil.
func (x *Index) Subtree(id string) []string {
	if x.tasks[id] == nil {
		return nil
	}
	return append([]string{id}, x.Descendants(id)...)
}

// Children resolves a task's Children list, skipping ids that are not indexed.
func (x *Index) Children(id string) []*task.Task {
	t := x.tasks[id]
	if t == nil {
		return nil
	}
	children := make([]*task.Task, 0, len(t.Children))
	for _, childID := range t.Children {
		if c := x.tasks[childID]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Roots returns the parentless tasks in flat order.
func (x *Index) Roots() []*task.Task {
	var roots []*task.Task
	for _, t := range x.order {
		if t.IsRoot() {
			roots = append(roots, t)
		}
	}
	return roots
}

// Validate checks the parent/children round trip, id uniqueness and the depth limit.
func (x *Index) Validate() error {
	if len(x.tasks) != len(x.order) {
		seen := make(map[string]bool, len(x.order))
		for _, t := range x.order {
			if seen[t.ID] {
				return InconsistencyError{TaskID: t.ID, Reason: "duplicate id"}
			}
			seen[t.ID] = true
		}
	}

	listedIn := make(map[string]int, len(x.order))
	for _, owner := range x.order {
		for _, childID := range owner.Children {
			child := x.tasks[childID]
			if child == nil {
				return InconsistencyError{TaskID: owner.ID, Reason: "dangling child " + childID}
			}
			if child.Parent() != owner.ID {
				return InconsistencyError{TaskID: childID, Reason: "listed as child of " + owner.ID + " but parentId is " + child.Parent()}
			}
			listedIn[childID]++
		}
	}

	for _, t := range x.order {
		if t.ParentID == nil {
			if listedIn[t.ID] != 0 {
				return InconsistencyError{TaskID: t.ID, Reason: "root task listed as a child"}
			}
			continue
		}
		if x.tasks[*t.ParentID] == nil {
			return InconsistencyError{TaskID: t.ID, Reason: "parent " + *t.ParentID + " does not exist"}
		}
		if listedIn[t.ID] != 1 {
			return InconsistencyError{TaskID: t.ID, Reason: "not listed exactly once by its parent"}
		}
		if x.Depth(t.ID) > task.MaxDepth {
			return InconsistencyError{TaskID: t.ID, Reason: "exceeds max depth"}
		}
	}
	return nil
}
