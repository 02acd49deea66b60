package board

import (
	"cmp"
	"slices"

	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/tree"
)

// Normalize repairs a board read from storage so every invariant holds again.
// Columns are ordered by Order and renumbered, duplicate task ids are dropped,
// broken or too-deep parent links are promoted to roots and every Children list
// is rebuilt from ParentID (existing order kept, missing children appended).
// It reports whether anything had to change.
func (b *Board) Normalize() bool {
	changed := false
	if b.Columns == nil {
		b.Columns = []*Column{}
	}
	b.Columns = slices.DeleteFunc(b.Columns, func(c *Column) bool { return c == nil })

	if !slices.IsSortedFunc(b.Columns, byOrder) {
		slices.SortStableFunc(b.Columns, byOrder)
		changed = true
	}
	for i, c := range b.Columns {
		if c.Order != i {
			c.Order = i
			changed = true
		}
		if c.normalize() {
			changed = true
		}
	}
	return changed
}

func byOrder(a, b *Column) int {
	return cmp.Compare(a.Order, b.Order)
}

func (c *Column) normalize() bool {
	changed := false
	if c.Tasks == nil {
		c.Tasks = []*task.Task{}
	}

	seen := make(map[string]bool, len(c.Tasks))
	before := len(c.Tasks)
	c.Tasks = slices.DeleteFunc(c.Tasks, func(t *task.Task) bool {
		if t == nil || seen[t.ID] {
			return true
		}
		seen[t.ID] = true
		return false
	})
	if len(c.Tasks) != before {
		changed = true
	}

	if c.repairParents() {
		changed = true
	}
	if c.rebuildChildren() {
		changed = true
	}
	return changed
}

// repairParents promotes tasks whose parent is missing, part of a cycle or too deep.
func (c *Column) repairParents() bool {
	changed := false
	idx := c.Index()
	for _, t := range c.Tasks {
		if t.ParentID != nil && (*t.ParentID == t.ID || !idx.Has(*t.ParentID)) {
			t.ParentID = nil
			changed = true
		}
	}

	for _, t := range c.Tasks {
		if t.IsRoot() {
			continue
		}
		chain := idx.Ancestors(t.ID)
		top := idx.Get(chain[len(chain)-1])
		if !top.IsRoot() || len(chain) > task.MaxDepth {
			t.ParentID = nil
			changed = true
		}
	}
	return changed
}

// rebuildChildren makes every Children list agree with ParentID.
func (c *Column) rebuildChildren() bool {
	changed := false
	idx := c.Index()

	byParent := make(map[string][]string)
	for _, t := range c.Tasks {
		if !t.IsRoot() {
			byParent[t.Parent()] = append(byParent[t.Parent()], t.ID)
		}
	}

	listed := make(map[string]bool)
	for _, owner := range c.Tasks {
		rebuilt := make([]string, 0, len(owner.Children))
		for _, id := range owner.Children {
			if child := idx.Get(id); child != nil && child.Parent() == owner.ID && !listed[id] {
				listed[id] = true
				rebuilt = append(rebuilt, id)
			}
		}
		for _, id := range byParent[owner.ID] {
			if !listed[id] {
				listed[id] = true
				rebuilt = append(rebuilt, id)
			}
		}
		if owner.Children == nil || !slices.Equal(owner.Children, rebuilt) {
			owner.Children = rebuilt
			changed = true
		}
	}
	return changed
}

// Validate checks every column's task tree.
func (b *Board) Validate() error {
	for _, c := range b.Columns {
		if err := tree.New(c.Tasks).Validate(); err != nil {
			return err
		}
	}
	return nil
}
