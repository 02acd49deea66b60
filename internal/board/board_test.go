//nolint:testpackage // Tests require internal access for thorough testing
package board

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/tree"
)

var testNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // fixed clock

func newBoardWithColumn(t *testing.T) (*Board, string) {
	t.Helper()
	b := New()
	colID := b.AddColumn("Work", b.NextColor(), testNow)
	if colID == "" {
		t.Fatal("AddColumn returned empty id")
	}
	return b, colID
}

// buildTree creates root -> (child -> grandchild, sibling).
func buildTree(t *testing.T, b *Board, colID string) (string, string, string, string) {
	t.Helper()
	root := b.AddTask(colID, "root", task.PriorityNone, testNow)
	child := b.AddSubtask(colID, root, "child", task.PriorityP1, testNow)
	grandchild := b.AddSubtask(colID, child, "grandchild", task.PriorityNone, testNow)
	sibling := b.AddSubtask(colID, root, "sibling", task.PriorityP0, testNow)
	if root == "" || child == "" || grandchild == "" || sibling == "" {
		t.Fatal("failed to build task tree")
	}
	return root, child, grandchild, sibling
}

func assertConsistent(t *testing.T, b *Board) {
	t.Helper()
	if err := b.Validate(); err != nil {
		t.Fatalf("board inconsistent: %v", err)
	}
}

func TestAddColumn(t *testing.T) {
	b := New()
	first := b.AddColumn("Todo", "#3c3836", testNow)
	second := b.AddColumn("  Done  ", "#504945", testNow)

	if first == second {
		t.Fatalf("column ids collide: %q", first)
	}
	if got := b.AddColumn("   ", "#000000", testNow); got != "" {
		t.Errorf("AddColumn with blank name = %q, want empty", got)
	}
	if len(b.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(b.Columns))
	}

	c := b.Column(second)
	if c.Name != "Done" || c.Order != 1 || !c.Visible || c.AutoSort || len(c.Tasks) != 0 {
		t.Errorf("unexpected new column: %+v", c)
	}
	if b.ColumnByName("done") != c {
		t.Error("ColumnByName should match case-insensitively")
	}
}

func TestDeleteColumnRenumbers(t *testing.T) {
	b := New()
	ids := []string{
		b.AddColumn("a", "", testNow),
		b.AddColumn("b", "", testNow),
		b.AddColumn("c", "", testNow),
	}

	if !b.DeleteColumn(ids[1]) {
		t.Fatal("DeleteColumn reported no change")
	}
	if b.DeleteColumn("missing") {
		t.Error("DeleteColumn on unknown id should be a no-op")
	}
	for i, c := range b.Columns {
		if c.Order != i {
			t.Errorf("column %s order = %d, want %d", c.Name, c.Order, i)
		}
	}
}

func TestReorderColumnsIsDense(t *testing.T) {
	const n = 5
	for from := range n {
		for to := range n {
			b := New()
			for i := range n {
				b.AddColumn(string(rune('a'+i)), "", testNow)
			}
			moved := b.Columns[from].ID

			b.ReorderColumns(from, to)

			if b.Columns[to].ID != moved {
				t.Errorf("ReorderColumns(%d, %d): column not at target", from, to)
			}
			for i, c := range b.Columns {
				if c.Order != i {
					t.Errorf("ReorderColumns(%d, %d): order[%d] = %d", from, to, i, c.Order)
				}
			}
		}
	}

	b := New()
	b.AddColumn("a", "", testNow)
	if b.ReorderColumns(0, 3) || b.ReorderColumns(-1, 0) {
		t.Error("out-of-range reorder should be a no-op")
	}
}

func TestColumnFieldUpdates(t *testing.T) {
	b, colID := newBoardWithColumn(t)

	if !b.UpdateColumnColor(colID, "#b16286") || b.Column(colID).BackgroundColor != "#b16286" {
		t.Error("UpdateColumnColor did not apply")
	}
	if !b.RenameColumn(colID, "Home") || b.Column(colID).Name != "Home" {
		t.Error("RenameColumn did not apply")
	}
	if b.RenameColumn(colID, "") {
		t.Error("RenameColumn with empty name should be a no-op")
	}
	if !b.ToggleColumnVisibility(colID) || b.Column(colID).Visible {
		t.Error("ToggleColumnVisibility did not hide column")
	}
	if !b.ToggleAutoSort(colID) || !b.Column(colID).AutoSort {
		t.Error("ToggleAutoSort did not enable sorting")
	}
	if b.ToggleAutoSort("missing") {
		t.Error("ToggleAutoSort on unknown column should be a no-op")
	}
}

func TestAddTaskRejectsEmptyText(t *testing.T) {
	b, colID := newBoardWithColumn(t)

	if got := b.AddTask(colID, "  ", task.PriorityNone, testNow); got != "" {
		t.Errorf("AddTask with blank text = %q, want empty", got)
	}
	if got := b.AddTask("missing", "x", task.PriorityNone, testNow); got != "" {
		t.Errorf("AddTask in unknown column = %q, want empty", got)
	}
	if got := b.AddTask(colID, "x", task.Priority("P9"), testNow); got != "" {
		t.Errorf("AddTask with invalid priority = %q, want empty", got)
	}
}

func TestAddSubtaskDepthLimit(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	_, _, grandchild, _ := buildTree(t, b, colID)
	before := b.Clone()

	if got := b.AddSubtask(colID, grandchild, "too deep", task.PriorityNone, testNow); got != "" {
		t.Fatalf("AddSubtask below depth 2 = %q, want rejection", got)
	}
	if got := b.AddSubtask(colID, "missing", "orphan", task.PriorityNone, testNow); got != "" {
		t.Fatalf("AddSubtask with unknown parent = %q, want rejection", got)
	}
	if len(b.Column(colID).Tasks) != len(before.Column(colID).Tasks) {
		t.Error("rejected AddSubtask changed the task list")
	}
	if len(b.Column(colID).Task(grandchild).Children) != 0 {
		t.Error("rejected AddSubtask linked a child")
	}
	assertConsistent(t, b)
}

func TestToggleTaskCascades(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	root, _, _, _ := buildTree(t, b, colID)
	col := b.Column(colID)
	subtree := col.Index().Subtree(root)
	other := b.AddTask(colID, "unrelated", task.PriorityNone, testNow)

	if !b.ToggleTask(colID, root, testNow) {
		t.Fatal("ToggleTask reported no change")
	}
	for _, id := range subtree {
		tk := col.Task(id)
		if !tk.Completed || tk.CompletedAt == nil || !tk.CompletedAt.Equal(testNow) {
			t.Errorf("task %s not completed at %v: %+v", id, testNow, tk)
		}
	}
	if col.Task(other).Completed {
		t.Error("toggle leaked outside the subtree")
	}

	later := testNow.Add(time.Hour)
	b.ToggleTask(colID, root, later)
	for _, id := range subtree {
		tk := col.Task(id)
		if tk.Completed || tk.CompletedAt != nil {
			t.Errorf("task %s still completed after toggle off: %+v", id, tk)
		}
	}
}

func TestToggleChildDoesNotTouchParent(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	root, child, grandchild, sibling := buildTree(t, b, colID)
	col := b.Column(colID)

	b.ToggleTask(colID, child, testNow)

	if !col.Task(child).Completed || !col.Task(grandchild).Completed {
		t.Error("child subtree should be completed")
	}
	if col.Task(root).Completed || col.Task(sibling).Completed {
		t.Error("parent and sibling should be untouched")
	}
}

func TestDeleteTaskRemovesSubtree(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	root, child, grandchild, sibling := buildTree(t, b, colID)
	col := b.Column(colID)

	if !b.DeleteTask(colID, child) {
		t.Fatal("DeleteTask reported no change")
	}
	if col.Task(child) != nil || col.Task(grandchild) != nil {
		t.Error("deleted subtree still present")
	}
	if col.Task(root) == nil || col.Task(sibling) == nil {
		t.Error("DeleteTask removed tasks outside the subtree")
	}
	if !slices.Equal(col.Task(root).Children, []string{sibling}) {
		t.Errorf("root children = %v, want [%s]", col.Task(root).Children, sibling)
	}
	if b.DeleteTask(colID, child) {
		t.Error("second DeleteTask should be a no-op")
	}
	assertConsistent(t, b)
}

func TestClearCompleted(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	root, child, grandchild, sibling := buildTree(t, b, colID)
	col := b.Column(colID)
	b.ToggleTask(colID, child, testNow)

	clearAt := testNow.Add(time.Minute)
	if n := b.ClearCompleted(colID, clearAt); n != 2 {
		t.Fatalf("ClearCompleted cleared %d tasks, want 2", n)
	}
	for _, id := range []string{child, grandchild} {
		tk := col.Task(id)
		if !tk.Cleared || tk.ClearedAt == nil || !tk.ClearedAt.Equal(clearAt) {
			t.Errorf("task %s not cleared: %+v", id, tk)
		}
	}
	if col.Task(root).Cleared || col.Task(sibling).Cleared {
		t.Error("incomplete tasks should not be cleared")
	}
	if !slices.Contains(col.Task(root).Children, child) {
		t.Error("clearing must not unlink children")
	}

	if n := b.ClearCompleted(colID, clearAt.Add(time.Hour)); n != 0 {
		t.Errorf("second ClearCompleted cleared %d tasks, want 0", n)
	}
	if !col.Task(child).ClearedAt.Equal(clearAt) {
		t.Error("already-cleared task had its clearedAt rewritten")
	}
}

func TestTaskFieldUpdates(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	id := b.AddTask(colID, "write docs", task.PriorityNone, testNow)
	col := b.Column(colID)

	tests := []struct {
		name    string
		apply   func() bool
		changed bool
	}{
		{"edit text", func() bool { return b.UpdateTask(colID, id, "write better docs") }, true},
		{"edit blank", func() bool { return b.UpdateTask(colID, id, " ") }, false},
		{"priority", func() bool { return b.UpdateTaskPriority(colID, id, task.PriorityP2) }, true},
		{"same priority", func() bool { return b.UpdateTaskPriority(colID, id, task.PriorityP2) }, false},
		{"pending", func() bool { return b.TogglePending(colID, id) }, true},
		{"due date", func() bool { return b.SetDueDate(colID, id, "2024-01-15") }, true},
		{"bad due date", func() bool { return b.SetDueDate(colID, id, "15/01/2024") }, false},
		{"unknown task", func() bool { return b.TogglePending(colID, "missing") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.apply(); got != tt.changed {
				t.Errorf("changed = %v, want %v", got, tt.changed)
			}
		})
	}

	tk := col.Task(id)
	if tk.Text != "write better docs" || tk.Priority != task.PriorityP2 || !tk.Pending || tk.DueDate != "2024-01-15" {
		t.Errorf("unexpected task after updates: %+v", tk)
	}
	if !b.RemoveDueDate(colID, id) || tk.DueDate != "" {
		t.Error("RemoveDueDate did not clear the date")
	}
}

func TestMoveTask(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	a := b.AddTask(colID, "a", task.PriorityNone, testNow)
	c1 := b.AddSubtask(colID, a, "a1", task.PriorityNone, testNow)
	c2 := b.AddSubtask(colID, a, "a2", task.PriorityNone, testNow)
	bID := b.AddTask(colID, "b", task.PriorityNone, testNow)
	cID := b.AddTask(colID, "c", task.PriorityNone, testNow)
	col := b.Column(colID)

	if !b.MoveTask(colID, cID, 0) {
		t.Fatal("MoveTask reported no change")
	}
	var roots []string
	for _, r := range col.Index().Roots() {
		roots = append(roots, r.ID)
	}
	if !slices.Equal(roots, []string{cID, a, bID}) {
		t.Errorf("roots = %v, want [%s %s %s]", roots, cID, a, bID)
	}

	if !b.MoveTask(colID, c2, 0) {
		t.Fatal("MoveTask on subtask reported no change")
	}
	if !slices.Equal(col.Task(a).Children, []string{c2, c1}) {
		t.Errorf("children = %v, want [%s %s]", col.Task(a).Children, c2, c1)
	}
	if b.MoveTask(colID, c2, 5) {
		t.Error("out-of-range MoveTask should be a no-op")
	}
	assertConsistent(t, b)
}

func TestMoveTaskSkipsClearedSiblings(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	old := b.AddTask(colID, "old", task.PriorityNone, testNow)
	a := b.AddTask(colID, "a", task.PriorityNone, testNow)
	c := b.AddTask(colID, "c", task.PriorityNone, testNow)
	b.ToggleTask(colID, old, testNow)
	b.ClearCompleted(colID, testNow)
	col := b.Column(colID)

	var shown []string
	for _, s := range col.Siblings(a) {
		shown = append(shown, s.ID)
	}
	if !slices.Equal(shown, []string{a, c}) {
		t.Fatalf("Siblings = %v, want [%s %s]", shown, a, c)
	}

	if !b.MoveTask(colID, a, 1) {
		t.Fatal("moving a to the last shown position reported no change")
	}
	var roots []string
	for _, r := range col.Index().Roots() {
		roots = append(roots, r.ID)
	}
	if !slices.Equal(roots, []string{old, c, a}) {
		t.Errorf("roots = %v, want [%s %s %s]", roots, old, c, a)
	}

	if b.MoveTask(colID, a, 2) {
		t.Error("position past the shown siblings should be a no-op")
	}
	if b.MoveTask(colID, old, 0) {
		t.Error("a cleared task should not move")
	}
	if b.MoveTask(colID, c, 0) {
		t.Error("moving to the current shown position should be a no-op")
	}
	assertConsistent(t, b)
}

func TestReferentialRoundTripAfterOperations(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	root, child, _, sibling := buildTree(t, b, colID)
	second := b.AddTask(colID, "second", task.PriorityP2, testNow)
	b.AddSubtask(colID, second, "second child", task.PriorityNone, testNow)

	b.ToggleTask(colID, child, testNow)
	b.ClearCompleted(colID, testNow)
	b.DeleteTask(colID, sibling)
	b.MoveTask(colID, second, 0)
	b.AddSubtask(colID, root, "late child", task.PriorityNone, testNow)
	b.DeleteTask(colID, root)

	assertConsistent(t, b)
}

func TestCloneIsIndependent(t *testing.T) {
	b, colID := newBoardWithColumn(t)
	root, _, _, _ := buildTree(t, b, colID)

	clone := b.Clone()
	clone.ToggleTask(colID, root, testNow)
	clone.RenameColumn(colID, "Other")

	if b.Column(colID).Task(root).Completed {
		t.Error("mutating the clone changed the original task")
	}
	if b.Column(colID).Name != "Work" {
		t.Error("mutating the clone changed the original column")
	}
}

func TestNormalizeRepairsTree(t *testing.T) {
	parent := func(id string) *string { return &id }

	b := &Board{Columns: []*Column{
		{ID: "c2", Name: "second", Order: 5},
		{ID: "c1", Name: "first", Order: 1, Tasks: []*task.Task{
			{ID: "a", Text: "a", Children: []string{"ghost", "b"}},
			{ID: "b", Text: "b", ParentID: parent("a")},
			{ID: "c", Text: "c", ParentID: parent("a")},
			{ID: "d", Text: "d", ParentID: parent("nobody")},
			{ID: "a", Text: "duplicate"},
		}},
	}}

	if !b.Normalize() {
		t.Fatal("Normalize reported no change")
	}
	if b.Columns[0].ID != "c1" || b.Columns[0].Order != 0 || b.Columns[1].Order != 1 {
		t.Errorf("columns not sorted and renumbered: %s/%d %s/%d",
			b.Columns[0].ID, b.Columns[0].Order, b.Columns[1].ID, b.Columns[1].Order)
	}

	col := b.Column("c1")
	if len(col.Tasks) != 4 {
		t.Errorf("tasks = %d, want 4 after dropping duplicate", len(col.Tasks))
	}
	if !slices.Equal(col.Task("a").Children, []string{"b", "c"}) {
		t.Errorf("a children = %v, want [b c]", col.Task("a").Children)
	}
	if !col.Task("d").IsRoot() {
		t.Error("orphaned task should be promoted to root")
	}
	if b.Column("c2").Tasks == nil {
		t.Error("missing task list should be backfilled")
	}
	assertConsistent(t, b)

	if b.Normalize() {
		t.Error("Normalize on a consistent board should report no change")
	}
}

func TestNormalizeBreaksCyclesAndDepth(t *testing.T) {
	parent := func(id string) *string { return &id }

	b := &Board{Columns: []*Column{{ID: "c", Tasks: []*task.Task{
		{ID: "x", Text: "x", ParentID: parent("y")},
		{ID: "y", Text: "y", ParentID: parent("x")},
		{ID: "r", Text: "r"},
		{ID: "s", Text: "s", ParentID: parent("r")},
		{ID: "t", Text: "t", ParentID: parent("s")},
		{ID: "u", Text: "u", ParentID: parent("t")},
	}}}}

	b.Normalize()

	err := b.Validate()
	var inconsistent tree.InconsistencyError
	if errors.As(err, &inconsistent) {
		t.Fatalf("board still inconsistent: %v", err)
	}
	if d := b.Column("c").Index().Depth("u"); d > task.MaxDepth {
		t.Errorf("depth of u = %d, want <= %d", d, task.MaxDepth)
	}
}

func TestNextColorCycles(t *testing.T) {
	b := New()
	for i := range len(Palette) + 1 {
		want := Palette[i%len(Palette)].Color
		if got := b.NextColor(); got != want {
			t.Errorf("NextColor with %d columns = %q, want %q", i, got, want)
		}
		b.AddColumn("col", b.NextColor(), testNow)
	}

	if ResolveColor("warmPurple") != "#b16286" {
		t.Error("ResolveColor should map swatch names")
	}
	if ResolveColor("#123456") != "#123456" {
		t.Error("ResolveColor should pass hex through")
	}
}
