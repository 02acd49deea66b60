package view

import (
	"strings"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/tree"
)

const (
	glyphDone = "✅"
	glyphOpen = "⬜"
)

// Markdown renders the human-readable mirror of the board: a heading per
// visible column, a second-level heading per root task and nested bullets for
// subtasks. Cleared tasks and their subtrees are omitted.
func Markdown(b *board.Board) string {
	var sb strings.Builder

	for _, c := range b.VisibleColumns() {
		sb.WriteString("# " + c.Name + "\n\n")

		idx := c.Index()
		for _, root := range idx.Roots() {
			if root.Cleared {
				continue
			}
			writeMarkdownTask(&sb, idx, root, 0)
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String()) + "\n"
}

func writeMarkdownTask(sb *strings.Builder, idx *tree.Index, t *task.Task, level int) {
	line := t.Text + priorityTag(t.Priority) + " " + checkbox(t.Completed)
	if level == 0 {
		sb.WriteString("## " + line + "\n")
	} else {
		sb.WriteString(strings.Repeat("  ", level-1) + "- " + line + "\n")
	}

	for _, child := range idx.Children(t.ID) {
		if child.Cleared {
			continue
		}
		writeMarkdownTask(sb, idx, child, level+1)
	}
}

func priorityTag(p task.Priority) string {
	if p == task.PriorityNone {
		return ""
	}
	return " [" + string(p) + "]"
}

func checkbox(completed bool) string {
	if completed {
		return glyphDone
	}
	return glyphOpen
}
