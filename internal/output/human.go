package output

import (
	"fmt"
	"strings"

	"github.com/abatilo/lanes/internal/sweep"
	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/view"
)

const timestampLayout = "2006-01-02 15:04"

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatBoard renders every column one after another.
func (f *HumanFormatter) FormatBoard(columns []view.ColumnView) string {
	if len(columns) == 0 {
		return "No columns. Add one with 'lanes column add <name>'.\n"
	}

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, f.FormatColumn(c))
	}
	return strings.Join(parts, "\n")
}

// FormatColumn renders a column heading and its task forest as a tree.
func (f *HumanFormatter) FormatColumn(column view.ColumnView) string {
	var sb strings.Builder

	flags := ""
	if !column.Visible {
		flags += " (hidden)"
	}
	if column.AutoSort {
		flags += " (sorted)"
	}
	fmt.Fprintf(&sb, "== %s [%s]%s\n", column.Name, column.ID, flags)

	if len(column.Tasks) == 0 {
		sb.WriteString("  No tasks.\n")
		return sb.String()
	}
	for _, n := range column.Tasks {
		f.formatNode(&sb, n, "  ", true, true)
	}
	return sb.String()
}

func (f *HumanFormatter) formatNode(sb *strings.Builder, n *view.Node, prefix string, isLast, isRoot bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if isRoot {
		connector = ""
	}

	fmt.Fprintf(sb, "%s%s%s\n", prefix, connector, f.taskLine(n.Task, n.Due))

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for i, child := range n.Children {
		f.formatNode(sb, child, childPrefix, i == len(n.Children)-1, false)
	}
}

func (f *HumanFormatter) taskLine(t *task.Task, due *view.Due) string {
	line := fmt.Sprintf("%s %s[%s] %s", f.statusIcon(t), f.priorityMark(t.Priority), t.ID, t.Text)
	if due != nil {
		line += fmt.Sprintf(" (due %s)", due.Label)
		if due.Severity != view.SeverityNormal {
			line += " !" + string(due.Severity)
		}
	}
	return line
}

func (f *HumanFormatter) statusIcon(t *task.Task) string {
	switch {
	case t.Completed:
		return "[X]"
	case t.Pending:
		return "[~]"
	default:
		return "[ ]"
	}
}

func (f *HumanFormatter) priorityMark(p task.Priority) string {
	if p == task.PriorityNone {
		return ""
	}
	return string(p) + " "
}

// FormatColumnList formats the column listing, hidden columns included.
func (f *HumanFormatter) FormatColumnList(columns []ColumnSummary) string {
	if len(columns) == 0 {
		return "No columns found.\n"
	}

	var sb strings.Builder
	for _, c := range columns {
		visibility := "visible"
		if !c.Visible {
			visibility = "hidden"
		}
		sorted := ""
		if c.AutoSort {
			sorted = ", sorted"
		}
		fmt.Fprintf(&sb, "%d. [%s] %s %s (%s%s) open: %d, done: %d\n",
			c.Order, c.ID, c.Name, c.BackgroundColor, visibility, sorted, c.Open, c.Done)
	}
	return sb.String()
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t *task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", t.ID, t.Text)
	fmt.Fprintf(&sb, "  Status:   %s\n", f.status(t))
	if t.Priority != task.PriorityNone {
		fmt.Fprintf(&sb, "  Priority: %s\n", t.Priority)
	}
	if t.ParentID != nil {
		fmt.Fprintf(&sb, "  Parent:   %s\n", *t.ParentID)
	}
	if t.DueDate != "" {
		fmt.Fprintf(&sb, "  Due:      %s\n", t.DueDate)
	}
	if t.CompletedAt != nil {
		fmt.Fprintf(&sb, "  Done:     %s\n", t.CompletedAt.Local().Format(timestampLayout))
	}
	if t.ClearedAt != nil {
		fmt.Fprintf(&sb, "  Cleared:  %s\n", t.ClearedAt.Local().Format(timestampLayout))
	}
	if len(t.Children) > 0 {
		fmt.Fprintf(&sb, "  Subtasks: %s\n", strings.Join(t.Children, ", "))
	}
	return sb.String()
}

func (f *HumanFormatter) status(t *task.Task) string {
	switch {
	case t.Cleared:
		return "cleared"
	case t.Completed:
		return "done"
	case t.Pending:
		return "pending"
	default:
		return "open"
	}
}

// FormatSweep summarizes a sweep.
func (f *HumanFormatter) FormatSweep(r sweep.Result) string {
	if !r.Changed() {
		return "Nothing to sweep.\n"
	}
	return fmt.Sprintf("Cleared %d, expired %d.\n", r.Cleared, r.Expired)
}

// FormatReport prints the report Markdown, followed by where it was saved.
func (f *HumanFormatter) FormatReport(r ReportResult) string {
	out := r.Markdown
	if r.SavedTo != "" {
		out += fmt.Sprintf("\nSaved to %s\n", r.SavedTo)
	}
	return out
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
