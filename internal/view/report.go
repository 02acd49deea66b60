package view

import (
	"strings"
	"time"

	"github.com/abatilo/lanes/internal/board"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/tree"
)

const (
	reportDateLayout      = "Jan 2, 2006"
	reportTimestampLayout = "Jan 2, 2006 3:04 PM"

	// NoCompletedTasks is the line emitted when no column has a qualifying task.
	NoCompletedTasks = "*No completed tasks in this date range.*"
)

// Range is an inclusive span of local calendar days.
type Range struct {
	From  string
	To    string
	start time.Time
	last  time.Time
	end   time.Time
}

// NewRange parses YYYY-MM-DD bounds in loc. The range starts at 00:00:00 on
// from and ends at the last instant of to.
func NewRange(from, to string, loc *time.Location) (Range, error) {
	start, err := ParseDate(from, loc)
	if err != nil {
		return Range{}, err
	}
	last, err := ParseDate(to, loc)
	if err != nil {
		return Range{}, err
	}
	if last.Before(start) {
		return Range{}, laneserrors.InvalidRangeError{From: from, To: to}
	}
	return Range{
		From:  from,
		To:    to,
		start: start,
		last:  last,
		end:   last.AddDate(0, 0, 1).Add(-time.Nanosecond),
	}, nil
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// ReportFilename is the name a report for r is saved under.
func ReportFilename(r Range) string {
	return "completed_" + r.From + "_to_" + r.To + ".md"
}

// Report renders the completion report for r. For every visible column with a
// task completed inside r it lists those tasks as a nested checklist, keeping
// each one's ancestors for context even when they are open or out of range.
// Cleared tasks still count.
func Report(b *board.Board, r Range) string {
	var sb strings.Builder
	sb.WriteString("# Weekly Report: " + r.start.Format(reportDateLayout) + " - " + r.last.Format(reportDateLayout) + "\n\n")

	sections := 0
	for _, c := range b.VisibleColumns() {
		if writeReportColumn(&sb, c, r) {
			sections++
		}
	}

	if sections == 0 {
		sb.WriteString(NoCompletedTasks + "\n")
	}
	return sb.String()
}

func writeReportColumn(sb *strings.Builder, c *board.Column, r Range) bool {
	idx := c.Index()

	inRange := make(map[string]bool)
	include := make(map[string]bool)
	for _, t := range c.Tasks {
		if !t.Completed || t.CompletedAt == nil || !r.Contains(*t.CompletedAt) {
			continue
		}
		inRange[t.ID] = true
		include[t.ID] = true
		for _, id := range idx.Ancestors(t.ID) {
			include[id] = true
		}
	}
	if len(inRange) == 0 {
		return false
	}

	sb.WriteString("## " + c.Name + "\n")
	for _, t := range c.Tasks {
		if include[t.ID] && (t.IsRoot() || !include[t.Parent()]) {
			writeReportTask(sb, idx, t, 0, include, inRange, r.start.Location())
		}
	}
	sb.WriteString("\n")
	return true
}

func writeReportTask(
	sb *strings.Builder,
	idx *tree.Index,
	t *task.Task,
	level int,
	include, inRange map[string]bool,
	loc *time.Location,
) {
	box := "[ ]"
	stamp := ""
	if inRange[t.ID] {
		box = "[x]"
		stamp = " (" + t.CompletedAt.In(loc).Format(reportTimestampLayout) + ")"
	}
	sb.WriteString(strings.Repeat("  ", level) + "- " + box + " " + t.Text + stamp + "\n")

	for _, child := range idx.Children(t.ID) {
		if include[child.ID] {
			writeReportTask(sb, idx, child, level+1, include, inRange, loc)
		}
	}
}
