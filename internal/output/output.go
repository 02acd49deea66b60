// Package output renders command results for the terminal in human, JSON or YAML form.
package output

import (
	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/sweep"
	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/view"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatBoard(columns []view.ColumnView) string
	FormatColumn(column view.ColumnView) string
	FormatColumnList(columns []ColumnSummary) string
	FormatTask(t *task.Task) string
	FormatSweep(r sweep.Result) string
	FormatReport(r ReportResult) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// New picks the formatter for the requested output mode. JSON wins over YAML.
func New(jsonOut, yamlOut bool) Formatter {
	switch {
	case jsonOut:
		return NewJSONFormatter()
	case yamlOut:
		return NewYAMLFormatter()
	default:
		return NewHumanFormatter()
	}
}

// ColumnSummary is one row of the column listing.
type ColumnSummary struct {
	ID              string `json:"id"              yaml:"id"`
	Name            string `json:"name"            yaml:"name"`
	BackgroundColor string `json:"backgroundColor" yaml:"background_color"`
	Order           int    `json:"order"           yaml:"order"`
	Visible         bool   `json:"visible"         yaml:"visible"`
	AutoSort        bool   `json:"autoSort"        yaml:"auto_sort"`
	Open            int    `json:"open"            yaml:"open"`
	Done            int    `json:"done"            yaml:"done"`
}

// Summarize counts the uncleared tasks of every column, hidden ones included.
func Summarize(columns []*board.Column) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(columns))
	for _, c := range columns {
		s := ColumnSummary{
			ID:              c.ID,
			Name:            c.Name,
			BackgroundColor: c.BackgroundColor,
			Order:           c.Order,
			Visible:         c.Visible,
			AutoSort:        c.AutoSort,
		}
		for _, t := range c.Tasks {
			switch {
			case t.Cleared:
			case t.Completed:
				s.Done++
			default:
				s.Open++
			}
		}
		out = append(out, s)
	}
	return out
}

// ReportResult is a rendered completion report and where it was saved, if anywhere.
type ReportResult struct {
	Filename string `json:"filename"          yaml:"filename"`
	SavedTo  string `json:"savedTo,omitempty" yaml:"saved_to,omitempty"`
	Markdown string `json:"markdown"          yaml:"markdown"`
}

type errorResult struct {
	Error string `json:"error" yaml:"error"`
}

type messageResult struct {
	Message string `json:"message" yaml:"message"`
}
