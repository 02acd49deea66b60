package output

import (
	"encoding/json"

	"github.com/abatilo/lanes/internal/sweep"
	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/view"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatBoard formats the visible columns as a JSON array.
func (f *JSONFormatter) FormatBoard(columns []view.ColumnView) string {
	if columns == nil {
		columns = []view.ColumnView{}
	}
	return marshalJSON(columns)
}

// FormatColumn formats one column view as JSON.
func (f *JSONFormatter) FormatColumn(column view.ColumnView) string {
	return marshalJSON(column)
}

// FormatColumnList formats the column listing as JSON.
func (f *JSONFormatter) FormatColumnList(columns []ColumnSummary) string {
	if columns == nil {
		columns = []ColumnSummary{}
	}
	return marshalJSON(columns)
}

// FormatTask formats a task in its stored JSON shape.
func (f *JSONFormatter) FormatTask(t *task.Task) string {
	return marshalJSON(t)
}

// FormatSweep formats sweep counts as JSON.
func (f *JSONFormatter) FormatSweep(r sweep.Result) string {
	return marshalJSON(r)
}

// FormatReport formats a report as JSON.
func (f *JSONFormatter) FormatReport(r ReportResult) string {
	return marshalJSON(r)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorResult{Error: err.Error()})
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageResult{Message: msg})
}
