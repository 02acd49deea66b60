package output

import (
	"gopkg.in/yaml.v3"

	"github.com/abatilo/lanes/internal/sweep"
	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/view"
)

// YAMLFormatter formats output as YAML documents.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAMLFormatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func marshalYAML(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "error: " + err.Error() + "\n"
	}
	return string(data)
}

// FormatBoard formats the visible columns as a YAML sequence.
func (f *YAMLFormatter) FormatBoard(columns []view.ColumnView) string {
	if columns == nil {
		columns = []view.ColumnView{}
	}
	return marshalYAML(columns)
}

// FormatColumn formats one column view as YAML.
func (f *YAMLFormatter) FormatColumn(column view.ColumnView) string {
	return marshalYAML(column)
}

// FormatColumnList formats the column listing as YAML.
func (f *YAMLFormatter) FormatColumnList(columns []ColumnSummary) string {
	if columns == nil {
		columns = []ColumnSummary{}
	}
	return marshalYAML(columns)
}

// FormatTask formats a task as YAML.
func (f *YAMLFormatter) FormatTask(t *task.Task) string {
	return marshalYAML(t)
}

// FormatSweep formats sweep counts as YAML.
func (f *YAMLFormatter) FormatSweep(r sweep.Result) string {
	return marshalYAML(r)
}

// FormatReport formats a report as YAML.
func (f *YAMLFormatter) FormatReport(r ReportResult) string {
	return marshalYAML(r)
}

// FormatError formats an error as YAML.
func (f *YAMLFormatter) FormatError(err error) string {
	return marshalYAML(errorResult{Error: err.Error()})
}

// FormatMessage formats a simple message as YAML.
func (f *YAMLFormatter) FormatMessage(msg string) string {
	return marshalYAML(messageResult{Message: msg})
}
