package tree

import "fmt"

// InconsistencyError indicates the parent/children links of a column disagree.
type InconsistencyError struct {
	TaskID string
	Reason string
}

func (e InconsistencyError) Error() string {
	return fmt.Sprintf("task tree inconsistent at %s: %s", e.TaskID, e.Reason)
}
