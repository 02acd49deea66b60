package main

import "fmt"

// InvalidIndexError indicates a position argument that is not a usable index.
type InvalidIndexError struct {
	Value string
	Max   int
}

func (e InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid index: %s (valid: 0-%d)", e.Value, e.Max)
}

// InvalidModeError indicates an unknown due date display mode.
type InvalidModeError struct {
	Value string
}

func (e InvalidModeError) Error() string {
	return fmt.Sprintf("invalid due date mode: %s (valid: date, workingDays)", e.Value)
}
