package view

import (
	"fmt"
	"strconv"
	"time"

	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/settings"
)

// DateLayout is the stored due date and report range format.
const DateLayout = "2006-01-02"

// Severity classifies how close a due date is.
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeverityWarning Severity = "warning"
	SeverityUrgent  Severity = "urgent"
)

// warningDays is the largest working-day count still shown as a warning.
const warningDays = 2


// Due is a rendered due date.
type Due struct {
	Date        string   `json:"date"         yaml:"date"`
	Label       string   `json:"label"        yaml:"label"`
	WorkingDays int      `json:"workingDays"  yaml:"working_days"`
	Severity    Severity `json:"severity"     yaml:"severity"`
}

// ParseDate reads a YYYY-MM-DD date as midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, laneserrors.InvalidDateError{Value: date}
	}
	return t, nil
}

// WorkingDaysRemaining counts Monday-Friday days after today up to and including
// target. It is 0 when target is today and negative when target has passed.
func WorkingDaysRemaining(target, today time.Time) int {
	from := calendarDay(today)
	to := calendarDay(target)
	if from.Equal(to) {
		return 0
	}

	sign := 1
	if to.Before(from) {
		from, to = to, from
		sign = -1
	}

	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return sign * days
}

// calendarDay drops the clock and zone so day arithmetic ignores DST shifts.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DueSeverity maps a working-day count to a severity.
func DueSeverity(workingDays int) Severity {
	switch {
	case workingDays <= 0:
		return SeverityUrgent
	case workingDays <= warningDays:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// FormatDue renders a due date as "M/D" or "Nd" depending on mode.
// Dates that do not parse are returned unchanged.
func FormatDue(date string, mode settings.DueDateDisplayMode, today time.Time) string {
	due, err := NewDue(date, mode, today)
	if err != nil {
		return date
	}
	return due.Label
}

// NewDue computes every derived field for a due date.
func NewDue(date string, mode settings.DueDateDisplayMode, today time.Time) (*Due, error) {
	target, err := ParseDate(date, today.Location())
	if err != nil {
		return nil, err
	}
	days := WorkingDaysRemaining(target, today)

	label := fmt.Sprintf("%d/%d", int(target.Month()), target.Day())
	if mode == settings.DueDateWorkingDays {
		label = strconv.Itoa(days) + "d"
	}
	return &Due{
		Date:        date,
		Label:       label,
		WorkingDays: days,
		Severity:    DueSeverity(days),
	}, nil
}
