// Package settings holds the user preferences the board reads but never writes.
package settings

import (
	"encoding/json"
	"fmt"
	"time"
)

// FileName is the blob name the settings collaborator persists to.
const FileName = "settings.json"

// AutoClearDuration controls how long a completed task stays visible.
type AutoClearDuration string

const (
	AutoClearOneMinute   AutoClearDuration = "1min"
	AutoClearFiveMinutes AutoClearDuration = "5min"
	AutoClearOneHour     AutoClearDuration = "1hr"
	AutoClearFourHours   AutoClearDuration = "4hr"
	AutoClearOneDay      AutoClearDuration = "24hr"
	AutoClearOvernight   AutoClearDuration = "overnight"
	AutoClearOneWeek     AutoClearDuration = "1week"
	AutoClearNever       AutoClearDuration = "never"
)

// overnightHour is the local wall-clock hour the overnight cutoff snaps to.
const overnightHour = 3

// Retention is how long a cleared task is kept for reporting before it is deleted.
const Retention = 90 * 24 * time.Hour

var fixedDurations = map[AutoClearDuration]time.Duration{ //nolint:gochecknoglobals // lookup table
	AutoClearOneMinute:   time.Minute,
	AutoClearFiveMinutes: 5 * time.Minute,
	AutoClearOneHour:     time.Hour,
	AutoClearFourHours:   4 * time.Hour,
	AutoClearOneDay:      24 * time.Hour,
	AutoClearOneWeek:     7 * 24 * time.Hour,
}

// Labels maps each duration to the text shown in pickers.
var Labels = map[AutoClearDuration]string{ //nolint:gochecknoglobals // lookup table
	AutoClearOneMinute:   "1 minute",
	AutoClearFiveMinutes: "5 minutes",
	AutoClearOneHour:     "1 hour",
	AutoClearFourHours:   "4 hours",
	AutoClearOneDay:      "24 hours",
	AutoClearOvernight:   "Overnight (3 AM)",
	AutoClearOneWeek:     "1 week",
	AutoClearNever:       "Never",
}

// Durations lists every duration in picker order.
var Durations = []AutoClearDuration{ //nolint:gochecknoglobals // fixed option list
	AutoClearOneMinute,
	AutoClearFiveMinutes,
	AutoClearOneHour,
	AutoClearFourHours,
	AutoClearOneDay,
	AutoClearOvernight,
	AutoClearOneWeek,
	AutoClearNever,
}

// IsValid reports whether d is a known duration.
func (d AutoClearDuration) IsValid() bool {
	_, ok := Labels[d]
	return ok
}

// Cutoff returns the instant before which a completion is old enough to clear.
// The second result is false when the duration never clears.
func (d AutoClearDuration) Cutoff(now time.Time) (time.Time, bool) {
	if d == AutoClearOvernight {
		return LastOvernight(now), true
	}
	dur, ok := fixedDurations[d]
	if !ok {
		return time.Time{}, false
	}
	return now.Add(-dur), true
}

// LastOvernight returns the most recent 3:00 AM in now's location strictly before now.
func LastOvernight(now time.Time) time.Time {
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, overnightHour, 0, 0, 0, now.Location())
	if !cutoff.Before(now) {
		cutoff = time.Date(y, m, d-1, overnightHour, 0, 0, 0, now.Location())
	}
	return cutoff
}

// DueDateDisplayMode selects how due dates are rendered.
type DueDateDisplayMode string

const (
	DueDateAbsolute    DueDateDisplayMode = "date"
	DueDateWorkingDays DueDateDisplayMode = "workingDays"
)

// IsValid reports whether m is a known display mode.
func (m DueDateDisplayMode) IsValid() bool {
	return m == DueDateAbsolute || m == DueDateWorkingDays
}

// Settings is the persisted preference document.
type Settings struct {
	DataDirectory      string             `json:"dataDirectory,omitempty"`
	AutoClearDuration  AutoClearDuration  `json:"autoClearDuration"`
	DueDateDisplayMode DueDateDisplayMode `json:"dueDateDisplayMode"`
}

// Default returns the settings used when none are stored.
func Default() Settings {
	return Settings{
		AutoClearDuration:  AutoClearNever,
		DueDateDisplayMode: DueDateAbsolute,
	}
}

// Parse decodes a settings document, falling back to defaults for missing or unknown values.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}
	if !s.AutoClearDuration.IsValid() {
		s.AutoClearDuration = AutoClearNever
	}
	if !s.DueDateDisplayMode.IsValid() {
		s.DueDateDisplayMode = DueDateAbsolute
	}
	return s, nil
}

// Encode serializes settings as indented JSON.
func (s Settings) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
