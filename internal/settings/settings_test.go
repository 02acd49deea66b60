//nolint:testpackage // Tests require internal access for thorough testing
package settings

import (
	"testing"
	"time"
)

func TestCutoffFixed(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		d    AutoClearDuration
		want time.Time
	}{
		{AutoClearOneMinute, now.Add(-time.Minute)},
		{AutoClearFiveMinutes, now.Add(-5 * time.Minute)},
		{AutoClearOneHour, now.Add(-time.Hour)},
		{AutoClearFourHours, now.Add(-4 * time.Hour)},
		{AutoClearOneDay, now.Add(-24 * time.Hour)},
		{AutoClearOneWeek, now.Add(-7 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(string(tt.d), func(t *testing.T) {
			got, ok := tt.d.Cutoff(now)
			if !ok {
				t.Fatalf("Cutoff(%q) reported never", tt.d)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Cutoff(%q) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestCutoffNever(t *testing.T) {
	if _, ok := AutoClearNever.Cutoff(time.Now()); ok {
		t.Error("never should not produce a cutoff")
	}
	if _, ok := AutoClearDuration("bogus").Cutoff(time.Now()); ok {
		t.Error("unknown duration should not produce a cutoff")
	}
}

func TestLastOvernight(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"after 3am uses today",
			time.Date(2024, 3, 5, 10, 0, 0, 0, loc),
			time.Date(2024, 3, 5, 3, 0, 0, 0, loc),
		},
		{
			"before 3am uses yesterday",
			time.Date(2024, 3, 5, 2, 59, 0, 0, loc),
			time.Date(2024, 3, 4, 3, 0, 0, 0, loc),
		},
		{
			"exactly 3am uses yesterday",
			time.Date(2024, 3, 5, 3, 0, 0, 0, loc),
			time.Date(2024, 3, 4, 3, 0, 0, 0, loc),
		},
		{
			"month boundary",
			time.Date(2024, 3, 1, 1, 0, 0, 0, loc),
			time.Date(2024, 2, 29, 3, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastOvernight(tt.now); !got.Equal(tt.want) {
				t.Errorf("LastOvernight(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`{"autoClearDuration":"overnight","dueDateDisplayMode":"workingDays","dataDirectory":"/tmp/x"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.AutoClearDuration != AutoClearOvernight {
		t.Errorf("AutoClearDuration = %q, want overnight", s.AutoClearDuration)
	}
	if s.DueDateDisplayMode != DueDateWorkingDays {
		t.Errorf("DueDateDisplayMode = %q, want workingDays", s.DueDateDisplayMode)
	}

	s, err = Parse([]byte(`{"autoClearDuration":"2years"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s != Default() {
		t.Errorf("unknown values should fall back to defaults, got %+v", s)
	}

	if _, err = Parse([]byte(`{`)); err == nil {
		t.Error("Parse should fail on malformed JSON")
	}
}
