// Package sweep implements the auto-clear and retention pass over a board and
// the cron scheduler that repeats it.
package sweep

import (
	"time"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/settings"
)

// Result counts what a sweep changed.
type Result struct {
	Cleared int `json:"cleared" yaml:"cleared"`
	Expired int `json:"expired" yaml:"expired"`
}

// Changed reports whether the sweep touched the board.
func (r Result) Changed() bool {
	return r.Cleared > 0 || r.Expired > 0
}

// Apply runs both sweep steps over every column of b, in place.
//
// First, completed tasks whose completion predates the auto-clear cutoff are
// cleared at now. Then cleared tasks older than settings.Retention are deleted
// together with their subtrees. Running Apply twice with the same now changes
// nothing the second time.
func Apply(b *board.Board, now time.Time, d settings.AutoClearDuration) Result {
	var r Result
	if cutoff, ok := d.Cutoff(now); ok {
		r.Cleared = autoClear(b, now, cutoff)
	}
	r.Expired = expire(b, now.Add(-settings.Retention))
	return r
}

func autoClear(b *board.Board, now, cutoff time.Time) int {
	n := 0
	for _, c := range b.Columns {
		for _, t := range c.Tasks {
			if t.Cleared || !t.Completed || t.CompletedAt == nil {
				continue
			}
			if t.CompletedAt.Before(cutoff) {
				t.MarkCleared(now)
				n++
			}
		}
	}
	return n
}

func expire(b *board.Board, horizon time.Time) int {
	n := 0
	for _, c := range b.Columns {
		var doomed []string
		for _, t := range c.Tasks {
			if t.Cleared && t.ClearedAt != nil && t.ClearedAt.Before(horizon) {
				doomed = append(doomed, t.ID)
			}
		}
		before := len(c.Tasks)
		for _, id := range doomed {
			// Already gone when an expired ancestor took it with it.
			c.RemoveTask(id)
		}
		n += before - len(c.Tasks)
	}
	return n
}
