// Package store owns the live board. Every operation clones the current
// snapshot, mutates the clone and publishes it only when something changed,
// so readers never observe a half-applied operation. Published snapshots are
// handed to subscribers and to a background saver.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/settings"
	"github.com/abatilo/lanes/internal/storage"
	"github.com/abatilo/lanes/internal/sweep"
	"github.com/abatilo/lanes/internal/task"
)

// backupBlob receives the raw bytes of a tasks document that failed to decode.
const backupBlob = storage.TasksBlob + ".bak"

// Listener receives every newly published snapshot. It must not call back into the Store.
type Listener func(*board.Board)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithSettings skips reading settings.json and uses cfg instead.
func WithSettings(cfg settings.Settings) Option {
	return func(s *Store) { s.settings = &cfg }
}

// Store is the single writer of the board.
type Store struct {
	mu       sync.Mutex
	snapshot *board.Board
	settings *settings.Settings
	now      func() time.Time
	logger   *zap.Logger
	adapter  storage.Adapter
	saver    *saver
	startup  sweep.Result

	listeners map[int]Listener
	nextID    int
}

// Open loads settings and the board through adapter, runs a startup sweep and
// starts the background saver. A tasks document that cannot be decoded is
// logged, backed up and replaced by an empty board. Only adapter failures are
// returned.
func Open(ctx context.Context, adapter storage.Adapter, opts ...Option) (*Store, error) {
	s := &Store{
		now:       time.Now,
		logger:    zap.NewNop(),
		adapter:   adapter,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.settings == nil {
		cfg, err := s.loadSettings(ctx)
		if err != nil {
			return nil, err
		}
		s.settings = &cfg
	}

	b, err := s.loadBoard(ctx)
	if err != nil {
		return nil, err
	}
	s.snapshot = b
	s.saver = newSaver(adapter, s.logger)

	s.startup = s.Sweep()
	if s.startup.Changed() {
		s.logger.Info("startup sweep applied", zap.Int("cleared", s.startup.Cleared), zap.Int("expired", s.startup.Expired))
	}
	return s, nil
}

func (s *Store) loadSettings(ctx context.Context) (settings.Settings, error) {
	data, ok, err := s.adapter.LoadBlob(ctx, settings.FileName)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load %s: %w", settings.FileName, err)
	}
	if !ok {
		return settings.Default(), nil
	}
	cfg, err := settings.Parse(data)
	if err != nil {
		s.logger.Warn("ignoring malformed settings", zap.Error(err))
	}
	return cfg, nil
}

func (s *Store) loadBoard(ctx context.Context) (*board.Board, error) {
	data, ok, err := s.adapter.LoadBlob(ctx, storage.TasksBlob)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", storage.TasksBlob, err)
	}
	if !ok {
		s.logger.Info("no saved board, starting empty")
		return board.New(), nil
	}

	b, repaired, err := storage.Decode(data)
	if err != nil {
		s.logger.Error("failed to decode saved board, starting empty", zap.Error(err))
		if err := s.adapter.SaveBlob(ctx, backupBlob, data); err != nil {
			s.logger.Warn("failed to back up unreadable board", zap.Error(err))
		}
		return board.New(), nil
	}
	if repaired {
		s.logger.Warn("saved board had inconsistent task links and was repaired")
	}
	return b, nil
}

// Settings returns the preferences the store was opened with.
func (s *Store) Settings() settings.Settings {
	return *s.settings
}

// Snapshot returns the current board. Callers must treat it as read-only.
func (s *Store) Snapshot() *board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe registers fn for future snapshots and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// apply runs op against a clone of the snapshot and publishes the clone if op reports a change.
func (s *Store) apply(op func(b *board.Board, now time.Time) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot.Clone()
	if !op(next, s.now()) {
		return false
	}
	s.snapshot = next
	s.saver.submit(next)
	for _, fn := range s.listeners {
		fn(next)
	}
	return true
}

// Flush waits until the newest snapshot is written and returns the last save error.
func (s *Store) Flush() error {
	return s.saver.flush()
}

// Close writes any pending snapshot and stops the saver. The adapter stays open.
func (s *Store) Close() error {
	return s.saver.close()
}

// StartupSweep returns what the sweep run by Open changed.
func (s *Store) StartupSweep() sweep.Result {
	return s.startup
}

// Sweep auto-clears and expires tasks according to the current settings.
func (s *Store) Sweep() sweep.Result {
	var r sweep.Result
	s.apply(func(b *board.Board, now time.Time) bool {
		r = sweep.Apply(b, now, s.settings.AutoClearDuration)
		return r.Changed()
	})
	return r
}

// AddColumn appends a column and returns its ID, or "" for an empty name.
func (s *Store) AddColumn(name, color string) string {
	var id string
	s.apply(func(b *board.Board, now time.Time) bool {
		if color == "" {
			color = b.NextColor()
		}
		id = b.AddColumn(name, color, now)
		return id != ""
	})
	return id
}

// DeleteColumn removes a column and its tasks.
func (s *Store) DeleteColumn(columnID string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.DeleteColumn(columnID)
	})
}

// UpdateColumnColor sets a column's background.
func (s *Store) UpdateColumnColor(columnID, color string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.UpdateColumnColor(columnID, color)
	})
}

// RenameColumn sets a column's name.
func (s *Store) RenameColumn(columnID, name string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.RenameColumn(columnID, name)
	})
}

// ToggleColumnVisibility shows or hides a column.
func (s *Store) ToggleColumnVisibility(columnID string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.ToggleColumnVisibility(columnID)
	})
}

// ToggleAutoSort flips priority sorting for a column.
func (s *Store) ToggleAutoSort(columnID string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.ToggleAutoSort(columnID)
	})
}

// ReorderColumns moves the column at from to position to.
func (s *Store) ReorderColumns(from, to int) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.ReorderColumns(from, to)
	})
}

// AddTask appends a root task and returns its ID, or "" when rejected.
func (s *Store) AddTask(columnID, text string, priority task.Priority) string {
	var id string
	s.apply(func(b *board.Board, now time.Time) bool {
		id = b.AddTask(columnID, text, priority, now)
		return id != ""
	})
	return id
}

// AddSubtask adds a child under parentID and returns its ID, or "" when rejected.
func (s *Store) AddSubtask(columnID, parentID, text string, priority task.Priority) string {
	var id string
	s.apply(func(b *board.Board, now time.Time) bool {
		id = b.AddSubtask(columnID, parentID, text, priority, now)
		return id != ""
	})
	return id
}

// ToggleTask flips completion of a task and its subtree.
func (s *Store) ToggleTask(columnID, taskID string) bool {
	return s.apply(func(b *board.Board, now time.Time) bool {
		return b.ToggleTask(columnID, taskID, now)
	})
}

// DeleteTask removes a task and its subtree.
func (s *Store) DeleteTask(columnID, taskID string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.DeleteTask(columnID, taskID)
	})
}

// ClearCompleted clears every completed task in the column and returns how many were cleared.
func (s *Store) ClearCompleted(columnID string) int {
	var n int
	s.apply(func(b *board.Board, now time.Time) bool {
		n = b.ClearCompleted(columnID, now)
		return n > 0
	})
	return n
}

// UpdateTask replaces a task's text.
func (s *Store) UpdateTask(columnID, taskID, text string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.UpdateTask(columnID, taskID, text)
	})
}

// UpdateTaskPriority sets a task's priority.
func (s *Store) UpdateTaskPriority(columnID, taskID string, priority task.Priority) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.UpdateTaskPriority(columnID, taskID, priority)
	})
}

// TogglePending flips a task's pending flag.
func (s *Store) TogglePending(columnID, taskID string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.TogglePending(columnID, taskID)
	})
}

// SetDueDate sets a task's due date.
func (s *Store) SetDueDate(columnID, taskID, date string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.SetDueDate(columnID, taskID, date)
	})
}

// RemoveDueDate clears a task's due date.
func (s *Store) RemoveDueDate(columnID, taskID string) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.RemoveDueDate(columnID, taskID)
	})
}

// MoveTask moves a task among its siblings.
func (s *Store) MoveTask(columnID, taskID string, to int) bool {
	return s.apply(func(b *board.Board, _ time.Time) bool {
		return b.MoveTask(columnID, taskID, to)
	})
}
