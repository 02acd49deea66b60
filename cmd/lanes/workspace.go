package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/abatilo/lanes/internal/board"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/lock"
	"github.com/abatilo/lanes/internal/settings"
	"github.com/abatilo/lanes/internal/storage"
	"github.com/abatilo/lanes/internal/store"
	"github.com/abatilo/lanes/internal/sweep"
	"github.com/abatilo/lanes/internal/task"
)

// workspace is an opened data directory.
type workspace struct {
	dir     string
	adapter storage.Adapter
	store   *store.Store
}

func resolveDataDir() (string, error) {
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return storage.FindDataDir(wd)
}

func openAdapter() (string, storage.Adapter, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return "", nil, err
	}
	adapter, err := storage.Open(cfg.Backend, dir)
	if err != nil {
		return "", nil, err
	}
	return dir, adapter, nil
}

// openWorkspace opens the store for a one-shot mutation. It refuses to run
// while another live process holds the data directory.
func openWorkspace(ctx context.Context) (*workspace, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := lock.Check(dir); err != nil {
		return nil, err
	}
	adapter, err := storage.Open(cfg.Backend, dir)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, adapter, store.WithLogger(log))
	if err != nil {
		adapter.Close()
		return nil, err
	}
	return &workspace{dir: dir, adapter: adapter, store: s}, nil
}

// close writes the last snapshot and releases the adapter. The save error, if any, wins.
func (w *workspace) close() error {
	saveErr := w.store.Close()
	closeErr := w.adapter.Close()
	if saveErr != nil {
		return saveErr
	}
	return closeErr
}

// mutate opens the workspace, runs fn and prints its result once the change is on disk.
func mutate(fn func(b *board.Board, s *store.Store) (string, error)) {
	w, err := openWorkspace(context.Background())
	if err != nil {
		printError(err)
	}

	out, err := fn(w.store.Snapshot(), w.store)
	closeErr := w.close()
	if err != nil {
		printError(err)
	}
	if closeErr != nil {
		printError(closeErr)
	}
	printOutput(out)
}

// snapshot is a read-only view of the data directory.
type snapshot struct {
	dir      string
	adapter  storage.Adapter
	board    *board.Board
	settings settings.Settings
}

// readSnapshot loads the board without taking part in writes, so it is safe
// while 'lanes run' owns the directory. The sweep is applied in memory only.
func readSnapshot(ctx context.Context) (*snapshot, error) {
	dir, adapter, err := openAdapter()
	if err != nil {
		return nil, err
	}

	snap := &snapshot{dir: dir, adapter: adapter, board: board.New(), settings: settings.Default()}

	if data, ok, loadErr := adapter.LoadBlob(ctx, settings.FileName); loadErr != nil {
		adapter.Close()
		return nil, loadErr
	} else if ok {
		parsed, parseErr := settings.Parse(data)
		if parseErr != nil {
			log.Warn("ignoring malformed settings", zap.Error(parseErr))
		}
		snap.settings = parsed
	}

	data, ok, err := adapter.LoadBlob(ctx, storage.TasksBlob)
	if err != nil {
		adapter.Close()
		return nil, err
	}
	if ok {
		b, _, decodeErr := storage.Decode(data)
		if decodeErr != nil {
			log.Warn("saved board is unreadable, showing an empty board")
		} else {
			snap.board = b
		}
	}

	sweep.Apply(snap.board, time.Now(), snap.settings.AutoClearDuration)
	return snap, nil
}

func resolveColumn(b *board.Board, ref string) (*board.Column, error) {
	if c := b.Column(ref); c != nil {
		return c, nil
	}
	if c := b.ColumnByName(ref); c != nil {
		return c, nil
	}
	return nil, laneserrors.ColumnNotFoundError{Ref: ref}
}

func resolveTask(b *board.Board, id string) (*board.Column, *task.Task, error) {
	c := b.ColumnOf(id)
	if c == nil {
		return nil, nil, laneserrors.TaskNotFoundError{ID: id}
	}
	return c, c.Task(id), nil
}

func parsePriority(s string) (task.Priority, error) {
	p, ok := task.ParsePriority(s)
	if !ok {
		return task.PriorityNone, laneserrors.InvalidPriorityError{Value: s}
	}
	return p, nil
}
