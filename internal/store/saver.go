package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/abatilo/lanes/internal/board"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/storage"
	"github.com/abatilo/lanes/internal/view"
)

// saver writes snapshots in the background. Submissions that arrive while a
// write is in flight collapse into the newest one, so the adapter only ever
// sees snapshots in submission order and the last one always lands.
type saver struct {
	adapter storage.Adapter
	logger  *zap.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending *board.Board
	seq     uint64
	saved   uint64
	lastErr error
	closed  bool
	done    chan struct{}
}

func newSaver(adapter storage.Adapter, logger *zap.Logger) *saver {
	s := &saver{
		adapter: adapter,
		logger:  logger,
		done:    make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

// submit queues b as the newest snapshot to persist.
func (s *saver) submit(b *board.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = b
	s.seq++
	s.cond.Broadcast()
}

func (s *saver) loop() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for s.pending == nil && !s.closed {
			s.cond.Wait()
		}
		if s.pending == nil {
			s.mu.Unlock()
			return
		}
		b, version := s.pending, s.seq
		s.pending = nil
		s.mu.Unlock()

		err := s.write(b)
		if err != nil {
			s.logger.Error("failed to save board", zap.Uint64("version", version), zap.Error(err))
		} else {
			s.logger.Debug("board saved", zap.Uint64("version", version))
		}

		s.mu.Lock()
		s.saved = version
		s.lastErr = err
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

// write persists the structured snapshot first, then its Markdown mirror.
func (s *saver) write(b *board.Board) error {
	ctx := context.Background()

	data, err := storage.Encode(b)
	if err != nil {
		return laneserrors.SaveError{Name: storage.TasksBlob, Err: err}
	}
	if err := s.adapter.SaveBlob(ctx, storage.TasksBlob, data); err != nil {
		return laneserrors.SaveError{Name: storage.TasksBlob, Err: err}
	}
	if err := s.adapter.SaveBlob(ctx, storage.MarkdownBlob, []byte(view.Markdown(b))); err != nil {
		return laneserrors.SaveError{Name: storage.MarkdownBlob, Err: err}
	}
	return nil
}

// flush blocks until everything submitted so far has been written and
// returns the result of the most recent write.
func (s *saver) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.saved < s.seq {
		s.cond.Wait()
	}
	return s.lastErr
}

// close stops accepting snapshots, drains the pending one and waits for the loop to exit.
func (s *saver) close() error {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
