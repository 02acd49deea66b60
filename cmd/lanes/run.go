package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/lanes/internal/board"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/lock"
	"github.com/abatilo/lanes/internal/store"
	"github.com/abatilo/lanes/internal/sweep"
)

// shutdownTimeout bounds how long 'lanes run' waits for a running sweep on exit.
const shutdownTimeout = 5 * time.Second

// runCmd implements 'lanes run'.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Own the board and sweep it periodically until interrupted",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := run(cmd.Context()); err != nil {
				printError(err)
			}
		},
	}
}

func run(ctx context.Context) error {
	dir, adapter, err := openAdapter()
	if err != nil {
		return err
	}
	defer adapter.Close()

	mine, owner, err := lock.Claim(dir, "lanes run")
	if err != nil {
		return err
	}
	if owner != nil {
		return laneserrors.LockedError{PID: owner.PID, Hostname: owner.Hostname}
	}
	defer func() {
		if _, releaseErr := lock.Release(dir, mine.ID); releaseErr != nil {
			log.Warn("failed to release lock", zap.Error(releaseErr))
		}
	}()

	s, err := store.Open(ctx, adapter, store.WithLogger(log))
	if err != nil {
		return err
	}
	unsubscribe := s.Subscribe(func(b *board.Board) {
		log.Debug("board updated", zap.Int("columns", len(b.Columns)))
	})
	defer unsubscribe()

	scheduler, err := sweep.NewScheduler(s, cfg.SweepInterval, log)
	if err != nil {
		s.Close()
		return err
	}
	scheduler.Start()
	log.Info("running", zap.String("data_dir", dir), zap.Duration("sweep_interval", cfg.SweepInterval))
	printOutput(formatter.FormatMessage("Watching " + dir + " (Ctrl-C to stop)"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	scheduler.Stop(stopCtx)
	return s.Close()
}
