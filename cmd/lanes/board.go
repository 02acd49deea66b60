package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/output"
	"github.com/abatilo/lanes/internal/storage"
	"github.com/abatilo/lanes/internal/store"
	"github.com/abatilo/lanes/internal/view"
)

// reportDays is the span of the default report window, today included.
const reportDays = 7

// showCmd implements 'lanes show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [column]",
		Short: "Show the board, or a single column",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			snap, err := readSnapshot(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer snap.adapter.Close()

			opts := view.Options{DueDateMode: snap.settings.DueDateDisplayMode, Today: time.Now()}
			if len(args) == 0 {
				printOutput(formatter.FormatBoard(view.Board(snap.board, opts)))
				return
			}

			c, err := resolveColumn(snap.board, args[0])
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatColumn(view.Column(c, opts)))
		},
	}
}

// clearCmd implements 'lanes clear'.
func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <column>",
		Short: "Clear completed tasks from a column",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			mutate(func(b *board.Board, s *store.Store) (string, error) {
				c, err := resolveColumn(b, args[0])
				if err != nil {
					return "", err
				}
				n := s.ClearCompleted(c.ID)
				return formatter.FormatMessage(fmt.Sprintf("Cleared %d task(s) from %s", n, c.Name)), nil
			})
		},
	}
}

// sweepCmd implements 'lanes sweep'.
func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Auto-clear old completions and delete expired tasks now",
		Run: func(_ *cobra.Command, _ []string) {
			mutate(func(_ *board.Board, s *store.Store) (string, error) {
				r := s.StartupSweep()
				later := s.Sweep()
				r.Cleared += later.Cleared
				r.Expired += later.Expired
				return formatter.FormatSweep(r), nil
			})
		},
	}
}

// reportCmd implements 'lanes report'.
func reportCmd() *cobra.Command {
	var from, to string
	var save bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a report of tasks completed in a date range",
		Run: func(cmd *cobra.Command, _ []string) {
			now := time.Now()
			if to == "" {
				to = now.Format(view.DateLayout)
			}
			if from == "" {
				from = now.AddDate(0, 0, 1-reportDays).Format(view.DateLayout)
			}
			r, err := view.NewRange(from, to, time.Local)
			if err != nil {
				printError(err)
			}

			snap, err := readSnapshot(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer snap.adapter.Close()

			result := output.ReportResult{
				Filename: view.ReportFilename(r),
				Markdown: view.Report(snap.board, r),
			}
			if save {
				savedTo, saveErr := saveReport(cmd.Context(), snap, result)
				if saveErr != nil {
					printError(saveErr)
				}
				result.SavedTo = savedTo
			}
			printOutput(formatter.FormatReport(result))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD (default: six days before --to)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the report into the data directory")
	return cmd
}

// saveReport writes the report through the adapter and returns where it landed.
func saveReport(ctx context.Context, snap *snapshot, r output.ReportResult) (string, error) {
	if err := snap.adapter.SaveBlob(ctx, r.Filename, []byte(r.Markdown)); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	switch a := snap.adapter.(type) {
	case *storage.FileAdapter:
		return filepath.Join(a.BasePath(), r.Filename), nil
	case *storage.BoltAdapter:
		return a.Path() + ":" + r.Filename, nil
	default:
		return r.Filename, nil
	}
}
