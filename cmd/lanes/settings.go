package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/lock"
	"github.com/abatilo/lanes/internal/settings"
)

// settingsCmd implements 'lanes settings'.
func settingsCmd() *cobra.Command {
	var autoClear, dueMode string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change board preferences",
		Run: func(cmd *cobra.Command, _ []string) {
			snap, err := readSnapshot(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer snap.adapter.Close()

			next := snap.settings
			if autoClear != "" {
				d := settings.AutoClearDuration(autoClear)
				if !d.IsValid() {
					printError(laneserrors.InvalidDurationError{Value: autoClear, Valid: durationNames()})
				}
				next.AutoClearDuration = d
			}
			if dueMode != "" {
				m := settings.DueDateDisplayMode(dueMode)
				if !m.IsValid() {
					printError(InvalidModeError{Value: dueMode})
				}
				next.DueDateDisplayMode = m
			}

			if next != snap.settings {
				if err := writeSettings(cmd.Context(), snap, next); err != nil {
					printError(err)
				}
			}
			printOutput(formatter.FormatMessage(describeSettings(next)))
		},
	}
	cmd.Flags().StringVar(&autoClear, "auto-clear", "", "Auto-clear completed tasks after ("+strings.Join(durationNames(), ", ")+")")
	cmd.Flags().StringVar(&dueMode, "due-mode", "", "Due date display (date, workingDays)")
	return cmd
}

func writeSettings(ctx context.Context, snap *snapshot, s settings.Settings) error {
	if err := lock.Check(snap.dir); err != nil {
		return err
	}
	data, err := s.Encode()
	if err != nil {
		return err
	}
	if err := snap.adapter.SaveBlob(ctx, settings.FileName, data); err != nil {
		return laneserrors.SaveError{Name: settings.FileName, Err: err}
	}
	return nil
}

func describeSettings(s settings.Settings) string {
	return fmt.Sprintf("Auto-clear: %s\nDue dates:  %s", settings.Labels[s.AutoClearDuration], s.DueDateDisplayMode)
}

func durationNames() []string {
	names := make([]string, len(settings.Durations))
	for i, d := range settings.Durations {
		names[i] = string(d)
	}
	return names
}
