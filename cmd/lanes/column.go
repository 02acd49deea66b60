package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abatilo/lanes/internal/board"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/output"
	"github.com/abatilo/lanes/internal/store"
)

// columnCmd implements 'lanes column' command group.
func columnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Column management",
	}

	cmd.AddCommand(
		columnAddCmd(),
		columnRmCmd(),
		columnRenameCmd(),
		columnColorCmd(),
		columnToggleCmd(),
		columnMoveCmd(),
		columnAutoSortCmd(),
		columnListCmd(),
	)

	return cmd
}

// columnAddCmd implements 'lanes column add'.
func columnAddCmd() *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a column",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			name := strings.TrimSpace(args[0])
			if name == "" {
				printError(laneserrors.EmptyTextError{Field: "column name"})
			}
			mutate(func(_ *board.Board, s *store.Store) (string, error) {
				id := s.AddColumn(name, board.ResolveColor(color))
				return formatter.FormatMessage(fmt.Sprintf("Added column %s [%s]", name, id)), nil
			})
		},
	}
	cmd.Flags().StringVarP(&color, "color", "c", "", "Background color as hex or palette name (default: next in palette)")
	return cmd
}

// columnRmCmd implements 'lanes column rm'.
func columnRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <column>",
		Short: "Delete a column and all of its tasks",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			mutate(func(b *board.Board, s *store.Store) (string, error) {
				c, err := resolveColumn(b, args[0])
				if err != nil {
					return "", err
				}
				s.DeleteColumn(c.ID)
				return formatter.FormatMessage(fmt.Sprintf("Deleted column %s", c.Name)), nil
			})
		},
	}
}

// columnRenameCmd implements 'lanes column rename'.
func columnRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <column> <name>",
		Short: "Rename a column",
		Args:  cobra.ExactArgs(2), //nolint:mnd // column and name
		Run: func(_ *cobra.Command, args []string) {
			name := strings.TrimSpace(args[1])
			if name == "" {
				printError(laneserrors.EmptyTextError{Field: "column name"})
			}
			mutate(func(b *board.Board, s *store.Store) (string, error) {
				c, err := resolveColumn(b, args[0])
				if err != nil {
					return "", err
				}
				s.RenameColumn(c.ID, name)
				return formatter.FormatMessage(fmt.Sprintf("Renamed column %s to %s", c.Name, name)), nil
			})
		},
	}
}

// columnColorCmd implements 'lanes column color'.
func columnColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <column> <color>",
		Short: "Set a column's background color",
		Args:  cobra.ExactArgs(2), //nolint:mnd // column and color
		Run: func(_ *cobra.Command, args []string) {
			color := board.ResolveColor(args[1])
			mutate(func(b *board.Board, s *store.Store) (string, error) {
				c, err := resolveColumn(b, args[0])
				if err != nil {
					return "", err
				}
				s.UpdateColumnColor(c.ID, color)
				return formatter.FormatMessage(fmt.Sprintf("Column %s is now %s", c.Name, color)), nil
			})
		},
	}
}

// columnToggleCmd implements 'lanes column toggle'.
func columnToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <column>",
		Short: "Show or hide a column",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			mutate(func(b *board.Board, s *store.Store) (string, error) {
				c, err := resolveColumn(b, args[0])
				if err != nil {
					return "", err
				}
				s.ToggleColumnVisibility(c.ID)
				state := "hidden"
				if !c.Visible {
					state = "visible"
				}
				return formatter.FormatMessage(fmt.Sprintf("Column %s is now %s", c.Name, state)), nil
			})
		},
	}
}

// columnAutoSortCmd implements 'lanes column autosort'.
func columnAutoSortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autosort <column>",
		Short: "Toggle sorting a column's tasks by priority",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			mutate(func(b *board.Board, s *store.Store) (string, error) {
				c, err := resolveColumn(b, args[0])
				if err != nil {
					return "", err
				}
				s.ToggleAutoSort(c.ID)
				state := "on"
				if c.AutoSort {
					state = "off"
				}
				return formatter.FormatMessage(fmt.Sprintf("Priority sorting for %s is %s", c.Name, state)), nil
			})
		},
	}
}

// columnMoveCmd implements 'lanes column move'.
func columnMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the column at position from to position to",
		Args:  cobra.ExactArgs(2), //nolint:mnd // from and to
		Run: func(_ *cobra.Command, args []string) {
			mutate(func(b *board.Board, s *store.Store) (string, error) {
				last := len(b.Columns) - 1
				from, err := parseIndex(args[0], last)
				if err != nil {
					return "", err
				}
				to, err := parseIndex(args[1], last)
				if err != nil {
					return "", err
				}
				name := b.Columns[from].Name
				s.ReorderColumns(from, to)
				return formatter.FormatMessage(fmt.Sprintf("Moved column %s to position %d", name, to)), nil
			})
		},
	}
}

// columnListCmd implements 'lanes column list'.
func columnListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all columns, hidden ones included",
		Run: func(cmd *cobra.Command, _ []string) {
			snap, err := readSnapshot(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer snap.adapter.Close()
			printOutput(formatter.FormatColumnList(output.Summarize(snap.board.Columns)))
		},
	}
}

// parseIndex reads a position in 0..last.
func parseIndex(s string, last int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i > last {
		return 0, InvalidIndexError{Value: s, Max: last}
	}
	return i, nil
}
