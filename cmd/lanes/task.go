package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/lanes/internal/board"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/store"
	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/view"
)

// addCmd implements 'lanes add'.
func addCmd() *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "add <column> <text>",
		Short: "Add a task to a column",
		Args:  cobra.ExactArgs(2), //nolint:mnd // column and text
		Run: func(_ *cobra.Command, args []string) {
			text := strings.TrimSpace(args[1])
			if text == "" {
				printError(laneserrors.EmptyTextError{Field: "task text"})
			}
			p, err := parsePriority(priority)
			if err != nil {
				printError(err)
			}

			mutate(func(b *board.Board, s *store.Store) (string, error) {
				c, err := resolveColumn(b, args[0])
				if err != nil {
					return "", err
				}
				id := s.AddTask(c.ID, text, p)
				return formatter.FormatTask(s.Snapshot().Column(c.ID).Task(id)), nil
			})
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "none", "Priority (P0, P1, P2, none)")
	return cmd
}

// subCmd implements 'lanes sub'.
func subCmd() *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "sub <parent-id> <text>",
		Short: "Add a subtask under a task",
		Args:  cobra.ExactArgs(2), //nolint:mnd // parent and text
		Run: func(_ *cobra.Command, args []string) {
			text := strings.TrimSpace(args[1])
			if text == "" {
				printError(laneserrors.EmptyTextError{Field: "task text"})
			}
			p, err := parsePriority(priority)
			if err != nil {
				printError(err)
			}

			mutate(func(b *board.Board, s *store.Store) (string, error) {
				c, parent, err := resolveTask(b, args[0])
				if err != nil {
					return "", err
				}
				if c.Index().Depth(parent.ID) >= task.MaxDepth {
					return "", laneserrors.MaxDepthError{ParentID: parent.ID}
				}
				id := s.AddSubtask(c.ID, parent.ID, text, p)
				return formatter.FormatTask(s.Snapshot().Column(c.ID).Task(id)), nil
			})
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "none", "Priority (P0, P1, P2, none)")
	return cmd
}

// toggleCmd implements 'lanes toggle'.
func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task and its subtasks done, or undo it",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			onTask(args[0], func(s *store.Store, c *board.Column, t *task.Task) (string, error) {
				s.ToggleTask(c.ID, t.ID)
				return formatter.FormatTask(s.Snapshot().Column(c.ID).Task(t.ID)), nil
			})
		},
	}
}

// rmCmd implements 'lanes rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			onTask(args[0], func(s *store.Store, c *board.Column, t *task.Task) (string, error) {
				removed := len(c.Index().Subtree(t.ID))
				s.DeleteTask(c.ID, t.ID)
				return formatter.FormatMessage(fmt.Sprintf("Deleted %s (%d task(s))", t.ID, removed)), nil
			})
		},
	}
}

// editCmd implements 'lanes edit'.
func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace a task's text",
		Args:  cobra.ExactArgs(2), //nolint:mnd // id and text
		Run: func(_ *cobra.Command, args []string) {
			text := strings.TrimSpace(args[1])
			if text == "" {
				printError(laneserrors.EmptyTextError{Field: "task text"})
			}
			onTask(args[0], func(s *store.Store, c *board.Column, t *task.Task) (string, error) {
				s.UpdateTask(c.ID, t.ID, text)
				return formatter.FormatTask(s.Snapshot().Column(c.ID).Task(t.ID)), nil
			})
		},
	}
}

// priorityCmd implements 'lanes priority'.
func priorityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "priority <id> <P0|P1|P2|none>",
		Short: "Set a task's priority",
		Args:  cobra.ExactArgs(2), //nolint:mnd // id and priority
		Run: func(_ *cobra.Command, args []string) {
			p, err := parsePriority(args[1])
			if err != nil {
				printError(err)
			}
			onTask(args[0], func(s *store.Store, c *board.Column, t *task.Task) (string, error) {
				s.UpdateTaskPriority(c.ID, t.ID, p)
				return formatter.FormatTask(s.Snapshot().Column(c.ID).Task(t.ID)), nil
			})
		},
	}
}

// pendingCmd implements 'lanes pending'.
func pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <id>",
		Short: "Toggle whether a task is waiting on something",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			onTask(args[0], func(s *store.Store, c *board.Column, t *task.Task) (string, error) {
				s.TogglePending(c.ID, t.ID)
				return formatter.FormatTask(s.Snapshot().Column(c.ID).Task(t.ID)), nil
			})
		},
	}
}

// dueCmd implements 'lanes due'.
func dueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due <id> <YYYY-MM-DD>",
		Short: "Set a task's due date",
		Args:  cobra.ExactArgs(2), //nolint:mnd // id and date
		Run: func(_ *cobra.Command, args []string) {
			if _, err := view.ParseDate(args[1], time.Local); err != nil {
				printError(err)
			}
			onTask(args[0], func(s *store.Store, c *board.Column, t *task.Task) (string, error) {
				s.SetDueDate(c.ID, t.ID, args[1])
				return formatter.FormatTask(s.Snapshot().Column(c.ID).Task(t.ID)), nil
			})
		},
	}
}

// undueCmd implements 'lanes undue'.
func undueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undue <id>",
		Short: "Remove a task's due date",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			onTask(args[0], func(s *store.Store, c *board.Column, t *task.Task) (string, error) {
				s.RemoveDueDate(c.ID, t.ID)
				return formatter.FormatTask(s.Snapshot().Column(c.ID).Task(t.ID)), nil
			})
		},
	}
}

// mvCmd implements 'lanes mv'.
func mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <index>",
		Short: "Move a task to a new position among its siblings",
		Args:  cobra.ExactArgs(2), //nolint:mnd // id and index
		Run: func(_ *cobra.Command, args []string) {
			onTask(args[0], func(s *store.Store, c *board.Column, t *task.Task) (string, error) {
				siblings := c.Siblings(t.ID)
				to, err := strconv.Atoi(args[1])
				if err != nil || to < 0 || to >= len(siblings) {
					return "", InvalidIndexError{Value: args[1], Max: len(siblings) - 1}
				}
				if !s.MoveTask(c.ID, t.ID, to) {
					return formatter.FormatMessage(fmt.Sprintf("%s is already at position %d", t.ID, to)), nil
				}
				return formatter.FormatMessage(fmt.Sprintf("Moved %s to position %d", t.ID, to)), nil
			})
		},
	}
}

// onTask resolves a task id across the board and runs fn inside a mutation.
func onTask(id string, fn func(s *store.Store, c *board.Column, t *task.Task) (string, error)) {
	mutate(func(b *board.Board, s *store.Store) (string, error) {
		c, t, err := resolveTask(b, id)
		if err != nil {
			return "", err
		}
		return fn(s, c, t)
	})
}
