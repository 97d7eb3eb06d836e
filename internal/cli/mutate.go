package cli

import (
	"errors"
	"fmt"
	"strconv"

	"todo_webapp/internal/domain"

	"github.com/spf13/cobra"
)

var errNoChanges = errors.New("nothing to change, pass --text, --priority, --due or --clear-due")

func newAddCmd(a *app) *cobra.Command {
	var priority, due string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Create a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := domain.Draft{Text: args[0]}
			if priority != "" {
				p, err := domain.ParsePriority(priority)
				if err != nil {
					return err
				}
				d.Priority = p
			}
			if due != "" {
				ts, err := domain.ParseTimestamp(due)
				if err != nil {
					return err
				}
				d.DueDate = &ts
			}

			created, err := a.board.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created #%d %s\n", created.ID, created.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "high, medium or low (default low)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "due date, e.g. 2024-12-31 or 2024-12-31T18:00:00")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		text, priority, due string
		clearDue            bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the text, priority or due date of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			f := cmd.Flags()
			if !f.Changed("text") && !f.Changed("priority") && !f.Changed("due") && !clearDue {
				return errNoChanges
			}
			if f.Changed("text") {
				t.Text = text
			}
			if f.Changed("priority") {
				p, err := domain.ParsePriority(priority)
				if err != nil {
					return err
				}
				t.Priority = p
			}
			switch {
			case clearDue:
				t.DueDate = nil
			case f.Changed("due"):
				ts, err := domain.ParseTimestamp(due)
				if err != nil {
					return err
				}
				t.DueDate = &ts
			}

			updated, err := a.board.Edit(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated #%d %s\n", updated.ID, updated.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "new text")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	cmd.Flags().StringVarP(&due, "due", "d", "", "new due date")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a todo done, or not done when it already is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			updated, err := a.board.Toggle(cmd.Context(), t.ID, t.Completed)
			if err != nil {
				return err
			}
			state := "not done"
			if updated.Completed {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d is %s\n", updated.ID, state)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.board.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d\n", id)
			return nil
		},
	}
}

// lookup finds a task in the loaded list.
func (a *app) lookup(arg string) (domain.Task, error) {
	id, err := parseID(arg)
	if err != nil {
		return domain.Task{}, err
	}
	for _, t := range a.board.Store().Snapshot() {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Task{}, fmt.Errorf("todo #%d: %w", id, domain.ErrTaskNotFound)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
