package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"todo_webapp/internal/view"

	"github.com/spf13/cobra"
)

type viewFlags struct {
	text         string
	priority     string
	status       string
	sortPriority string
	sortDue      string
	page         int
	pageSize     int
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "case-insensitive text filter")
	cmd.Flags().StringVar(&f.priority, "priority", "", "priority filter: high, medium, low or all")
	cmd.Flags().StringVar(&f.status, "status", "", "status filter: done, not_done or all")
	cmd.Flags().StringVar(&f.sortPriority, "sort-priority", "", "sort by priority: asc or desc")
	cmd.Flags().StringVar(&f.sortDue, "sort-due", "", "sort by due date: asc or desc (tasks without one go last)")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page: 5, 10 or 15 (default $TODO_PAGE_SIZE)")
}

// state builds the view state the same way the interactive controls would:
// filters first, then sort toggles, then paging.
func (f *viewFlags) state(defaultPageSize int) (view.State, error) {
	st := view.NewState().WithText(f.text)

	p, err := view.ParsePriorityFilter(f.priority)
	if err != nil {
		return st, err
	}
	st = st.WithPriority(p)

	status, err := view.ParseStatus(f.status)
	if err != nil {
		return st, err
	}
	st = st.WithStatus(status)

	if st, err = applySort(st, view.SortPriority, f.sortPriority); err != nil {
		return st, err
	}
	if st, err = applySort(st, view.SortDueDate, f.sortDue); err != nil {
		return st, err
	}

	size := f.pageSize
	if size == 0 {
		size = defaultPageSize
	}
	if !slices.Contains(view.PageSizes, size) {
		return st, fmt.Errorf("page size must be one of %v, got %d", view.PageSizes, size)
	}
	st = st.WithPageSize(size)
	if f.page < 1 {
		return st, errors.New("page must be at least 1")
	}
	return st.WithPage(f.page - 1), nil
}

// The first toggle of an axis sorts ascending, a second one descending.
func applySort(st view.State, axis view.SortAxis, dir string) (view.State, error) {
	switch strings.ToLower(dir) {
	case "":
		return st, nil
	case "asc":
		return st.ToggleSort(axis), nil
	case "desc":
		return st.ToggleSort(axis).ToggleSort(axis), nil
	}
	return st, fmt.Errorf("invalid %s sort direction %q, want asc or desc", axis, dir)
}

func newListCmd(a *app) *cobra.Command {
	var (
		flags  viewFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos with filters, sorting and paging",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := flags.state(a.cfg.PageSize)
			if err != nil {
				return err
			}
			a.board.Update(func(view.State) view.State { return st })

			rendered := a.board.Page()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rendered)
			}
			fmt.Fprintln(out, renderTasks(rendered.Items))
			fmt.Fprintln(out, renderFooter(rendered))
			fmt.Fprintln(out, renderMetrics(rendered.Metrics))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page as JSON")
	return cmd
}
