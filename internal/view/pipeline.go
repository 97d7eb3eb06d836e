package view

import (
	"slices"
	"strings"

	"todo_webapp/internal/domain"
)

// Apply filters and orders tasks according to st. The input slice is never
// modified; the result is always a fresh slice.
func Apply(tasks []domain.Task, st State) []domain.Task {
	needle := strings.ToLower(st.Text)

	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		if st.Priority != "" && t.Priority != st.Priority {
			continue
		}
		switch st.Status {
		case StatusDone:
			if !t.Completed {
				continue
			}
		case StatusNotDone:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}

	switch st.Sort {
	case SortDueDate:
		slices.SortStableFunc(out, byDueDate(st.DueDateAscending))
	case SortPriority:
		slices.SortStableFunc(out, byPriority(st.PriorityAscending))
	}
	return out
}

// tasks without a due date go last in both directions
func byDueDate(ascending bool) func(a, b domain.Task) int {
	return func(a, b domain.Task) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		c := a.DueDate.Compare(b.DueDate.Time)
		if !ascending {
			c = -c
		}
		return c
	}
}

func byPriority(ascending bool) func(a, b domain.Task) int {
	return func(a, b domain.Task) int {
		c := a.Priority.Rank() - b.Priority.Rank()
		if !ascending {
			c = -c
		}
		return c
	}
}
