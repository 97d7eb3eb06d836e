package view

import (
	"fmt"
	"strings"

	"todo_webapp/internal/domain"
)

// Status filters tasks by completion.
type Status string

const (
	StatusAll     Status = ""
	StatusDone    Status = "done"
	StatusNotDone Status = "not_done"
)

// ParseStatus maps "", "all", "done" and "not_done" to a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case "done":
		return StatusDone, nil
	case "not_done", "not-done":
		return StatusNotDone, nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// ParsePriorityFilter maps "" and "all" to no filter.
func ParsePriorityFilter(s string) (domain.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return "", nil
	}
	return domain.ParsePriority(s)
}

// SortAxis is the column the visible list is ordered by. Only one axis is
// active at a time.
type SortAxis int

const (
	SortNone SortAxis = iota
	SortPriority
	SortDueDate
)

func (a SortAxis) String() string {
	switch a {
	case SortPriority:
		return "priority"
	case SortDueDate:
		return "due_date"
	}
	return "none"
}

const DefaultPageSize = 5

// PageSizes are the page sizes offered by the pager.
var PageSizes = []int{5, 10, 15}

// State holds the transient filter, sort and paging parameters of the list.
// It is a value: every method returns a modified copy.
type State struct {
	Text     string
	Priority domain.Priority
	Status   Status

	Sort              SortAxis
	PriorityAscending bool
	DueDateAscending  bool

	Page     int
	PageSize int
}

// NewState returns the initial view: no filters, backend order, first page.
func NewState() State {
	return State{PageSize: DefaultPageSize}
}

func (s State) WithText(text string) State {
	s.Text = text
	s.Page = 0
	return s
}

func (s State) WithPriority(p domain.Priority) State {
	s.Priority = p
	s.Page = 0
	return s
}

func (s State) WithStatus(st Status) State {
	s.Status = st
	s.Page = 0
	return s
}

// ToggleSort flips the direction of axis and makes it the active one. The
// other axis keeps its stored direction for when it is toggled again.
func (s State) ToggleSort(axis SortAxis) State {
	switch axis {
	case SortPriority:
		s.PriorityAscending = !s.PriorityAscending
	case SortDueDate:
		s.DueDateAscending = !s.DueDateAscending
	default:
		return s
	}
	s.Sort = axis
	return s
}

func (s State) WithPage(page int) State {
	if page < 0 {
		page = 0
	}
	s.Page = page
	return s
}

// WithPageSize changes the page size and goes back to the first page.
func (s State) WithPageSize(size int) State {
	if size <= 0 {
		size = DefaultPageSize
	}
	s.PageSize = size
	s.Page = 0
	return s
}
