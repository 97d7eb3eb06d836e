package domain

import (
	"errors"
	"strings"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority in rank order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority accepts any casing of high, medium or low.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities high=0, medium=1, low=2. Unknown values sort after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Task is a single to-do item as stored by the backend and seen by the client.
type Task struct {
	ID          int64      `json:"id,omitempty"`
	Text        string     `json:"text"`
	Priority    Priority   `json:"priority"`
	DueDate     *Timestamp `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CreatedAt   Timestamp  `json:"createdAt"`
	CompletedAt *Timestamp `json:"completedAt"`
}

// Draft is what the add form submits before the backend assigns an id.
type Draft struct {
	Text     string
	Priority Priority
	DueDate  *Timestamp
}

// Normalize trims the text and applies the default priority.
func (d Draft) Normalize() Draft {
	d.Text = strings.TrimSpace(d.Text)
	if d.Priority == "" {
		d.Priority = PriorityLow
	}
	if d.DueDate != nil {
		ts := d.DueDate.Canonical()
		d.DueDate = &ts
	}
	return d
}
