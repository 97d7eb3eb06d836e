package service

import (
	"context"
	"fmt"
	"strings"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/view"
)

// TodoStore is the persistence the todo service needs.
type TodoStore interface {
	List(ctx context.Context) ([]domain.Task, error)
	Get(ctx context.Context, id int64) (domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t domain.Task) error
	SetCompleted(ctx context.Context, id int64, completed bool, completedAt *domain.Timestamp) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// TodoService handles todo business rules. It owns completion timestamps.
type TodoService struct {
	store TodoStore
	now   func() domain.Timestamp
}

// NewTodoService creates a new todo service
func NewTodoService(store TodoStore) *TodoService {
	return &TodoService{store: store, now: domain.Now}
}

// List returns the tasks that pass st's filters in st's order. Paging is left
// to the caller.
func (s *TodoService) List(ctx context.Context, st view.State) ([]domain.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return view.Apply(tasks, st), nil
}

func (s *TodoService) Get(ctx context.Context, id int64) (domain.Task, error) {
	return s.store.Get(ctx, id)
}

// Create stores a new, not yet completed task. A missing creation time is set
// to now.
func (s *TodoService) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	t, err := validate(t)
	if err != nil {
		return domain.Task{}, err
	}
	t.ID = 0
	t.Completed = false
	t.CompletedAt = nil
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	} else {
		t.CreatedAt = t.CreatedAt.Canonical()
	}

	err = s.store.Create(ctx, &t)
	countMutation("create", err)
	if err != nil {
		return domain.Task{}, fmt.Errorf("create todo: %w", err)
	}
	logger.WithContext(ctx).Info("todo created", "id", t.ID, "priority", t.Priority)
	return t, nil
}

// TodoUpdate holds the fields a PUT sent. Unsent fields keep their stored
// value; ClearDueDate removes the due date.
type TodoUpdate struct {
	Text         *string
	Priority     domain.Priority
	DueDate      *domain.Timestamp
	ClearDueDate bool
}

// Update changes text, priority and due date. Completion and creation fields
// are kept as stored.
func (s *TodoService) Update(ctx context.Context, id int64, u TodoUpdate) (domain.Task, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	if u.Text != nil {
		current.Text = *u.Text
	}
	if u.Priority != "" {
		current.Priority = u.Priority
	}
	switch {
	case u.ClearDueDate:
		current.DueDate = nil
	case u.DueDate != nil:
		current.DueDate = u.DueDate
	}

	current, err = validate(current)
	if err != nil {
		return domain.Task{}, err
	}

	err = s.store.Update(ctx, current)
	countMutation("update", err)
	if err != nil {
		return domain.Task{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	return current, nil
}

// MarkDone completes the task. Completing an already completed task keeps its
// original completion time.
func (s *TodoService) MarkDone(ctx context.Context, id int64) (domain.Task, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if current.Completed && current.CompletedAt != nil {
		return current, nil
	}

	now := s.now()
	err = s.store.SetCompleted(ctx, id, true, &now)
	countMutation("done", err)
	if err != nil {
		return domain.Task{}, fmt.Errorf("complete todo %d: %w", id, err)
	}
	current.Completed = true
	current.CompletedAt = &now
	return current, nil
}

// MarkNotDone reopens the task and clears its completion time.
func (s *TodoService) MarkNotDone(ctx context.Context, id int64) (domain.Task, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	err = s.store.SetCompleted(ctx, id, false, nil)
	countMutation("not_done", err)
	if err != nil {
		return domain.Task{}, fmt.Errorf("reopen todo %d: %w", id, err)
	}
	current.Completed = false
	current.CompletedAt = nil
	return current, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	countMutation("delete", err)
	if err != nil {
		return err
	}
	logger.WithContext(ctx).Info("todo deleted", "id", id)
	return nil
}

func (s *TodoService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func validate(t domain.Task) (domain.Task, error) {
	t.Text = strings.TrimSpace(t.Text)
	if t.Text == "" {
		return t, fmt.Errorf("%w: text is required", ErrInvalidTodo)
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityLow
	}
	if !t.Priority.Valid() {
		return t, fmt.Errorf("%w: priority must be high, medium or low", ErrInvalidTodo)
	}
	if t.DueDate != nil {
		due := t.DueDate.Canonical()
		t.DueDate = &due
	}
	return t, nil
}
