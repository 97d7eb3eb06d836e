package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
)

var (
	// ErrSuperseded is returned by Refresh when a newer refresh started before
	// this one finished. The newer one owns the store update.
	ErrSuperseded = errors.New("refresh superseded by a newer one")
	ErrMissingID  = errors.New("task has no id")
)

// API is the backend the coordinator sends mutations to.
type API interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	Update(ctx context.Context, t domain.Task) (domain.Task, error)
	MarkDone(ctx context.Context, id int64) (domain.Task, error)
	MarkNotDone(ctx context.Context, id int64) (domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

// Coordinator issues mutations against the backend and refetches the whole
// list after each confirmed one. The store is never changed optimistically.
type Coordinator struct {
	api   API
	store *Store
	now   func() domain.Timestamp

	mu          sync.Mutex
	seq         uint64
	cancelFetch context.CancelFunc
	latest      *refreshCall
}

// refreshCall is the outcome of one Refresh, readable once done is closed.
type refreshCall struct {
	done chan struct{}
	err  error
}

func NewCoordinator(api API, store *Store) *Coordinator {
	return &Coordinator{api: api, store: store, now: domain.Now}
}

// Refresh refetches the full list and replaces the store. Starting a refresh
// cancels the one still in flight.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	c.seq++
	gen := c.seq
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancelFetch = cancel
	call := &refreshCall{done: make(chan struct{})}
	c.latest = call
	c.mu.Unlock()
	defer cancel()

	call.err = c.fetch(fetchCtx, gen)
	close(call.done)
	return call.err
}

func (c *Coordinator) fetch(fetchCtx context.Context, gen uint64) error {
	tasks, err := c.api.List(fetchCtx)
	if err != nil {
		if c.superseded(gen) {
			return ErrSuperseded
		}
		logger.Error("refresh todos failed", "error", err)
		return fmt.Errorf("refresh todos: %w", err)
	}
	if !c.store.Replace(gen, tasks) {
		return ErrSuperseded
	}
	logger.Debug("todos refreshed", "count", len(tasks), "generation", gen)
	return nil
}

func (c *Coordinator) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.seq
}

// Create submits a new task built from d and returns it with its backend id.
func (c *Coordinator) Create(ctx context.Context, d domain.Draft) (domain.Task, error) {
	d = d.Normalize()
	t := domain.Task{
		Text:      d.Text,
		Priority:  d.Priority,
		DueDate:   d.DueDate,
		Completed: false,
		CreatedAt: c.now(),
	}

	created, err := c.api.Create(ctx, t)
	if err != nil {
		return domain.Task{}, c.failed("create", 0, err)
	}
	return created, c.refreshAfter(ctx)
}

// Edit sends new text, priority and due date for an existing task.
func (c *Coordinator) Edit(ctx context.Context, t domain.Task) (domain.Task, error) {
	if t.ID == 0 {
		return domain.Task{}, c.failed("edit", 0, ErrMissingID)
	}
	t.Text = strings.TrimSpace(t.Text)
	if t.DueDate != nil {
		ts := t.DueDate.Canonical()
		t.DueDate = &ts
	}

	updated, err := c.api.Update(ctx, t)
	if err != nil {
		return domain.Task{}, c.failed("edit", t.ID, err)
	}
	return updated, c.refreshAfter(ctx)
}

// Toggle flips completion of task id given its current completed flag. The
// backend sets or clears the completion time.
func (c *Coordinator) Toggle(ctx context.Context, id int64, completed bool) (domain.Task, error) {
	var (
		updated domain.Task
		err     error
	)
	if completed {
		updated, err = c.api.MarkNotDone(ctx, id)
	} else {
		updated, err = c.api.MarkDone(ctx, id)
	}
	if err != nil {
		return domain.Task{}, c.failed("toggle", id, err)
	}
	return updated, c.refreshAfter(ctx)
}

func (c *Coordinator) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return c.failed("delete", id, err)
	}
	return c.refreshAfter(ctx)
}

func (c *Coordinator) failed(op string, id int64, err error) error {
	logger.Error("todo mutation failed", "op", op, "id", id, "error", err)
	return fmt.Errorf("%s todo: %w", op, err)
}

// refreshAfter refetches after a confirmed mutation. When a newer refresh
// supersedes this one, its outcome is the mutation's outcome.
func (c *Coordinator) refreshAfter(ctx context.Context) error {
	err := c.Refresh(ctx)
	for errors.Is(err, ErrSuperseded) {
		c.mu.Lock()
		call := c.latest
		c.mu.Unlock()

		select {
		case <-call.done:
			err = call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
