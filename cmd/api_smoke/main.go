package main

import (
	"context"
	"errors"
	"os"
	"time"

	"todo_webapp/internal/board"
	"todo_webapp/internal/client"
	"todo_webapp/internal/config"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
)

// Runs create, done, not-done, edit and delete against a running server
// through the same board the terminal client uses, checking the refetched
// list after every step.
func main() {
	cfg := config.LoadClient()
	logger.Init(cfg.LogLevel, false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b := board.New(client.New(cfg.APIURL, cfg.Token))
	if err := b.Load(ctx); err != nil {
		logger.Fatal("initial load failed", "url", cfg.APIURL, "error", err)
	}
	before := b.Store().Len()

	due := domain.NewTimestamp(time.Now().Add(48 * time.Hour))
	created, err := b.Create(ctx, domain.Draft{Text: "smoke check", Priority: domain.PriorityHigh, DueDate: &due})
	must("create", err)
	expect("create", b, created.ID, func(t domain.Task) bool { return !t.Completed && t.Text == "smoke check" })
	if b.Store().Len() != before+1 {
		fail("create", errors.New("list did not grow"))
	}

	_, err = b.Toggle(ctx, created.ID, false)
	must("done", err)
	expect("done", b, created.ID, func(t domain.Task) bool { return t.Completed && t.CompletedAt != nil })

	_, err = b.Toggle(ctx, created.ID, true)
	must("not-done", err)
	expect("not-done", b, created.ID, func(t domain.Task) bool { return !t.Completed && t.CompletedAt == nil })

	edit := created
	edit.Text = "smoke check edited"
	edit.Priority = domain.PriorityLow
	_, err = b.Edit(ctx, edit)
	must("edit", err)
	expect("edit", b, created.ID, func(t domain.Task) bool {
		return t.Text == "smoke check edited" && t.Priority == domain.PriorityLow
	})

	must("delete", b.Delete(ctx, created.ID))
	if _, ok := find(b, created.ID); ok {
		fail("delete", errors.New("task still listed"))
	}

	logger.Info("smoke passed", "url", cfg.APIURL, "tasks", b.Store().Len(), "metrics", b.Page().Metrics.Overall.String())
}

func find(b *board.Board, id int64) (domain.Task, bool) {
	for _, t := range b.Store().Snapshot() {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func expect(step string, b *board.Board, id int64, ok func(domain.Task) bool) {
	t, found := find(b, id)
	if !found {
		fail(step, errors.New("task missing from list"))
	}
	if !ok(t) {
		logger.Fatal("smoke step check failed", "step", step, "task", t)
	}
	logger.Info("smoke step ok", "step", step, "id", id)
}

func must(step string, err error) {
	if err != nil {
		fail(step, err)
	}
}

func fail(step string, err error) {
	logger.Error("smoke step failed", "step", step, "error", err)
	os.Exit(1)
}
