package repository

import (
	"context"
	"errors"
	"time"

	"todo_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TodoRepository stores todos in PostgreSQL.
type TodoRepository struct {
	db *pgxpool.Pool
}

func NewTodoRepository(db *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, text, priority, due_date, completed, created_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (domain.Task, error) {
	var (
		t           domain.Task
		priority    string
		createdAt   time.Time
		dueDate     *time.Time
		completedAt *time.Time
	)
	if err := row.Scan(&t.ID, &t.Text, &priority, &dueDate, &t.Completed, &createdAt, &completedAt); err != nil {
		return domain.Task{}, err
	}
	t.Priority = domain.Priority(priority)
	t.CreatedAt = domain.NewTimestamp(createdAt)
	t.DueDate = toTimestamp(dueDate)
	t.CompletedAt = toTimestamp(completedAt)
	return t, nil
}

func toTimestamp(t *time.Time) *domain.Timestamp {
	if t == nil {
		return nil
	}
	ts := domain.NewTimestamp(*t)
	return &ts
}

func fromTimestamp(ts *domain.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.UTC()
	return &t
}

// List returns all todos in insertion order.
func (r *TodoRepository) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.Task{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TodoRepository) Get(ctx context.Context, id int64) (domain.Task, error) {
	t, err := scanTodo(r.db.QueryRow(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, err
}

func (r *TodoRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO todos (text, priority, due_date, completed, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		t.Text,
		string(t.Priority),
		fromTimestamp(t.DueDate),
		t.Completed,
		t.CreatedAt.UTC(),
		fromTimestamp(t.CompletedAt),
	).Scan(&t.ID)
}

func (r *TodoRepository) Update(ctx context.Context, t domain.Task) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE todos SET text = $1, priority = $2, due_date = $3 WHERE id = $4`,
		t.Text, string(t.Priority), fromTimestamp(t.DueDate), t.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TodoRepository) SetCompleted(ctx context.Context, id int64, completed bool, completedAt *domain.Timestamp) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE todos SET completed = $1, completed_at = $2 WHERE id = $3`,
		completed, fromTimestamp(completedAt), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
