package repository

import (
	"context"
	"errors"
	"fmt"

	"todo_webapp/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TodoRecord is the gorm model of a todo row.
// Timestamps go through domain.Timestamp's Scan and Value, so rows come back
// in canonical form.
type TodoRecord struct {
	ID          int64             `gorm:"primaryKey;autoIncrement"`
	Text        string            `gorm:"not null"`
	Priority    string            `gorm:"size:10;not null;index"`
	DueDate     *domain.Timestamp `gorm:"type:datetime"`
	Completed   bool              `gorm:"not null;default:false;index"`
	CreatedAt   domain.Timestamp  `gorm:"type:datetime;not null;autoCreateTime:false"`
	CompletedAt *domain.Timestamp `gorm:"type:datetime"`
}

// TableName returns the table name for TodoRecord.
func (TodoRecord) TableName() string {
	return "todos"
}

func (r TodoRecord) task() domain.Task {
	return domain.Task{
		ID:          r.ID,
		Text:        r.Text,
		Priority:    domain.Priority(r.Priority),
		DueDate:     r.DueDate,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
}

// OpenSQLite opens (and migrates) a SQLite database at path. Use ":memory:"
// for a throwaway database.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection: sqlite serializes writers and ":memory:" is per connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&TodoRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return db, nil
}

// SQLiteTodoRepository stores todos through gorm, used for local runs.
type SQLiteTodoRepository struct {
	db *gorm.DB
}

func NewSQLiteTodoRepository(db *gorm.DB) *SQLiteTodoRepository {
	return &SQLiteTodoRepository{db: db}
}

func (r *SQLiteTodoRepository) List(ctx context.Context) ([]domain.Task, error) {
	var records []TodoRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	res := make([]domain.Task, 0, len(records))
	for _, rec := range records {
		res = append(res, rec.task())
	}
	return res, nil
}

func (r *SQLiteTodoRepository) Get(ctx context.Context, id int64) (domain.Task, error) {
	var rec TodoRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("failed to find todo: %w", err)
	}
	return rec.task(), nil
}

func (r *SQLiteTodoRepository) Create(ctx context.Context, t *domain.Task) error {
	rec := TodoRecord{
		Text:        t.Text,
		Priority:    string(t.Priority),
		DueDate:     canonical(t.DueDate),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.Canonical(),
		CompletedAt: canonical(t.CompletedAt),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	t.ID = rec.ID
	return nil
}

func (r *SQLiteTodoRepository) Update(ctx context.Context, t domain.Task) error {
	return r.updates(ctx, t.ID, map[string]any{
		"text":     t.Text,
		"priority": string(t.Priority),
		"due_date": canonical(t.DueDate),
	})
}

func (r *SQLiteTodoRepository) SetCompleted(ctx context.Context, id int64, completed bool, completedAt *domain.Timestamp) error {
	return r.updates(ctx, id, map[string]any{
		"completed":    completed,
		"completed_at": canonical(completedAt),
	})
}

func (r *SQLiteTodoRepository) updates(ctx context.Context, id int64, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(&TodoRecord{}).Where("id = ?", id).Updates(fields)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteTodoRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&TodoRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func canonical(ts *domain.Timestamp) *domain.Timestamp {
	if ts == nil {
		return nil
	}
	c := ts.Canonical()
	return &c
}

func (r *SQLiteTodoRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
