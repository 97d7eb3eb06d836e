package db

import (
	"context"
	"fmt"
	"time"

	"todo_webapp/internal/config"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(dsn string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return db
}

// OpenTodoStore opens the storage selected by cfg.StorageDriver. The returned
// func releases it.
func OpenTodoStore(cfg *config.Config) (service.TodoStore, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool := Connect(cfg.DatabaseURL)
		return repository.NewTodoRepository(pool), pool.Close, nil
	case config.StorageSQLite:
		gdb, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite database opened", "path", cfg.SQLitePath)
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewSQLiteTodoRepository(gdb), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
