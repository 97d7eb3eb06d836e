package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"todo_webapp/internal/config"
	"todo_webapp/internal/db"
	"todo_webapp/internal/logger"
)

// Lists the Postgres migrations, or applies them in name order with -apply.
// SQLite storage migrates itself on open.
func main() {
	apply := flag.Bool("apply", false, "apply migrations")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("read migrations dir", "dir", *dir, "error", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	if !*apply {
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	if cfg.StorageDriver != config.StoragePostgres {
		logger.Fatal("migrations apply to postgres only, set DATABASE_URL")
	}
	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	ctx := context.Background()
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			logger.Fatal("read migration", "file", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			logger.Fatal("apply migration", "file", name, "error", err)
		}
		logger.Info("migration applied", "file", name)
	}
}
