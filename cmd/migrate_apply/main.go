package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"prediction_webapp/internal/config"
	"prediction_webapp/internal/db"
	"prediction_webapp/internal/logger"
)

// Applies every migrations/*.sql file in lexical order. Statements are
// written to be idempotent, so re-running is safe.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	cfg := config.Load()
	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Fatal("failed to read migrations dir", "dir", dir, "error", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	ctx := context.Background()
	for _, name := range files {
		sql, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Fatal("failed to read migration", "file", name, "error", err)
		}

		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logger.Fatal("migration failed", "file", name, "error", err)
		}
		logger.Info("migration applied", "file", name)
	}

	// keep the pool capacity in step with config; allocated is never touched
	if _, err := pool.Exec(ctx,
		`UPDATE bonus_pool SET capacity = $1 WHERE id = 1 AND allocated <= $1`,
		cfg.BonusCapacity,
	); err != nil {
		logger.Fatal("failed to sync bonus pool capacity", "error", err)
	}

	logger.Info("migrations complete", "count", len(files))
}
