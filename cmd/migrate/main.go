package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/contactboard/backend/internal/config"
	"github.com/contactboard/backend/internal/logging"
	"github.com/contactboard/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply pending migrations
  reset       drop every table and recreate from the consolidated schema
  fresh       drop every table and apply all migrations in order`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	logging.Setup()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd != "" && cmd != "reset" && cmd != "fresh" {
		usage()
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	switch cmd {
	case "":
		runIncremental(ctx, pool)
	case "reset":
		runDropAll(ctx, pool)
		slog.Info("applying consolidated schema")
		if err := repository.ApplyConsolidated(ctx, pool); err != nil {
			fatal(pool, "consolidated apply failed", err)
		}
		slog.Info("consolidated schema applied")
	case "fresh":
		runDropAll(ctx, pool)
		runIncremental(ctx, pool)
	}
}

func runIncremental(ctx context.Context, pool *pgxpool.Pool) {
	n, err := repository.Migrate(ctx, pool)
	if err != nil {
		fatal(pool, "migration failed", err)
	}
	if n == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", n)
	}
}

func runDropAll(ctx context.Context, pool *pgxpool.Pool) {
	slog.Info("dropping all tables")
	if err := repository.DropAll(ctx, pool); err != nil {
		fatal(pool, "drop all failed", err)
	}
	slog.Info("all tables dropped")
}

// fatal closes the pool, then exits.
func fatal(pool *pgxpool.Pool, msg string, err error) {
	pool.Close()
	logging.Fatal(msg, "error", err)
}
