package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contactboard/backend/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations and returns how many were applied.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		return 0, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	ups, err := migrations.Up()
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}

	applied := 0
	for _, m := range ups {
		var exists bool
		if err := pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", m.Name).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check %s: %w", m.Name, err)
		}
		if exists {
			continue
		}
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return applied, fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", m.Name); err != nil {
			return applied, fmt.Errorf("record %s: %w", m.Name, err)
		}
		applied++
		slog.Info("migration completed", "migration", m.Name)
	}
	return applied, nil
}

// DropAll drops every table owned by this service.
func DropAll(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := migrations.Read(migrations.DropAll)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, sql)
	return err
}

// ApplyConsolidated creates the full schema in one step and marks every
// incremental migration as applied.
func ApplyConsolidated(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := migrations.Read(migrations.Consolidated)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("apply consolidated schema: %w", err)
	}
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		return err
	}
	ups, err := migrations.Up()
	if err != nil {
		return err
	}
	for _, m := range ups {
		if _, err := pool.Exec(ctx,
			"INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", m.Name); err != nil {
			return fmt.Errorf("mark %s: %w", m.Name, err)
		}
	}
	return nil
}
