package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgProbe checks that PostgreSQL answers queries.
type PgProbe struct {
	pool *pgxpool.Pool
}

// NewPgProbe creates a PgProbe backed by the given pool.
func NewPgProbe(pool *pgxpool.Pool) *PgProbe {
	return &PgProbe{pool: pool}
}

var _ DB = (*PgProbe)(nil)

// Ping issues a no-op query against the store.
func (p *PgProbe) Ping(ctx context.Context) error {
	start := time.Now()
	_, err := p.pool.Exec(ctx, `SELECT 1`)
	return observe("ping", start, err)
}
