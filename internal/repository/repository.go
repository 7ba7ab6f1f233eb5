package repository

import (
	"context"
	"time"

	"github.com/contactboard/backend/internal/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens the process-wide PostgreSQL pool and verifies it with a ping.
// The caller owns the pool and must Close it at shutdown.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, &StoreError{Op: "connect", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &StoreError{Op: "connect", Err: err}
	}
	return pool, nil
}

// observe records the query metric for op and converts err into a StoreError.
func observe(op string, start time.Time, err error) error {
	metrics.RecordDBQuery(op, time.Since(start), err)
	if err != nil {
		return &StoreError{Op: op, Err: err}
	}
	return nil
}
