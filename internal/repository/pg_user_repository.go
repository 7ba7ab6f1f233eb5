package repository

import (
	"context"
	"time"

	"github.com/contactboard/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository is the PostgreSQL implementation of UserRepository.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository creates a PgUserRepository backed by the given pool.
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ UserRepository = (*PgUserRepository)(nil)

// Upsert inserts the user or, on an email conflict, overwrites the name.
// Concurrent upserts for one email are last-write-wins on name.
func (r *PgUserRepository) Upsert(ctx context.Context, email, name string) (*model.User, error) {
	start := time.Now()
	var u model.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name) VALUES ($1, $2)
		 ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		 RETURNING email, name`,
		email, name,
	).Scan(&u.Email, &u.Name)
	if err := observe("upsert_user", start, err); err != nil {
		return nil, err
	}
	return &u, nil
}
