package repository

import (
	"context"
	"time"

	"github.com/contactboard/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given pool.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ MessageRepository = (*PgMessageRepository)(nil)

// Create inserts a new messages row. created_at comes from the database clock.
func (r *PgMessageRepository) Create(ctx context.Context, subject, content, userEmail string) (*model.Message, error) {
	start := time.Now()
	m := &model.Message{
		ID:        uuid.NewString(),
		Subject:   subject,
		Content:   content,
		UserEmail: userEmail,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO messages (id, subject, content, user_email)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		m.ID, m.Subject, m.Content, m.UserEmail,
	).Scan(&m.CreatedAt)
	if err := observe("create_message", start, err); err != nil {
		return nil, err
	}
	return m, nil
}

const messageSelect = `SELECT m.id, m.subject, m.content, m.user_email, m.created_at, u.email, u.name
	FROM messages m
	JOIN users u ON u.email = m.user_email
	ORDER BY m.created_at DESC, m.id DESC`

// List returns messages with their owning user, newest first.
func (r *PgMessageRepository) List(ctx context.Context, limit int) ([]*model.Message, error) {
	start := time.Now()
	messages, err := r.list(ctx, limit)
	if err := observe("list_messages", start, err); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PgMessageRepository) list(ctx context.Context, limit int) ([]*model.Message, error) {
	query := messageSelect
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		var u model.User
		if err := rows.Scan(&m.ID, &m.Subject, &m.Content, &m.UserEmail, &m.CreatedAt, &u.Email, &u.Name); err != nil {
			return nil, err
		}
		m.User = &u
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
