package repository

import (
	"context"

	"github.com/contactboard/backend/internal/model"
)

// DB is the store probe used for health reporting.
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository persists contact submitters.
type UserRepository interface {
	// Upsert creates the user if the email is new, otherwise overwrites its name.
	Upsert(ctx context.Context, email, name string) (*model.User, error)
}

// MessageRepository persists contact messages.
type MessageRepository interface {
	// Create inserts a message for an existing user. The caller is responsible
	// for upserting the user first.
	Create(ctx context.Context, subject, content, userEmail string) (*model.Message, error)

	// List returns messages joined with their user, newest first.
	// limit <= 0 returns every message.
	List(ctx context.Context, limit int) ([]*model.Message, error)
}
