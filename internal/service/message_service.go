package service

import (
	"context"

	"github.com/contactboard/backend/internal/model"
	"github.com/contactboard/backend/internal/repository"
)

// RecentMessagesLimit is the size of the snapshot sent to new subscribers.
const RecentMessagesLimit = 10

// MessageService reads the message board.
type MessageService interface {
	// List returns every message, newest first.
	List(ctx context.Context) ([]*model.Message, error)
	// Recent returns at most RecentMessagesLimit messages, newest first.
	Recent(ctx context.Context) ([]*model.Message, error)
}

type messageServiceImpl struct {
	repo repository.MessageRepository
}

// NewMessageService creates a MessageService backed by the given repository.
func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageServiceImpl{repo: repo}
}

func (s *messageServiceImpl) List(ctx context.Context) ([]*model.Message, error) {
	return s.repo.List(ctx, 0)
}

func (s *messageServiceImpl) Recent(ctx context.Context) ([]*model.Message, error) {
	return s.repo.List(ctx, RecentMessagesLimit)
}
