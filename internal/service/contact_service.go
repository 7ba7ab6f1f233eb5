package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/contactboard/backend/internal/metrics"
	"github.com/contactboard/backend/internal/model"
	"github.com/contactboard/backend/internal/repository"
)

// MaxMessageLength caps the message body, counted in characters.
const MaxMessageLength = 5000

// ContactService handles contact form submissions.
type ContactService interface {
	// Submit upserts the submitter, stores the message and broadcasts the
	// result as a new-message event.
	Submit(ctx context.Context, sub *model.ContactSubmission) (*model.ContactResult, error)
}

type contactServiceImpl struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	notifier Notifier
}

// NewContactService creates a ContactService. A nil notifier disables broadcasting.
func NewContactService(users repository.UserRepository, messages repository.MessageRepository, notifier Notifier) ContactService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &contactServiceImpl{users: users, messages: messages, notifier: notifier}
}

// Submit runs the write path in order: upsert user, create message, publish.
// There is no transaction around the two writes; ordering alone guarantees
// the message's user exists.
func (s *contactServiceImpl) Submit(ctx context.Context, sub *model.ContactSubmission) (*model.ContactResult, error) {
	sub.Email = strings.TrimSpace(sub.Email)
	if err := validate(sub); err != nil {
		metrics.RecordContactSubmission("invalid")
		return nil, err
	}

	user, err := s.users.Upsert(ctx, sub.Email, sub.Name)
	if err != nil {
		metrics.RecordContactSubmission("error")
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	msg, err := s.messages.Create(ctx, sub.Subject, sub.Message, user.Email)
	if err != nil {
		metrics.RecordContactSubmission("error")
		return nil, fmt.Errorf("create message: %w", err)
	}

	result := &model.ContactResult{Message: msg, User: user}
	s.notifier.Publish(EventNewMessage, result)
	metrics.RecordContactSubmission("success")
	return result, nil
}

func validate(sub *model.ContactSubmission) error {
	if sub.Email == "" {
		return &ValidationError{Field: "email", Reason: "required"}
	}
	if sub.Message == "" {
		return &ValidationError{Field: "message", Reason: "required"}
	}
	if len([]rune(sub.Message)) > MaxMessageLength {
		return &ValidationError{Field: "message", Reason: "too long"}
	}
	return nil
}
