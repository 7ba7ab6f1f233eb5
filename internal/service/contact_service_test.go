package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/contactboard/backend/internal/model"
	"github.com/contactboard/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// mocks
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	upsertFunc func(ctx context.Context, email, name string) (*model.User, error)
}

func (m *mockUserRepository) Upsert(ctx context.Context, email, name string) (*model.User, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, email, name)
	}
	return &model.User{Email: email, Name: name}, nil
}

type mockMessageRepository struct {
	createFunc func(ctx context.Context, subject, content, userEmail string) (*model.Message, error)
	listFunc   func(ctx context.Context, limit int) ([]*model.Message, error)
}

func (m *mockMessageRepository) Create(ctx context.Context, subject, content, userEmail string) (*model.Message, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, subject, content, userEmail)
	}
	return &model.Message{ID: "m1", Subject: subject, Content: content, UserEmail: userEmail, CreatedAt: time.Now()}, nil
}

func (m *mockMessageRepository) List(ctx context.Context, limit int) ([]*model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return nil, nil
}

type published struct {
	event   string
	payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *recordingNotifier) Publish(event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{event: event, payload: payload})
}

// memoryStore backs both repositories with maps so that upsert semantics can
// be observed across submissions.
type memoryStore struct {
	users    map[string]*model.User
	messages []*model.Message
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]*model.User)}
}

func (s *memoryStore) userRepo() *mockUserRepository {
	return &mockUserRepository{upsertFunc: func(ctx context.Context, email, name string) (*model.User, error) {
		s.users[email] = &model.User{Email: email, Name: name}
		u := *s.users[email]
		return &u, nil
	}}
}

func (s *memoryStore) messageRepo() *mockMessageRepository {
	return &mockMessageRepository{createFunc: func(ctx context.Context, subject, content, userEmail string) (*model.Message, error) {
		if _, ok := s.users[userEmail]; !ok {
			return nil, &repository.StoreError{Op: "create_message", Err: errors.New("foreign key violation")}
		}
		m := &model.Message{ID: string(rune('a' + len(s.messages))), Subject: subject, Content: content, UserEmail: userEmail, CreatedAt: time.Now()}
		s.messages = append(s.messages, m)
		return m, nil
	}}
}

func validSubmission() *model.ContactSubmission {
	return &model.ContactSubmission{Name: "Ana", Subject: "Hi", Email: "a@x.com", Message: "Hello"}
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestContactService_Submit_Success(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewContactService(&mockUserRepository{}, &mockMessageRepository{}, notifier)

	res, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.Email != "a@x.com" {
		t.Errorf("expected user email a@x.com, got %q", res.User.Email)
	}
	if res.Message.Content != "Hello" {
		t.Errorf("expected content Hello, got %q", res.Message.Content)
	}
	if res.Message.UserEmail != "a@x.com" {
		t.Errorf("expected message userEmail a@x.com, got %q", res.Message.UserEmail)
	}
}

func TestContactService_Submit_BroadcastsOnceWithSameResult(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewContactService(&mockUserRepository{}, &mockMessageRepository{}, notifier)

	res, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("expected exactly 1 broadcast, got %d", len(notifier.events))
	}
	ev := notifier.events[0]
	if ev.event != EventNewMessage {
		t.Errorf("expected event %q, got %q", EventNewMessage, ev.event)
	}
	if ev.payload != res {
		t.Error("broadcast payload should be the returned result")
	}
}

func TestContactService_Submit_UpsertsBeforeCreate(t *testing.T) {
	var calls []string
	users := &mockUserRepository{upsertFunc: func(ctx context.Context, email, name string) (*model.User, error) {
		calls = append(calls, "upsert")
		return &model.User{Email: email, Name: name}, nil
	}}
	messages := &mockMessageRepository{createFunc: func(ctx context.Context, subject, content, userEmail string) (*model.Message, error) {
		calls = append(calls, "create")
		return &model.Message{ID: "1", UserEmail: userEmail}, nil
	}}
	svc := NewContactService(users, messages, nil)

	if _, err := svc.Submit(context.Background(), validSubmission()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(calls, ",") != "upsert,create" {
		t.Errorf("expected upsert then create, got %v", calls)
	}
}

func TestContactService_Submit_SameEmailTwice(t *testing.T) {
	store := newMemoryStore()
	svc := NewContactService(store.userRepo(), store.messageRepo(), &recordingNotifier{})
	ctx := context.Background()

	if _, err := svc.Submit(ctx, validSubmission()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := &model.ContactSubmission{Name: "Ana2", Subject: "Hi2", Email: "a@x.com", Message: "Hello2"}
	res, err := svc.Submit(ctx, second)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if len(store.users) != 1 {
		t.Errorf("expected 1 user, got %d", len(store.users))
	}
	if store.users["a@x.com"].Name != "Ana2" {
		t.Errorf("expected name Ana2, got %q", store.users["a@x.com"].Name)
	}
	if len(store.messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(store.messages))
	}
	if res.User.Name != "Ana2" {
		t.Errorf("expected result user name Ana2, got %q", res.User.Name)
	}
}

func TestContactService_Submit_UpsertErrorNoBroadcast(t *testing.T) {
	notifier := &recordingNotifier{}
	createCalled := false
	users := &mockUserRepository{upsertFunc: func(ctx context.Context, email, name string) (*model.User, error) {
		return nil, &repository.StoreError{Op: "upsert_user", Err: errors.New("connection refused")}
	}}
	messages := &mockMessageRepository{createFunc: func(ctx context.Context, subject, content, userEmail string) (*model.Message, error) {
		createCalled = true
		return nil, nil
	}}
	svc := NewContactService(users, messages, notifier)

	_, err := svc.Submit(context.Background(), validSubmission())
	if !repository.IsStoreError(err) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if createCalled {
		t.Error("Create must not run after a failed upsert")
	}
	if len(notifier.events) != 0 {
		t.Errorf("expected no broadcast, got %d", len(notifier.events))
	}
}

func TestContactService_Submit_CreateErrorNoBroadcast(t *testing.T) {
	notifier := &recordingNotifier{}
	messages := &mockMessageRepository{createFunc: func(ctx context.Context, subject, content, userEmail string) (*model.Message, error) {
		return nil, &repository.StoreError{Op: "create_message", Err: errors.New("timeout")}
	}}
	svc := NewContactService(&mockUserRepository{}, messages, notifier)

	if _, err := svc.Submit(context.Background(), validSubmission()); err == nil {
		t.Fatal("expected error")
	}
	if len(notifier.events) != 0 {
		t.Errorf("expected no broadcast, got %d", len(notifier.events))
	}
}

func TestContactService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name  string
		sub   model.ContactSubmission
		field string
	}{
		{"missing email", model.ContactSubmission{Message: "hi"}, "email"},
		{"blank email", model.ContactSubmission{Email: "   ", Message: "hi"}, "email"},
		{"missing message", model.ContactSubmission{Email: "a@x.com"}, "message"},
		{"message too long", model.ContactSubmission{Email: "a@x.com", Message: strings.Repeat("a", MaxMessageLength+1)}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upsertCalled := false
			users := &mockUserRepository{upsertFunc: func(ctx context.Context, email, name string) (*model.User, error) {
				upsertCalled = true
				return &model.User{}, nil
			}}
			svc := NewContactService(users, &mockMessageRepository{}, nil)

			sub := tt.sub
			_, err := svc.Submit(context.Background(), &sub)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}
			if upsertCalled {
				t.Error("store must not be touched for invalid input")
			}
		})
	}
}

func TestContactService_Submit_MessageAtMaxLength(t *testing.T) {
	svc := NewContactService(&mockUserRepository{}, &mockMessageRepository{}, nil)
	sub := &model.ContactSubmission{Email: "a@x.com", Message: strings.Repeat("あ", MaxMessageLength)}
	if _, err := svc.Submit(context.Background(), sub); err != nil {
		t.Errorf("expected %d characters to be accepted, got %v", MaxMessageLength, err)
	}
}
