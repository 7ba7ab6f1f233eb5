package handler

import (
	"net/http"

	"github.com/contactboard/backend/internal/metrics"
	"github.com/contactboard/backend/internal/repository"
	"github.com/contactboard/backend/internal/service"
)

// RouterConfig carries the dependencies of every route.
type RouterConfig struct {
	DB       repository.DB
	Contacts service.ContactService
	Messages service.MessageService

	// Subscribe serves the real-time channel on GET /ws. Optional.
	Subscribe http.Handler

	// ContactLimiter guards POST /api/contact. Optional.
	ContactLimiter *RateLimiter
}

// NewRouter builds the route table wrapped in the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	h := New(cfg.DB)
	contactHandler := NewContactHandler(cfg.Contacts)
	messageHandler := NewMessageHandler(cfg.Messages)

	var submit http.Handler = http.HandlerFunc(contactHandler.Submit)
	if cfg.ContactLimiter != nil {
		submit = cfg.ContactLimiter.Middleware(submit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /api/messages", messageHandler.List)
	mux.Handle("POST /api/contact", submit)
	mux.Handle("GET /metrics", metrics.Handler())
	if cfg.Subscribe != nil {
		mux.Handle("GET /ws", cfg.Subscribe)
	}

	return Recoverer(RequestLogger(metrics.Middleware(SecurityHeaders(h.CORS(mux)))))
}
