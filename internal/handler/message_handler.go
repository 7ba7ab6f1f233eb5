package handler

import (
	"log/slog"
	"net/http"

	"github.com/contactboard/backend/internal/model"
	"github.com/contactboard/backend/internal/service"
)

// MessageHandler serves the message board.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// List handles GET /api/messages: every message with its user, newest first.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageService.List(r.Context())
	if err != nil {
		slog.Error("list messages failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Error: errInternal})
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.Message{}
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: messages})
}
