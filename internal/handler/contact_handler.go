package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/contactboard/backend/internal/model"
	"github.com/contactboard/backend/internal/service"
)

const maxBodyBytes = 1 << 20

// ContactHandler handles contact form submission.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit handles POST /api/contact. The body is JSON or form-encoded
// {name, subject, email, message}.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	sub, err := decodeSubmission(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.contactService.Submit(r.Context(), sub)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, apiResponse{Error: ve.Error()})
			return
		}
		slog.Error("contact submission failed", "error", err, "email", sub.Email)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Error: errInternal})
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Message sent successfully",
		Data:    result,
	})
}

func decodeSubmission(r *http.Request) (*model.ContactSubmission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &model.ContactSubmission{
			Name:    r.PostForm.Get("name"),
			Subject: r.PostForm.Get("subject"),
			Email:   r.PostForm.Get("email"),
			Message: r.PostForm.Get("message"),
		}, nil
	}

	var sub model.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
