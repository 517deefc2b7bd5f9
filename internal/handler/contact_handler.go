package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
)

// maxContactBody caps the request body well above the largest valid message.
const maxContactBody = 64 << 10

// ContactHandler handles the public contact form.
type ContactHandler struct {
	messages service.MessageService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(messages service.MessageService) *ContactHandler {
	return &ContactHandler{messages: messages}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Name    string `json:"name" validate:"notblank,max=200"`
	Email   string `json:"email" validate:"notblank,email,max=320"`
	Message string `json:"message" validate:"notblank,maxrunes"`
}

// Submit handles POST /api/contact.
// name, email and message are required; message max 5000 characters.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationCode(err))
		return
	}

	msg := &model.Message{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := h.messages.Submit(r.Context(), msg); err != nil {
		slog.Error("contact submit failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": msg.ID})
}
