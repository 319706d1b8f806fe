package handlers

import (
	"context"
	"net/http"
	"strings"

	"lexchat-backend/internal/models"
	"lexchat-backend/internal/services"
)

// minQuestionLength is the minimum trimmed length of a submitted message.
const minQuestionLength = 2

type answeringService interface {
	Ask(ctx context.Context, question, sessionID string) (*services.Answer, error)
}

type ChatHandler struct {
	answering answeringService
}

func NewChatHandler(answering answeringService) *ChatHandler {
	return &ChatHandler{answering: answering}
}

// AskQuestion handles the form-encoded ask endpoint. Every outcome is a
// normalized AskResult: success carries the answer and the (possibly new)
// session id; any failure carries one error string with the inbound session id
// echoed unchanged so a retry continues the same conversation.
func (h *ChatHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.AskResult{Error: "Invalid form submission"})
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))
	sessionID := r.FormValue("sessionId")

	if len(message) < minQuestionLength {
		writeJSON(w, http.StatusBadRequest, models.AskResult{
			Error:     "Please enter a question",
			SessionID: sessionID,
		})
		return
	}

	answer, err := h.answering.Ask(r.Context(), message, sessionID)
	if err != nil {
		// All failure causes collapse into one user-visible message.
		writeJSON(w, http.StatusBadGateway, models.AskResult{
			Error:     err.Error(),
			SessionID: sessionID,
		})
		return
	}

	writeJSON(w, http.StatusOK, models.AskResult{
		Answer:    answer.Text,
		SessionID: answer.SessionID,
		Citations: answer.Citations,
	})
}
