// Package websocket streams answer deltas to the chat page as the upstream
// service produces them. The POST /ask endpoint remains the fallback contract;
// this endpoint only changes how the answer arrives, not what it contains.
package websocket

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"lexchat-backend/internal/models"
	"lexchat-backend/internal/ratelimit"
	"lexchat-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type answeringService interface {
	AskStream(ctx context.Context, question, sessionID string, fn func(delta string) error) (*services.Answer, error)
}

type StreamHandler struct {
	answering answeringService
	store     ratelimit.Store
	limit     int
	window    time.Duration
}

// NewStreamHandler shares the rate-limit store with the POST path: the router
// middleware only sees the upgrade, so each question is counted here.
func NewStreamHandler(answering answeringService, store ratelimit.Store, limit int, window time.Duration) *StreamHandler {
	return &StreamHandler{
		answering: answering,
		store:     store,
		limit:     limit,
		window:    window,
	}
}

// askFrame is what the page sends to start a question.
type askFrame struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// HandleStream upgrades the connection and serves questions sequentially:
// the read loop doubles as the one-in-flight guard.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var frame askFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}

		if h.overLimit(r) {
			conn.WriteJSON(models.StreamFrame{
				Type:      "error",
				Error:     "Too many requests. Please try again later.",
				SessionID: frame.SessionID,
			})
			continue
		}

		message := strings.TrimSpace(frame.Message)
		if len(message) < 2 {
			conn.WriteJSON(models.StreamFrame{
				Type:      "error",
				Error:     "Please enter a question",
				SessionID: frame.SessionID,
			})
			continue
		}

		answer, err := h.answering.AskStream(r.Context(), message, frame.SessionID, func(delta string) error {
			return conn.WriteJSON(models.StreamFrame{Type: "delta", Content: delta})
		})
		if err != nil {
			// Session id echoed unchanged so the retry continues the
			// same conversation.
			conn.WriteJSON(models.StreamFrame{
				Type:      "error",
				Error:     err.Error(),
				SessionID: frame.SessionID,
			})
			continue
		}

		if err := conn.WriteJSON(models.StreamFrame{
			Type:      "done",
			SessionID: answer.SessionID,
			Citations: answer.Citations,
		}); err != nil {
			return
		}
	}
}

// overLimit counts one question against the shared store. A store failure
// lets the question through, matching the POST middleware.
func (h *StreamHandler) overLimit(r *http.Request) bool {
	count, err := h.store.Incr(r.Context(), r.RemoteAddr, h.window)
	if err != nil {
		log.Printf("rate limit store error: %v", err)
		return false
	}
	return count > int64(h.limit)
}
