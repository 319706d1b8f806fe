package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lexchat-backend/internal/models"
	"lexchat-backend/internal/services"
)

type stubAnswering struct {
	answer *services.Answer
	err    error

	calls       int
	gotQuestion string
	gotSession  string
}

func (s *stubAnswering) Ask(ctx context.Context, question, sessionID string) (*services.Answer, error) {
	s.calls++
	s.gotQuestion = question
	s.gotSession = sessionID
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func postAsk(t *testing.T, h *ChatHandler, form url.Values) (*httptest.ResponseRecorder, models.AskResult) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	h.AskQuestion(rr, req)

	var result models.AskResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return rr, result
}

func TestAskQuestion_Success(t *testing.T) {
	stub := &stubAnswering{answer: &services.Answer{
		Text:      "Six years.",
		SessionID: "abc123",
		Citations: []models.Citation{{Title: "Limitation Act", URI: "kb://doc/1"}},
	}}
	h := NewChatHandler(stub)

	rr, result := postAsk(t, h, url.Values{"message": {"What is the statute of limitations?"}})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if result.Answer != "Six years." {
		t.Errorf("Expected answer 'Six years.', got %q", result.Answer)
	}
	if result.SessionID != "abc123" {
		t.Errorf("Expected sessionId 'abc123', got %q", result.SessionID)
	}
	if result.Error != "" {
		t.Errorf("Expected no error, got %q", result.Error)
	}
	if len(result.Citations) != 1 {
		t.Errorf("Expected 1 citation, got %d", len(result.Citations))
	}
	if stub.gotQuestion != "What is the statute of limitations?" {
		t.Errorf("Service received wrong question: %q", stub.gotQuestion)
	}
}

func TestAskQuestion_ThreadsSessionID(t *testing.T) {
	stub := &stubAnswering{answer: &services.Answer{Text: "Answer.", SessionID: "abc123"}}
	h := NewChatHandler(stub)

	postAsk(t, h, url.Values{
		"message":   {"And for fraud?"},
		"sessionId": {"abc123"},
	})

	if stub.gotSession != "abc123" {
		t.Errorf("Expected session 'abc123' forwarded, got %q", stub.gotSession)
	}
}

func TestAskQuestion_FailurePreservesSession(t *testing.T) {
	stub := &stubAnswering{err: errors.New("answering service unreachable")}
	h := NewChatHandler(stub)

	rr, result := postAsk(t, h, url.Values{
		"message":   {"What is the statute of limitations?"},
		"sessionId": {"abc123"},
	})

	if rr.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rr.Code)
	}
	if result.Error != "answering service unreachable" {
		t.Errorf("Expected error message passthrough, got %q", result.Error)
	}
	if result.SessionID != "abc123" {
		t.Errorf("Expected inbound session echoed on failure, got %q", result.SessionID)
	}
	if result.Answer != "" {
		t.Errorf("Expected no answer on failure, got %q", result.Answer)
	}
}

func TestAskQuestion_RejectsShortMessages(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"empty", ""},
		{"one char", "a"},
		{"whitespace only", "   \n "},
		{"one char after trim", " a "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAnswering{}
			h := NewChatHandler(stub)

			rr, result := postAsk(t, h, url.Values{
				"message":   {tc.message},
				"sessionId": {"abc123"},
			})

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rr.Code)
			}
			if result.Error == "" {
				t.Error("Expected validation error message")
			}
			if result.SessionID != "abc123" {
				t.Errorf("Expected session preserved, got %q", result.SessionID)
			}
			if stub.calls != 0 {
				t.Errorf("Expected no service call, got %d", stub.calls)
			}
		})
	}
}

func TestAskQuestion_TrimsMessage(t *testing.T) {
	stub := &stubAnswering{answer: &services.Answer{Text: "Answer."}}
	h := NewChatHandler(stub)

	postAsk(t, h, url.Values{"message": {"  What is consideration?  "}})

	if stub.gotQuestion != "What is consideration?" {
		t.Errorf("Expected trimmed question, got %q", stub.gotQuestion)
	}
}
