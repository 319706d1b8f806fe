package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func getStatic(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	Static().ServeHTTP(rr, req)
	return rr
}

func TestIndexTemplateParses(t *testing.T) {
	tmpl, err := IndexTemplate()
	if err != nil {
		t.Fatalf("Failed to parse index template: %v", err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, struct{ Title string }{Title: "LexChat"}); err != nil {
		t.Fatalf("Failed to execute index template: %v", err)
	}
	if !strings.Contains(sb.String(), `id="ask-form"`) {
		t.Error("Expected the chat form in the rendered page")
	}
}

func TestChatScriptSettlesOnSocketLoss(t *testing.T) {
	rr := getStatic(t, "/static/chat.js")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	script := rr.Body.String()

	// Every submission path must reach an idle state again: the socket
	// close handler resubmits the in-flight question over the POST path
	// instead of leaving the form disabled.
	onclose := strings.Index(script, "socket.onclose")
	if onclose < 0 {
		t.Fatal("Expected a socket close handler in the chat script")
	}
	handler := script[onclose:]
	if end := strings.Index(handler, "};"); end > 0 {
		handler = handler[:end]
	}
	if !strings.Contains(handler, "inFlight") || !strings.Contains(handler, "submitOverHTTP") {
		t.Error("Expected the close handler to resubmit the in-flight question over HTTP")
	}
}
