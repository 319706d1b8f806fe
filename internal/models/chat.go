package models

// ChatTurn is a single transcript entry. Turns are append-only: created when
// the user submits (role "user") or when a response arrives (role "assistant")
// and never mutated afterwards. A failed response is a normal assistant-role
// turn with Error set so the page can style it.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
	Error   bool   `json:"error,omitempty"`
}

// Citation points at a retrieved source document backing part of an answer.
type Citation struct {
	Title   string `json:"title,omitempty"`
	URI     string `json:"uri,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// AskResult is the normalized outcome of one ask. Exactly one of Answer or
// Error is meaningful; SessionID always carries the token the browser should
// use for the next turn (on failure, the inbound token echoed unchanged).
type AskResult struct {
	Answer    string     `json:"answer"`
	SessionID string     `json:"sessionId,omitempty"`
	Error     string     `json:"error,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
}

// StreamFrame is one websocket message on the streaming ask endpoint.
type StreamFrame struct {
	Type      string     `json:"type"` // "delta", "done" or "error"
	Content   string     `json:"content,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
	Error     string     `json:"error,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
}
