package handlers

import (
	"html/template"
	"log"
	"net/http"

	"lexchat-backend/internal/web"
)

type PageHandler struct {
	tmpl *template.Template
}

func NewPageHandler() (*PageHandler, error) {
	tmpl, err := web.IndexTemplate()
	if err != nil {
		return nil, err
	}
	return &PageHandler{tmpl: tmpl}, nil
}

type pageData struct {
	Title string
}

// Index serves the chat page. Transcript state travels with the browser, so
// the page itself is identical for every visitor.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, pageData{Title: "LexChat"}); err != nil {
		log.Printf("failed to render chat page: %v", err)
	}
}
