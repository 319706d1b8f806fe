package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"lexchat-backend/internal/handlers"
	"lexchat-backend/internal/middleware"
	"lexchat-backend/internal/web"
	"lexchat-backend/internal/websocket"
)

func New(
	pageHandler *handlers.PageHandler,
	chatHandler *handlers.ChatHandler,
	streamHandler *websocket.StreamHandler,
	askLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Chat page ────
	r.Get("/", pageHandler.Index)
	r.Handle("/static/*", web.Static())

	// ──── API ────
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(askLimiter.Middleware)
			r.Post("/ask", chatHandler.AskQuestion)
			r.Get("/ask/stream", streamHandler.HandleStream)
		})
	})

	return r
}
