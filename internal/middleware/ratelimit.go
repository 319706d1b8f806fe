package middleware

import (
	"log"
	"net/http"
	"time"

	"lexchat-backend/internal/ratelimit"
)

type RateLimiter struct {
	store  ratelimit.Store
	limit  int
	window time.Duration
}

func NewRateLimiter(store ratelimit.Store, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// Middleware rejects clients that exceed limit hits per window, keyed by
// remote address (RealIP runs earlier in the chain). A store failure lets the
// request through: the limiter protects the upstream quota, it is not a
// security boundary.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count, err := rl.store.Incr(r.Context(), r.RemoteAddr, rl.window)
		if err != nil {
			log.Printf("rate limit store error: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(rl.limit) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
