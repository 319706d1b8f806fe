package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"lexchat-backend/internal/config"
	"lexchat-backend/internal/handlers"
	"lexchat-backend/internal/middleware"
	"lexchat-backend/internal/ratelimit"
	"lexchat-backend/internal/router"
	"lexchat-backend/internal/services"
	"lexchat-backend/internal/websocket"
)

func main() {
	log.Println("Starting LexChat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")
	if cfg.KnowledgeBaseID == "" || cfg.AnswerModelID == "" {
		// Deliberately not fatal: questions will fail with a clear
		// message until both are set.
		log.Println("! KNOWLEDGE_BASE_ID / ANSWER_MODEL_ID not set; asks will fail until configured")
	}

	// ──── Step 2: Initialize Rate Limit Store ────
	store, err := newRateLimitStore(cfg)
	if err != nil {
		log.Fatalf("✗ Rate limit store initialization failed: %v", err)
	}
	defer store.Close()
	log.Printf("✓ Rate limit store ready (%s)", cfg.RateLimitStore)

	// ──── Step 3: Initialize Answering Client ────
	answering := services.NewAnsweringService(cfg)
	log.Println("✓ Answering client initialized")

	// ──── Initialize Handlers ────
	pageHandler, err := handlers.NewPageHandler()
	if err != nil {
		log.Fatalf("✗ Chat page template failed to parse: %v", err)
	}
	chatHandler := handlers.NewChatHandler(answering)
	streamHandler := websocket.NewStreamHandler(answering, store, cfg.RateLimitPerMinute, time.Minute)
	askLimiter := middleware.NewRateLimiter(store, cfg.RateLimitPerMinute, time.Minute)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(pageHandler, chatHandler, streamHandler, askLimiter, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AnsweringTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ LexChat Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat: http://localhost:%s/", cfg.Port)
	log.Printf("  API:  http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func newRateLimitStore(cfg *config.Config) (ratelimit.Store, error) {
	if cfg.RateLimitStore != string(ratelimit.StoreTypeRedis) {
		return ratelimit.NewStore(ratelimit.StoreTypeMemory)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return ratelimit.NewStore(ratelimit.StoreTypeRedis, ratelimit.WithRedisClient(client))
}
