package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Answering service (managed retrieve-and-generate API)
	AnsweringAPIURL  string
	AnsweringTimeout time.Duration
	KnowledgeBaseID  string
	AnswerModelID    string

	// Rate limiting
	RateLimitStore     string // "memory" or "redis"
	RedisURL           string
	RateLimitPerMinute int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Env:  getEnvOrDefault("ENV", "development"),

		AnsweringAPIURL:  getEnvOrDefault("ANSWERING_API_URL", "http://localhost:9090"),
		AnsweringTimeout: time.Duration(getEnvAsIntOrDefault("ANSWERING_TIMEOUT_SECONDS", 60)) * time.Second,

		// Not required at startup: a missing knowledge base or model id
		// surfaces as a request failure, never a boot failure.
		KnowledgeBaseID: getEnvOrDefault("KNOWLEDGE_BASE_ID", ""),
		AnswerModelID:   getEnvOrDefault("ANSWER_MODEL_ID", ""),

		RateLimitStore:     getEnvOrDefault("RATE_LIMIT_STORE", "memory"),
		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
		RateLimitPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
