package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestLoad_MissingKnowledgeBaseDoesNotFail(t *testing.T) {
	// A blank knowledge base or model id must not prevent startup; it is
	// reported by the answering client when a question is actually asked.
	os.Unsetenv("KNOWLEDGE_BASE_ID")
	os.Unsetenv("ANSWER_MODEL_ID")

	cfg := Load()

	assert.Equal(t, "", cfg.KnowledgeBaseID)
	assert.Equal(t, "", cfg.AnswerModelID)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("RATE_LIMIT_STORE")
	os.Unsetenv("RATE_LIMIT_PER_MINUTE")
	os.Unsetenv("ANSWERING_TIMEOUT_SECONDS")

	cfg := Load()

	assert.Equal(t, "memory", cfg.RateLimitStore)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 60*time.Second, cfg.AnsweringTimeout)
}
