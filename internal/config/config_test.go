package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "groq_key")
		t.Setenv("DATABASE_PATH", "/tmp/test.db")
		t.Setenv("TELEGRAM_ALLOW_USER_ID", "12345")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLMProvider != "groq" {
			t.Errorf("Expected default provider 'groq', got '%s'", cfg.LLMProvider)
		}
		if cfg.GroqAPIKey != "groq_key" {
			t.Errorf("Expected GroqAPIKey to be 'groq_key', got '%s'", cfg.GroqAPIKey)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected DatabasePath to be '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.TelegramAllowUserID != 12345 {
			t.Errorf("Expected TelegramAllowUserID to be 12345, got %d", cfg.TelegramAllowUserID)
		}
	})

	t.Run("DefaultDatabasePath", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "groq_key")
		os.Unsetenv("DATABASE_PATH")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "mealplanner.db" {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
	})

	t.Run("MissingGroqAPIKey", func(t *testing.T) {
		os.Unsetenv("GROQ_API_KEY")
		os.Unsetenv("LLM_PROVIDER")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
		expectedError := "GROQ_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("GeminiProvider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "gemini")
		os.Unsetenv("GEMINI_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}

		t.Setenv("GEMINI_API_KEY", "gemini_key")
		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
	})

	t.Run("InvalidProvider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "openai")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unknown provider, got nil")
		}
	})

	t.Run("InvalidAllowUserID", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "groq_key")
		t.Setenv("TELEGRAM_ALLOW_USER_ID", "not-a-number")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for malformed TELEGRAM_ALLOW_USER_ID, got nil")
		}
	})
}
