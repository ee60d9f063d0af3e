package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	// Reasoning service
	LLMProvider  string // "groq" or "gemini"
	GroqAPIKey   string
	GeminiAPIKey string

	// Publishing (optional; plan summaries are pushed to a blog when set)
	PublishURL      string
	PublishAdminKey string // "id:secret" format

	// Telegram Config (optional for CLI, required for the bot)
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "mealplanner.db"
	}

	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "groq"
	}
	if provider != "groq" && provider != "gemini" {
		return nil, fmt.Errorf("LLM_PROVIDER must be \"groq\" or \"gemini\", got %q", provider)
	}

	groqAPIKey := os.Getenv("GROQ_API_KEY")
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if provider == "groq" && groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}
	if provider == "gemini" && geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	var telegramAllowUserID int64
	if s := os.Getenv("TELEGRAM_ALLOW_USER_ID"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_ID: %w", err)
		}
		telegramAllowUserID = id
	}

	return &Config{
		DatabasePath:        databasePath,
		LLMProvider:         provider,
		GroqAPIKey:          groqAPIKey,
		GeminiAPIKey:        geminiAPIKey,
		PublishURL:          os.Getenv("PUBLISH_API_URL"),
		PublishAdminKey:     os.Getenv("PUBLISH_ADMIN_API_KEY"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:  os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowUserID: telegramAllowUserID,
	}, nil
}
