package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/karsonthompson/mealdino-sub000/internal/config"
	"github.com/karsonthompson/mealdino-sub000/internal/conversation"
	"github.com/karsonthompson/mealdino-sub000/internal/database"
	"github.com/karsonthompson/mealdino-sub000/internal/importer"
	"github.com/karsonthompson/mealdino-sub000/internal/llm"
	"github.com/karsonthompson/mealdino-sub000/internal/metrics"
	"github.com/karsonthompson/mealdino-sub000/internal/planner"
	"github.com/karsonthompson/mealdino-sub000/internal/publisher"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
	"github.com/karsonthompson/mealdino-sub000/internal/shopping"
	"github.com/karsonthompson/mealdino-sub000/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx := context.Background()

	var textGen llm.TextGenerator
	if cfg.LLMProvider == "gemini" {
		gen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := gen.(llm.Closer); ok {
			defer closer.Close()
		}
		textGen = gen
	} else {
		textGen = llm.NewGroqClient(cfg.GroqAPIKey)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	overrideRepo := shopping.NewOverrideRepository(db.SQL)
	conversations := conversation.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	engine := planner.NewEngine(recipeRepo, conversations, overrideRepo, textGen)
	imp := importer.NewImporter(recipeRepo, textGen)

	var publish publisher.Client
	if cfg.PublishURL != "" && cfg.PublishAdminKey != "" {
		publish = publisher.NewClient(cfg.PublishURL, cfg.PublishAdminKey)
	}

	bot, err := telegram.NewBot(cfg, engine, imp, metricsStore, planRepo, conversations, publish)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
