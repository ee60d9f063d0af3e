package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/karsonthompson/mealdino-sub000/internal/app"
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
)

const usageText = `Usage: mealdino <command> [arguments]

Commands:
  plan [request]      Generate a meal plan for the coming week
  import <url>        Import a recipe from a web page
  publish             Publish the latest plan to the configured blog
  metrics [-days N]   Show daily reasoning-service usage
  cleanup [-days N]   Delete old metrics and conversation messages
`

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	textGen, closer, err := newTextGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create reasoning client: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)
	overrideRepo := shopping.NewOverrideRepository(db.SQL)
	conversations := conversation.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	engine := planner.NewEngine(recipeRepo, conversations, overrideRepo, textGen)
	imp := importer.NewImporter(recipeRepo, textGen)

	var publish publisher.Client
	if cfg.PublishURL != "" && cfg.PublishAdminKey != "" {
		publish = publisher.NewClient(cfg.PublishURL, cfg.PublishAdminKey)
	}

	application := app.NewApp(engine, imp, metricsStore, planRepo, shoppingRepo, conversations, publish)

	userID := os.Getenv("MEALDINO_USER_ID")
	if userID == "" {
		userID = "default"
	}

	switch os.Args[1] {
	case "plan":
		request := ""
		if len(os.Args) > 2 {
			request = os.Args[2]
		}
		err = application.GeneratePlan(ctx, userID, request)
	case "import":
		if len(os.Args) < 3 {
			log.Fatal("import requires a URL argument")
		}
		err = application.ImportRecipe(ctx, userID, os.Args[2])
	case "publish":
		err = application.PublishLatest(ctx, userID)
	case "metrics":
		fs := flag.NewFlagSet("metrics", flag.ExitOnError)
		days := fs.Int("days", 7, "number of days to report")
		fs.Parse(os.Args[2:])
		err = application.ShowMetrics(ctx, *days)
	case "cleanup":
		fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
		days := fs.Int("days", 90, "delete records older than this many days")
		fs.Parse(os.Args[2:])
		err = application.CleanupMetrics(ctx, *days)
	default:
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Command failed: %v", err)
	}
}

// newTextGenerator picks the reasoning client from config. The returned
// closer is nil for clients without resources to release.
func newTextGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, llm.Closer, error) {
	if cfg.LLMProvider == "gemini" {
		gen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		closer, _ := gen.(llm.Closer)
		return gen, closer, nil
	}
	return llm.NewGroqClient(cfg.GroqAPIKey), nil, nil
}
