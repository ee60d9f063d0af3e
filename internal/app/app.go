package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/karsonthompson/mealdino-sub000/internal/conversation"
	"github.com/karsonthompson/mealdino-sub000/internal/importer"
	"github.com/karsonthompson/mealdino-sub000/internal/metrics"
	"github.com/karsonthompson/mealdino-sub000/internal/planner"
	"github.com/karsonthompson/mealdino-sub000/internal/profile"
	"github.com/karsonthompson/mealdino-sub000/internal/publisher"
	"github.com/karsonthompson/mealdino-sub000/internal/shopping"
)

// App holds the application's dependencies.
type App struct {
	engine        *planner.Engine
	importer      *importer.Importer
	metricsStore  *metrics.Store
	planRepo      *planner.PlanRepository
	shoppingRepo  *shopping.Repository
	conversations *conversation.Repository
	publish       publisher.Client
}

// NewApp creates and initializes a new App instance. publish may be nil when
// no blog is configured.
func NewApp(
	engine *planner.Engine,
	imp *importer.Importer,
	metricsStore *metrics.Store,
	planRepo *planner.PlanRepository,
	shoppingRepo *shopping.Repository,
	conversations *conversation.Repository,
	publish publisher.Client,
) *App {
	return &App{
		engine:        engine,
		importer:      imp,
		metricsStore:  metricsStore,
		planRepo:      planRepo,
		shoppingRepo:  shoppingRepo,
		conversations: conversations,
		publish:       publish,
	}
}

// GeneratePlan runs one planning pass for the coming week and prints the
// result.
func (a *App) GeneratePlan(ctx context.Context, userID, request string) error {
	fmt.Printf("Generating meal plan for: %q...\n", request)

	weekStart := planner.NextMonday(time.Now())
	runID := fmt.Sprintf("%s-%s", userID, weekStart.Format("2006-01-02"))

	if request != "" {
		if err := a.conversations.Append(ctx, runID, "user", request); err != nil {
			log.Printf("Warning: failed to record request: %v", err)
		}
	}

	now := time.Now()
	prof := profile.PlanningProfile{
		Goal:                 request,
		DisclaimerAcceptedAt: &now,
		Preferences: profile.PlanPreferences{
			IncludeGlobalRecipes: true,
			IncludeUserRecipes:   true,
			AvoidRepeats:         true,
			AllowGeneration:      true,
			DefaultServings:      2,
		},
	}

	result, metas, err := a.engine.RunAgentPlanningTools(ctx, userID, runID, prof, planner.DateRange{
		Start: weekStart,
		End:   weekStart.AddDate(0, 0, 6),
	}, "")

	for _, meta := range metas {
		if recErr := a.metricsStore.RecordMeta(ctx, meta); recErr != nil {
			log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, recErr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	if _, err := a.planRepo.Save(ctx, userID, runID, result); err != nil {
		log.Printf("Warning: failed to save plan: %v", err)
	}
	if _, err := a.shoppingRepo.Save(ctx, userID, runID, result.Output.ShoppingList); err != nil {
		log.Printf("Warning: failed to save shopping list: %v", err)
	}

	printPlan(result)
	return nil
}

// ImportRecipe fetches a recipe URL and stores it for the user.
func (a *App) ImportRecipe(ctx context.Context, userID, url string) error {
	fmt.Printf("Importing recipe from %s...\n", url)

	candidate, meta, err := a.importer.ImportURL(ctx, userID, url)
	if recErr := a.metricsStore.RecordMeta(ctx, meta); recErr != nil {
		log.Printf("Warning: failed to record import metrics: %v", recErr)
	}
	if err != nil {
		return fmt.Errorf("failed to import recipe: %w", err)
	}

	fmt.Printf("Saved %q (%d servings, %d min, %d ingredient lines).\n",
		candidate.Title, candidate.BaseServings, candidate.PrepTimeMinutes, len(candidate.Ingredients))
	return nil
}

// PublishLatest pushes the user's most recent plan to the configured blog.
func (a *App) PublishLatest(ctx context.Context, userID string) error {
	if a.publish == nil {
		return fmt.Errorf("publishing is not configured")
	}

	result, err := a.planRepo.GetLatest(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load latest plan: %w", err)
	}
	if result == nil {
		return fmt.Errorf("no plan to publish")
	}

	title := fmt.Sprintf("Meal Plan — %s", time.Now().Format("January 2, 2006"))
	post, err := a.publish.PublishPlan(title, result)
	if err != nil {
		return fmt.Errorf("failed to publish plan: %w", err)
	}
	fmt.Printf("Published %q (post id %s).\n", post.Title, post.ID)
	return nil
}

// ShowMetrics prints daily reasoning-service usage for the last N days.
func (a *App) ShowMetrics(ctx context.Context, days int) error {
	usage, err := a.metricsStore.GetDailyUsage(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to fetch usage: %w", err)
	}

	fmt.Println("=== USAGE ===")
	if len(usage) == 0 {
		fmt.Println("No data yet.")
	}
	for _, d := range usage {
		fmt.Printf("%-12s %7d prompt  %7d completion  %4d execs\n",
			d.Date, d.TotalPrompt, d.TotalCompletion, d.TotalExecution)
	}
	return nil
}

// CleanupMetrics deletes metrics and conversation messages older than the
// retention window.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) error {
	deleted, err := a.metricsStore.Cleanup(ctx, olderThanDays)
	if err != nil {
		return fmt.Errorf("failed to clean up metrics: %w", err)
	}
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	if err := a.conversations.CleanupBefore(ctx, cutoff); err != nil {
		return fmt.Errorf("failed to clean up conversations: %w", err)
	}
	fmt.Printf("Removed %d metric rows older than %d days.\n", deleted, olderThanDays)
	return nil
}

func printPlan(result *planner.RunResult) {
	titles := make(map[string]string, len(result.Output.RecipeCatalog))
	for _, c := range result.Output.RecipeCatalog {
		titles[c.ID] = c.Title
	}

	fmt.Println("\n=== MEAL PLAN ===")
	for _, day := range result.Output.MealPlanDays {
		fmt.Printf("%s\n", day.Date)
		for _, slot := range day.Meals {
			title := titles[slot.RecipeID]
			if title == "" {
				title = slot.RecipeID
			}
			note := ""
			if slot.Source == planner.SourceLeftovers {
				note = " (leftovers)"
			}
			fmt.Printf("  %-10s %s%s\n", slot.MealType, title, note)
		}
		for _, session := range day.Sessions {
			title := titles[session.RecipeID]
			if title == "" {
				title = session.RecipeID
			}
			fmt.Printf("  batch cook: %s (%d servings)\n", title, session.Servings)
		}
	}

	fmt.Println("\n=== SHOPPING LIST ===")
	printShoppingList(result.Output.ShoppingList)

	if result.Summary.WhyThisPlan != "" {
		fmt.Printf("\n%s\n", result.Summary.WhyThisPlan)
	}
	for _, v := range result.Summary.UnmetConstraints {
		fmt.Printf("WARNING: %s\n", v)
	}
	for _, note := range result.Summary.Notes {
		fmt.Printf("Note: %s\n", note)
	}
}

func printShoppingList(list shopping.Result) {
	currentAisle := ""
	for _, item := range list.Totals {
		if item.Aisle != currentAisle {
			currentAisle = item.Aisle
			fmt.Printf("[%s]\n", currentAisle)
		}
		if item.Unit != "" {
			fmt.Printf("  - %s: %.2f %s\n", item.DisplayName, item.Quantity, item.Unit)
		} else {
			fmt.Printf("  - %s: %.2f\n", item.DisplayName, item.Quantity)
		}
	}
	if len(list.NeedsReview) > 0 {
		fmt.Println("[Needs review]")
		for _, item := range list.NeedsReview {
			fmt.Printf("  - %s (%s)\n", item.DisplayName, item.Raw)
		}
	}
}
