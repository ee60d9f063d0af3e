package planner

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/karsonthompson/mealdino-sub000/internal/conversation"
	"github.com/karsonthompson/mealdino-sub000/internal/llm"
	"github.com/karsonthompson/mealdino-sub000/internal/profile"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
	"github.com/karsonthompson/mealdino-sub000/internal/shopping"
)

// RecipeStore is the persistence contract the engine needs for recipes.
type RecipeStore interface {
	ListCandidates(ctx context.Context, userID string) ([]recipe.Candidate, error)
	CreateRecipe(ctx context.Context, userID string, c recipe.Candidate) (recipe.Candidate, error)
}

// ConversationStore supplies the run's chat history, read-only.
type ConversationStore interface {
	ListMessages(ctx context.Context, runID string) ([]conversation.Message, error)
}

// AisleOverrideStore supplies per-user ingredient → aisle overrides.
type AisleOverrideStore interface {
	Get(ctx context.Context, userID string) (map[string]string, error)
}

// Engine composes the planning steps into one synchronous pass. Each run
// operates on its own copies of profile and candidate data; the engine
// holds no per-run mutable state.
type Engine struct {
	recipes       RecipeStore
	conversations ConversationStore
	overrides     AisleOverrideStore
	textGen       llm.TextGenerator
}

// NewEngine creates a new planning Engine.
func NewEngine(recipes RecipeStore, conversations ConversationStore, overrides AisleOverrideStore, textGen llm.TextGenerator) *Engine {
	return &Engine{
		recipes:       recipes,
		conversations: conversations,
		overrides:     overrides,
		textGen:       textGen,
	}
}

// RunAgentPlanningTools executes one full planning pass: select candidates,
// resolve directives, build the day plan, aggregate the shopping list,
// validate, and derive the cooking schedule. The returned metas let callers
// record reasoning-service usage.
func (e *Engine) RunAgentPlanningTools(
	ctx context.Context,
	userID, runID string,
	prof profile.PlanningProfile,
	dateRange DateRange,
	revisionInstruction string,
) (*RunResult, []llm.AgentMeta, error) {
	prof.Normalize()

	dates := dateRange.Dates()
	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("empty date range: nothing to plan")
	}

	pool, err := e.recipes.ListCandidates(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list candidate recipes: %w", err)
	}

	var traceLog []ToolTraceEntry
	candidates := recipe.SelectCandidates(pool, recipe.SelectionPrefs{
		IncludeGlobalRecipes: prof.Preferences.IncludeGlobalRecipes,
		IncludeUserRecipes:   prof.Preferences.IncludeUserRecipes,
		MaxCookTimeMinutes:   prof.Preferences.MaxCookTimeMinutes,
	})
	traceLog = append(traceLog, trace("select_candidates",
		fmt.Sprintf("%d of %d recipes eligible", len(candidates), len(pool)), false))

	messages, err := e.conversations.ListMessages(ctx, runID)
	if err != nil {
		log.Printf("Warning: failed to load conversation for run %s: %v", runID, err)
	}

	resolved := e.resolveDirectives(ctx, userID, prof, dateRange, candidates, messages, revisionInstruction)
	traceLog = append(traceLog, resolved.Trace...)
	candidates = resolved.Pool

	var directives Directives
	if resolved.Directives != nil {
		directives = *resolved.Directives
	} else {
		directives = HeuristicDirectives(messages, prof)
		traceLog = append(traceLog, trace("resolve_directives", "using keyword heuristics", false))
	}

	// Narrow to the service's selection when it picked specific recipes.
	if len(directives.SelectedRecipeIDs) > 0 {
		if narrowed := filterByIDs(candidates, directives.SelectedRecipeIDs); len(narrowed) > 0 {
			candidates = narrowed
		}
	}

	// A run never fails purely for lack of candidates: synthesize one
	// deterministic baseline recipe when generation is allowed.
	if len(candidates) == 0 {
		if !prof.Preferences.AllowGeneration {
			return nil, resolved.Metas, fmt.Errorf("no candidates available")
		}
		baseline, err := e.recipes.CreateRecipe(ctx, userID, recipe.Baseline(userID))
		if err != nil {
			return nil, resolved.Metas, fmt.Errorf("no candidates available: %w", err)
		}
		candidates = append(candidates, baseline)
		resolved.Created = append(resolved.Created, baseline)
		traceLog = append(traceLog, trace("create_recipe", "synthesized baseline recipe for empty pool", false))
	}

	days := BuildDays(dates, directives.MealTypes, candidates, prof.Preferences)
	traceLog = append(traceLog, trace("build_days",
		fmt.Sprintf("%d day(s), %d meal type(s)", len(days), len(directives.MealTypes)), false))

	list := e.buildShoppingList(ctx, userID, days, candidates)
	traceLog = append(traceLog, trace("build_shopping_list",
		fmt.Sprintf("%d item(s), %d for review", list.Stats.TotalItems, list.Stats.NeedsReviewCount), false))

	validation := ValidateDraft(prof, candidates)
	traceLog = append(traceLog, trace("validate_draft",
		fmt.Sprintf("%d violation(s)", len(validation.Violations)), false))

	schedule := BuildCookingSchedule(dates, prof.Preferences.BatchCookingCadence)
	targets := prof.ResolveNutritionTargets()

	result := &RunResult{
		Output: DraftOutput{
			MealPlanDays:    days,
			ShoppingList:    list,
			CookingSchedule: schedule,
			CreatedRecipes:  resolved.Created,
			RecipeCatalog:   candidates,
			Validation:      validation,
			Targets:         targets,
			ToolTrace:       traceLog,
		},
		Summary: buildSummary(directives, validation, targets, days, candidates, prof),
		Status:  StatusDraft,
	}
	return result, resolved.Metas, nil
}

// buildShoppingList converts the day plan into the aggregator's input shape
// and applies the user's aisle overrides on top of the classifier.
func (e *Engine) buildShoppingList(ctx context.Context, userID string, days []PlanDay, catalog []recipe.Candidate) shopping.Result {
	sources := make(map[string]shopping.Source, len(catalog))
	for _, c := range catalog {
		sources[c.ID] = shopping.Source{
			Title:        c.Title,
			BaseServings: c.BaseServings,
			Ingredients:  c.Ingredients,
		}
	}

	shoppingDays := make([]shopping.Day, len(days))
	for i, day := range days {
		sd := shopping.Day{Date: day.Date}
		for _, slot := range day.Meals {
			sd.Meals = append(sd.Meals, shopping.Slot{
				RecipeID:            slot.RecipeID,
				Servings:            slot.Servings,
				ExcludeFromShopping: slot.ExcludeFromShopping,
			})
		}
		for _, session := range day.Sessions {
			sd.Sessions = append(sd.Sessions, shopping.Session{
				RecipeID: session.RecipeID,
				Servings: session.Servings,
			})
		}
		shoppingDays[i] = sd
	}

	list := shopping.BuildShoppingList(shoppingDays, sources, shopping.Options{
		IncludeMeals:           true,
		IncludeCookingSessions: true,
	})

	overrides, err := e.overrides.Get(ctx, userID)
	if err != nil {
		log.Printf("Warning: failed to load aisle overrides for %s: %v", userID, err)
		return list
	}
	for i := range list.Totals {
		if aisle, ok := overrides[list.Totals[i].NormalizedName]; ok {
			list.Totals[i].Aisle = aisle
		}
	}
	for i := range list.NeedsReview {
		// Needs-review display names are title-cased; overrides key on
		// the lowercase normalized name.
		if aisle, ok := overrides[strings.ToLower(list.NeedsReview[i].DisplayName)]; ok {
			list.NeedsReview[i].Aisle = aisle
		}
	}
	return list
}

// buildSummary assembles the run's human-readable wrap-up and notes.
func buildSummary(
	directives Directives,
	validation ValidationResult,
	targets profile.NutritionTargets,
	days []PlanDay,
	candidates []recipe.Candidate,
	prof profile.PlanningProfile,
) RunSummary {
	notes := append([]string{}, directives.Notes...)

	if prof.Preferences.AvoidRepeats {
		varietySlots := 0
		for _, day := range days {
			varietySlots += len(day.Meals)
		}
		if len(candidates) < varietySlots {
			notes = append(notes, fmt.Sprintf(
				"Only %d recipe(s) available for %d meal slots; some repeats were unavoidable.",
				len(candidates), varietySlots))
		}
	}

	if batchWindowDays(prof.Preferences.BatchCookingCadence) > 1 {
		notes = append(notes, "Batch-cooking sessions cover the main meal for several days; their ingredients appear once on the shopping list.")
	}

	switch targets.Source {
	case profile.TargetSourceUser:
		notes = append(notes, "Nutrition targets are the ones you set.")
	case profile.TargetSourceEstimated:
		notes = append(notes, fmt.Sprintf("Nutrition targets estimated from your body metrics (~%.0f kcal/day).", targets.Calories))
	default:
		notes = append(notes, "No nutrition targets available; set them or add body metrics for estimates.")
	}

	why := directives.WhyThisPlan
	if why == "" {
		why = "A balanced rotation over your eligible recipes for the requested days."
	}

	return RunSummary{
		WhyThisPlan:      why,
		UnmetConstraints: validation.Violations,
		Notes:            notes,
	}
}

func filterByIDs(pool []recipe.Candidate, ids []string) []recipe.Candidate {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var filtered []recipe.Candidate
	for _, c := range pool {
		if want[c.ID] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
