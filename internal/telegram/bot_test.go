package telegram

import (
	"strings"
	"testing"

	"github.com/karsonthompson/mealdino-sub000/internal/planner"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
	"github.com/karsonthompson/mealdino-sub000/internal/shopping"
)

func TestFormatPlanMarkdownParts(t *testing.T) {
	result := &planner.RunResult{
		Output: planner.DraftOutput{
			MealPlanDays: []planner.PlanDay{
				{
					Date: "2026-03-02",
					Meals: []planner.MealSlot{
						{MealType: planner.MealLunch, RecipeID: "r1", Source: planner.SourceFresh},
						{MealType: planner.MealDinner, RecipeID: "r2", Source: planner.SourceFresh},
					},
					Sessions: []planner.CookingSession{
						{RecipeID: "r2", Servings: 6},
					},
				},
				{
					Date: "2026-03-03",
					Meals: []planner.MealSlot{
						{MealType: planner.MealDinner, RecipeID: "r2", Source: planner.SourceLeftovers},
					},
				},
			},
			ShoppingList: shopping.Result{
				Totals: []shopping.LineItem{
					{DisplayName: "Rice", Unit: "cup", Quantity: 2, Aisle: "Grains & Bread"},
					{DisplayName: "Salt", Quantity: 1, Aisle: "Pantry"},
				},
				NeedsReview: []shopping.ReviewItem{
					{DisplayName: "Salt To Taste", Raw: "salt to taste"},
				},
			},
			RecipeCatalog: []recipe.Candidate{
				{ID: "r1", Title: "Tacos"},
				{ID: "r2", Title: "Chili"},
			},
		},
		Summary: planner.RunSummary{
			WhyThisPlan:      "A cozy week.",
			UnmetConstraints: []string{"recipe \"Chili\" contains forbidden ingredient \"beans\""},
		},
	}

	planOutput, shoppingOutput := formatPlanMarkdownParts(result)

	if !strings.Contains(planOutput, "📅 *Meal Plan*") {
		t.Error("Missing plan header")
	}
	if !strings.Contains(planOutput, "• lunch: Tacos") {
		t.Error("Missing lunch slot")
	}
	if !strings.Contains(planOutput, "• dinner: Chili _(leftovers)_") {
		t.Error("Missing leftovers marker")
	}
	if !strings.Contains(planOutput, "batch cook: Chili (6 servings)") {
		t.Error("Missing batch session line")
	}
	if !strings.Contains(planOutput, "_A cozy week._") {
		t.Error("Missing plan explanation")
	}
	if !strings.Contains(planOutput, "⚠️") {
		t.Error("Missing constraint warning")
	}

	if !strings.Contains(shoppingOutput, "🛒 *Shopping List*") {
		t.Error("Missing shopping list header")
	}
	if !strings.Contains(shoppingOutput, "*Grains & Bread*") {
		t.Error("Missing aisle heading")
	}
	if !strings.Contains(shoppingOutput, "• Rice — 2.00 cup") {
		t.Error("Missing quantified item")
	}
	if !strings.Contains(shoppingOutput, "• Salt — 1.00") {
		t.Error("Missing unitless item")
	}
	if !strings.Contains(shoppingOutput, "*Needs review*") {
		t.Error("Missing needs-review section")
	}
}
