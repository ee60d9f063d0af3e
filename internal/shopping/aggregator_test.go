package shopping

import (
	"math"
	"math/rand"
	"testing"
)

func allOptions() Options {
	return Options{IncludeMeals: true, IncludeCookingSessions: true}
}

func TestBuildShoppingListEmpty(t *testing.T) {
	result := BuildShoppingList(nil, map[string]Source{}, allOptions())
	if len(result.Totals) != 0 {
		t.Errorf("expected empty totals, got %d items", len(result.Totals))
	}
	if len(result.NeedsReview) != 0 {
		t.Errorf("expected empty needs-review, got %d items", len(result.NeedsReview))
	}
	if result.Stats != (Stats{}) {
		t.Errorf("expected zero-valued stats, got %+v", result.Stats)
	}
}

func TestBuildShoppingListScaling(t *testing.T) {
	// Two days, lunch+dinner, one recipe with "2 cups rice" at base
	// servings 2, planned servings 4: four uses at multiplier 2 each is
	// 16 cups, which re-expresses as 3.79 liters.
	catalog := map[string]Source{
		"r1": {Title: "Rice Bowl", BaseServings: 2, Ingredients: []string{"2 cups rice"}},
	}
	days := []Day{
		{Date: "2026-01-05", Meals: []Slot{{RecipeID: "r1", Servings: 4}, {RecipeID: "r1", Servings: 4}}},
		{Date: "2026-01-06", Meals: []Slot{{RecipeID: "r1", Servings: 4}, {RecipeID: "r1", Servings: 4}}},
	}

	result := BuildShoppingList(days, catalog, allOptions())
	if len(result.Totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(result.Totals))
	}

	rice := result.Totals[0]
	if rice.Unit != "l" {
		t.Errorf("expected 16 cups to display as liters, got %q", rice.Unit)
	}
	if math.Abs(rice.Quantity-3.79) > 0.01 {
		t.Errorf("expected quantity 3.79 l, got %v", rice.Quantity)
	}
	if rice.Occurrences != 8 {
		t.Errorf("occurrences must sum serving multipliers (4 uses x 2), got %v", rice.Occurrences)
	}
}

func TestBuildShoppingListOrderInvariance(t *testing.T) {
	catalog := map[string]Source{
		"a": {Title: "A", BaseServings: 2, Ingredients: []string{"1 cup milk", "200 g flour", "2 cloves garlic"}},
		"b": {Title: "B", BaseServings: 4, Ingredients: []string{"1/2 cup milk", "1 kg flour", "a clove of garlic"}},
		"c": {Title: "C", BaseServings: 1, Ingredients: []string{"3 tbsp milk", "salt to taste"}},
	}
	days := []Day{
		{Date: "d1", Meals: []Slot{{RecipeID: "a", Servings: 2}, {RecipeID: "b", Servings: 2}}},
		{Date: "d2", Meals: []Slot{{RecipeID: "c", Servings: 3}, {RecipeID: "a", Servings: 1}}},
	}

	baseline := BuildShoppingList(days, catalog, allOptions())

	for trial := 0; trial < 5; trial++ {
		shuffled := make([]Day, len(days))
		copy(shuffled, days)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := BuildShoppingList(shuffled, catalog, allOptions())
		if len(got.Totals) != len(baseline.Totals) {
			t.Fatalf("trial %d: item count changed: %d vs %d", trial, len(got.Totals), len(baseline.Totals))
		}
		for i := range got.Totals {
			if got.Totals[i].NormalizedName != baseline.Totals[i].NormalizedName {
				t.Errorf("trial %d: item order changed at %d", trial, i)
			}
			if math.Abs(got.Totals[i].Quantity-baseline.Totals[i].Quantity) > 0.01 {
				t.Errorf("trial %d: quantity for %s changed: %v vs %v",
					trial, got.Totals[i].NormalizedName, got.Totals[i].Quantity, baseline.Totals[i].Quantity)
			}
		}
	}
}

func TestBuildShoppingListUnparseableLines(t *testing.T) {
	catalog := map[string]Source{
		"r1": {Title: "Soup", BaseServings: 2, Ingredients: []string{"salt to taste", "2 cups broth"}},
	}
	days := []Day{{Date: "d1", Meals: []Slot{{RecipeID: "r1", Servings: 2}}}}

	result := BuildShoppingList(days, catalog, allOptions())

	for _, item := range result.Totals {
		if item.NormalizedName == "salt to taste" {
			t.Error("unparseable line leaked into totals")
		}
	}
	if len(result.NeedsReview) != 1 {
		t.Fatalf("expected 1 needs-review item, got %d", len(result.NeedsReview))
	}
	if result.NeedsReview[0].Raw != "salt to taste" {
		t.Errorf("expected raw line preserved, got %q", result.NeedsReview[0].Raw)
	}
}

func TestBuildShoppingListExclusionsAndOptions(t *testing.T) {
	catalog := map[string]Source{
		"r1": {Title: "Stew", BaseServings: 2, Ingredients: []string{"500 g beef"}},
	}
	days := []Day{{
		Date:     "d1",
		Meals:    []Slot{{RecipeID: "r1", Servings: 2, ExcludeFromShopping: true}},
		Sessions: []Session{{RecipeID: "r1", Servings: 4}},
	}}

	t.Run("excluded slot contributes nothing", func(t *testing.T) {
		result := BuildShoppingList(days, catalog, Options{IncludeMeals: true})
		if len(result.Totals) != 0 {
			t.Errorf("excluded slot produced %d totals", len(result.Totals))
		}
	})

	t.Run("session covers the excluded slot", func(t *testing.T) {
		result := BuildShoppingList(days, catalog, allOptions())
		if len(result.Totals) != 1 {
			t.Fatalf("expected 1 total from session, got %d", len(result.Totals))
		}
		// 500 g at multiplier 4/2 = 1 kg.
		if result.Totals[0].Unit != "kg" || math.Abs(result.Totals[0].Quantity-1) > 0.01 {
			t.Errorf("expected 1 kg, got %v %s", result.Totals[0].Quantity, result.Totals[0].Unit)
		}
		if result.Stats.SessionsIncluded != 1 || result.Stats.MealsIncluded != 0 {
			t.Errorf("unexpected stats: %+v", result.Stats)
		}
	})
}

func TestBuildShoppingListNonFamilyUnits(t *testing.T) {
	catalog := map[string]Source{
		"r1": {Title: "Pasta", BaseServings: 2, Ingredients: []string{"2 cloves garlic"}},
		"r2": {Title: "Sauce", BaseServings: 2, Ingredients: []string{"3 cloves garlic"}},
	}
	days := []Day{{Date: "d1", Meals: []Slot{
		{RecipeID: "r1", Servings: 2},
		{RecipeID: "r2", Servings: 2},
	}}}

	result := BuildShoppingList(days, catalog, allOptions())
	if len(result.Totals) != 1 {
		t.Fatalf("expected garlic cloves to share one key, got %d items", len(result.Totals))
	}
	got := result.Totals[0]
	if got.Unit != "clove" || got.Quantity != 5 {
		t.Errorf("expected 5 clove, got %v %s", got.Quantity, got.Unit)
	}
}

func TestServingMultiplierDefaults(t *testing.T) {
	if m := servingMultiplier(0, 0); m != 1 {
		t.Errorf("missing servings must default to 1, got %v", m)
	}
	if m := servingMultiplier(-3, 2); m != 0.5 {
		t.Errorf("non-positive planned servings must default to 1, got %v", m)
	}
	if m := servingMultiplier(4, -1); m != 4 {
		t.Errorf("non-positive base servings must default to 1, got %v", m)
	}
}

func TestSourceLabelCap(t *testing.T) {
	catalog := map[string]Source{}
	var meals []Slot
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		catalog[id] = Source{Title: "Recipe " + id, BaseServings: 1, Ingredients: []string{"1 cup rice"}}
		meals = append(meals, Slot{RecipeID: id, Servings: 1})
	}
	days := []Day{{Date: "d1", Meals: meals}}

	result := BuildShoppingList(days, catalog, allOptions())
	if len(result.Totals) != 1 {
		t.Fatalf("expected one aggregated item, got %d", len(result.Totals))
	}
	if len(result.Totals[0].Sources) != 5 {
		t.Errorf("expected source labels capped at 5, got %d", len(result.Totals[0].Sources))
	}
	if result.Totals[0].Occurrences != 8 {
		t.Errorf("cap must not affect occurrence count, got %v", result.Totals[0].Occurrences)
	}
}
