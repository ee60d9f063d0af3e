package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/karsonthompson/mealdino-sub000/internal/profile"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
)

func acceptedProfile() profile.PlanningProfile {
	now := time.Now()
	return profile.PlanningProfile{DisclaimerAcceptedAt: &now}
}

func TestValidateDraftForbiddenIngredient(t *testing.T) {
	prof := acceptedProfile()
	prof.HardConstraints = []string{"no peanuts"}

	catalog := []recipe.Candidate{
		{Title: "Peanut Noodles", Ingredients: []string{"1/4 cup peanuts", "200 g noodles"}},
		{Title: "Plain Noodles", Ingredients: []string{"200 g noodles"}},
	}

	result := ValidateDraft(prof, catalog)
	if result.HardConstraintPass {
		t.Fatal("expected validation to fail")
	}
	if len(result.Violations) != 1 {
		t.Fatalf("expected exactly one violation, got %d: %v", len(result.Violations), result.Violations)
	}
	if !strings.Contains(result.Violations[0], "Peanut Noodles") {
		t.Errorf("violation must name the offending recipe, got %q", result.Violations[0])
	}
}

func TestValidateDraftConstraintForms(t *testing.T) {
	catalog := []recipe.Candidate{
		{Title: "Shrimp Curry", Ingredients: []string{"300 g shrimp"}},
	}
	for _, form := range []string{"no shrimp", "avoid shrimp", "exclude shrimp", "without shrimp"} {
		t.Run(form, func(t *testing.T) {
			prof := acceptedProfile()
			prof.HardConstraints = []string{form}
			result := ValidateDraft(prof, catalog)
			if len(result.Violations) != 1 {
				t.Errorf("form %q: expected 1 violation, got %v", form, result.Violations)
			}
		})
	}
}

func TestValidateDraftCookTimeCeiling(t *testing.T) {
	prof := acceptedProfile()
	prof.HardConstraints = []string{"max 30 min"}

	catalog := []recipe.Candidate{
		{Title: "Quick Salad", PrepTimeMinutes: 15},
		{Title: "Slow Roast", PrepTimeMinutes: 120},
	}

	result := ValidateDraft(prof, catalog)
	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", result.Violations)
	}
	if !strings.Contains(result.Violations[0], "Slow Roast") {
		t.Errorf("violation must name the slow recipe, got %q", result.Violations[0])
	}
}

func TestValidateDraftMissingDisclaimer(t *testing.T) {
	result := ValidateDraft(profile.PlanningProfile{}, nil)
	if result.HardConstraintPass {
		t.Fatal("missing disclaimer acceptance must be a violation")
	}
	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", result.Violations)
	}
}

func TestValidateDraftIdempotent(t *testing.T) {
	prof := acceptedProfile()
	prof.HardConstraints = []string{"no dairy", "max 45 min"}
	catalog := []recipe.Candidate{
		{Title: "Mac and Cheese", Ingredients: []string{"2 cups dairy milk"}, PrepTimeMinutes: 60},
	}

	first := ValidateDraft(prof, catalog)
	second := ValidateDraft(prof, catalog)
	if len(first.Violations) != len(second.Violations) {
		t.Fatalf("validator not idempotent: %v vs %v", first.Violations, second.Violations)
	}
	for i := range first.Violations {
		if first.Violations[i] != second.Violations[i] {
			t.Errorf("violation %d differs between runs", i)
		}
	}
}
