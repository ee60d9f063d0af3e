package profile

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	p := PlanningProfile{Strictness: "extreme"}
	p.Normalize()

	if p.Strictness != StrictnessBalanced {
		t.Errorf("expected unknown strictness to default to balanced, got %q", p.Strictness)
	}
	if p.Preferences.DefaultServings != 2 {
		t.Errorf("expected default servings 2, got %d", p.Preferences.DefaultServings)
	}
}

func TestResolveNutritionTargets(t *testing.T) {
	t.Run("user targets pass through verbatim", func(t *testing.T) {
		p := PlanningProfile{
			Targets: NutritionTargets{Source: TargetSourceUser, Calories: 2200, Protein: 140},
		}
		got := p.ResolveNutritionTargets()
		if got.Source != TargetSourceUser {
			t.Fatalf("expected source user, got %q", got.Source)
		}
		if got.Calories != 2200 || got.Protein != 140 {
			t.Errorf("expected verbatim targets, got %+v", got)
		}
	})

	t.Run("estimated from body metrics", func(t *testing.T) {
		p := PlanningProfile{
			Metrics: &BodyMetrics{WeightKg: 80, HeightCm: 180, Age: 35, Sex: "male", ActivityLevel: "moderate"},
		}
		got := p.ResolveNutritionTargets()
		if got.Source != TargetSourceEstimated {
			t.Fatalf("expected source estimated, got %q", got.Source)
		}
		// Mifflin-St Jeor: 10*80 + 6.25*180 - 5*35 + 5 = 1755; * 1.55 = 2720.25
		if got.Calories != 2720 {
			t.Errorf("expected 2720 calories, got %v", got.Calories)
		}
		if got.Protein != 128 {
			t.Errorf("expected 128 g protein, got %v", got.Protein)
		}
		if got.Carbs <= 0 || got.Fat <= 0 {
			t.Errorf("expected positive carb and fat targets, got %+v", got)
		}
	})

	t.Run("unavailable without metrics", func(t *testing.T) {
		p := PlanningProfile{}
		got := p.ResolveNutritionTargets()
		if got.Source != TargetSourceNone {
			t.Fatalf("expected source none, got %q", got.Source)
		}
	})
}
