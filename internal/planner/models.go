package planner

import (
	"time"

	"github.com/karsonthompson/mealdino-sub000/internal/profile"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
	"github.com/karsonthompson/mealdino-sub000/internal/shopping"
)

// MealType is one of the four meal slots a day can hold.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// SlotSource tags where a meal slot's food comes from.
type SlotSource string

const (
	SourceFresh     SlotSource = "fresh"
	SourceLeftovers SlotSource = "leftovers"
	SourceBatchPrep SlotSource = "batch-prep"
	SourceFrozen    SlotSource = "frozen"
)

// MealSlot assigns one recipe to a (date, meal type) pair.
type MealSlot struct {
	Date                string     `json:"date"`
	MealType            MealType   `json:"mealType"`
	RecipeID            string     `json:"recipeId"`
	Source              SlotSource `json:"source"`
	Servings            int        `json:"servings"`
	ExcludeFromShopping bool       `json:"excludeFromShopping"`
}

// CookingSession is one batch-prep event that may cover several subsequent
// meal slots.
type CookingSession struct {
	Date      string `json:"date"`
	RecipeID  string `json:"recipeId"`
	TimeOfDay string `json:"timeOfDay"`
	Purpose   string `json:"purpose"`
	Servings  int    `json:"servings"`
}

// PlanDay groups the slots and sessions of one calendar date. A day is
// always present in the output, even with nothing assignable.
type PlanDay struct {
	Date     string           `json:"date"`
	Meals    []MealSlot       `json:"meals"`
	Sessions []CookingSession `json:"sessions"`
}

// CookingDay is a coarse daily task list derived from the batch-cooking
// cadence. Illustrative only; never authoritative over the plan itself.
type CookingDay struct {
	Date  string   `json:"date"`
	Tasks []string `json:"tasks"`
}

// Directives govern how a plan is built: which meal slots to fill, how
// strict to be, and which recipes the reasoning service picked.
type Directives struct {
	MealTypes         []MealType         `json:"mealTypes"`
	Strictness        profile.Strictness `json:"strictness"`
	SelectedRecipeIDs []string           `json:"selectedRecipeIds"`
	Notes             []string           `json:"notes"`
	WhyThisPlan       string             `json:"whyThisPlan"`
}

// ValidationResult reports hard-constraint evaluation. Violations never
// block a run; the caller decides what to surface.
type ValidationResult struct {
	HardConstraintPass bool     `json:"hardConstraintPass"`
	Violations         []string `json:"violations"`
}

// ToolTraceEntry records which internal step ran and a small result
// summary. Audit data only, never control flow.
type ToolTraceEntry struct {
	Step      string    `json:"step"`
	Detail    string    `json:"detail"`
	IsError   bool      `json:"isError,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DateRange is the inclusive span of days a run plans for.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NextMonday returns the first Monday strictly after t, at midnight UTC.
// Weekly plans start there so a mid-week request never rewrites the
// current week.
func NextMonday(t time.Time) time.Time {
	t = t.UTC()
	daysAhead := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	next := t.AddDate(0, 0, daysAhead)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
}

// Dates expands the range into one date string per day, oldest first.
func (r DateRange) Dates() []string {
	if r.End.Before(r.Start) {
		return nil
	}
	var dates []string
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates
}

// DraftOutput is everything one planning run produced.
type DraftOutput struct {
	MealPlanDays    []PlanDay                `json:"mealPlanDays"`
	ShoppingList    shopping.Result          `json:"shoppingList"`
	CookingSchedule []CookingDay             `json:"cookingSchedule"`
	CreatedRecipes  []recipe.Candidate       `json:"createdRecipes"`
	RecipeCatalog   []recipe.Candidate       `json:"recipeCatalog"`
	Validation      ValidationResult         `json:"validation"`
	Targets         profile.NutritionTargets `json:"targets"`
	ToolTrace       []ToolTraceEntry         `json:"toolTrace"`
}

// RunSummary is the human-facing wrap-up of a run.
type RunSummary struct {
	WhyThisPlan      string   `json:"whyThisPlan"`
	UnmetConstraints []string `json:"unmetConstraints"`
	Notes            []string `json:"notes"`
}

// RunStatus is the lifecycle state of a planning run.
type RunStatus string

const (
	StatusDraft   RunStatus = "draft"
	StatusApplied RunStatus = "applied"
	StatusFailed  RunStatus = "failed"
)

// RunResult pairs a run's draft output with its summary and status.
type RunResult struct {
	Output  DraftOutput `json:"outputDraft"`
	Summary RunSummary  `json:"summary"`
	Status  RunStatus   `json:"status"`
}
