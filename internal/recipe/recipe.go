package recipe

import "github.com/google/uuid"

// Category classifies a recipe by the meal it suits.
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategorySnack     Category = "snack"
)

// Macros holds simple linear macro totals for a recipe at base servings.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Candidate is one recipe eligible for a planning run. Immutable once
// selected for a run; created ahead of time or synthesized during
// directive resolution.
type Candidate struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Category        Category `json:"category"`
	PrepTimeMinutes int      `json:"prepTimeMinutes"`
	BaseServings    int      `json:"baseServings"`
	Ingredients     []string `json:"ingredients"`
	Macros          Macros   `json:"macros"`
	Shared          bool     `json:"shared"`
	OwnerID         string   `json:"ownerId,omitempty"`
}

// NewID returns a fresh recipe identifier.
func NewID() string {
	return uuid.NewString()
}

// Baseline synthesizes the deterministic fallback recipe used when a run
// would otherwise have zero candidates. Fixed template so runs stay
// reproducible.
func Baseline(ownerID string) Candidate {
	return Candidate{
		ID:              NewID(),
		Title:           "Simple Rice Bowl",
		Category:        CategoryDinner,
		PrepTimeMinutes: 25,
		BaseServings:    2,
		Ingredients: []string{
			"1 cup rice",
			"2 cups vegetable broth",
			"1 tbsp olive oil",
			"2 cups mixed vegetables",
			"salt to taste",
		},
		Macros:  Macros{Calories: 420, Protein: 10, Carbs: 78, Fat: 8},
		OwnerID: ownerID,
	}
}
