package shopping

// LineItem is one consolidated row of the shopping list.
type LineItem struct {
	NormalizedName string   `json:"normalizedName"`
	DisplayName    string   `json:"displayName"`
	Unit           string   `json:"unit,omitempty"`
	Quantity       float64  `json:"quantity"`
	Aisle          string   `json:"aisle"`
	Occurrences    float64  `json:"occurrences"`
	Sources        []string `json:"sources,omitempty"`
}

// ReviewItem is an ingredient line whose quantity could not be parsed.
// These require manual follow-up and are never silently dropped.
type ReviewItem struct {
	DisplayName string   `json:"displayName"`
	Raw         string   `json:"raw"`
	Aisle       string   `json:"aisle"`
	Sources     []string `json:"sources,omitempty"`
}

// Stats summarizes one aggregation pass.
type Stats struct {
	TotalItems       int `json:"totalItems"`
	NeedsReviewCount int `json:"needsReviewCount"`
	MealsIncluded    int `json:"mealsIncluded"`
	SessionsIncluded int `json:"sessionsIncluded"`
}

// Result is the full output of BuildShoppingList.
type Result struct {
	Totals      []LineItem   `json:"totals"`
	NeedsReview []ReviewItem `json:"needsReview"`
	Stats       Stats        `json:"stats"`
}

// Slot is a planned meal as seen by the aggregator: which recipe, how many
// servings, and whether a linked cooking session already covers it.
type Slot struct {
	RecipeID            string
	Servings            int
	ExcludeFromShopping bool
}

// Session is a batch-cooking event contributing ingredients for several days.
type Session struct {
	RecipeID string
	Servings int
}

// Day groups the slots and sessions of one calendar date.
type Day struct {
	Date     string
	Meals    []Slot
	Sessions []Session
}

// Source describes a recipe the aggregator draws ingredient lines from.
type Source struct {
	Title        string
	BaseServings int
	Ingredients  []string
}

// Options controls which plan entries feed the aggregation.
type Options struct {
	IncludeMeals           bool
	IncludeCookingSessions bool
}
