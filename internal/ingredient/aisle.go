package ingredient

import "strings"

// aisleRule pairs an aisle with the keywords that map an ingredient into it.
type aisleRule struct {
	Aisle    string
	Keywords []string
}

// aisleRules are checked in priority order; the first keyword match wins.
// Per-user overrides are applied by the orchestrator after classification,
// so this stays a pure lookup.
var aisleRules = []aisleRule{
	{"Produce", []string{
		"spinach", "lettuce", "kale", "tomato", "onion", "garlic", "pepper",
		"carrot", "celery", "cucumber", "zucchini", "broccoli", "cauliflower",
		"mushroom", "avocado", "lemon", "lime", "apple", "banana", "berry",
		"berries", "orange", "grape", "potato", "sweet potato", "cilantro",
		"parsley", "basil", "ginger", "scallion", "cabbage", "herb",
	}},
	{"Protein", []string{
		"chicken", "beef", "pork", "turkey", "lamb", "salmon", "tuna", "shrimp",
		"fish", "tofu", "tempeh", "steak", "bacon", "sausage", "ground",
	}},
	{"Dairy & Eggs", []string{
		"milk", "cheese", "yogurt", "butter", "cream", "egg", "mozzarella",
		"parmesan", "cheddar", "feta",
	}},
	{"Grains & Bread", []string{
		"rice", "pasta", "bread", "tortilla", "quinoa", "oat", "noodle",
		"flour", "couscous", "barley", "bagel", "bun",
	}},
	{"Pantry", []string{
		"oil", "vinegar", "salt", "sugar", "honey", "sauce", "broth", "stock",
		"bean", "lentil", "chickpea", "spice", "cumin", "paprika", "cinnamon",
		"vanilla", "mustard", "mayo", "ketchup", "peanut butter", "nut",
		"almond", "walnut", "seed", "canned", "tomato paste", "soy",
	}},
	{"Frozen", []string{"frozen", "ice cream", "popsicle"}},
	{"Snacks", []string{"chips", "crackers", "popcorn", "pretzel", "granola bar", "cookie"}},
	{"Beverages", []string{"juice", "coffee", "tea", "soda", "sparkling water", "wine", "beer"}},
}

// ClassifyAisle maps a normalized ingredient name to a shopping aisle.
// Unmatched ingredients land in "Other".
func ClassifyAisle(normalizedName string) string {
	name := strings.ToLower(normalizedName)
	for _, rule := range aisleRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(name, kw) {
				return rule.Aisle
			}
		}
	}
	return "Other"
}
