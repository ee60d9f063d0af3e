package shopping

import (
	"math"
	"sort"

	"github.com/karsonthompson/mealdino-sub000/internal/ingredient"
)

const maxSourcesPerItem = 5

// aggregate accumulates contributions for one (name, family-or-unit) key.
type aggregate struct {
	item      LineItem
	family    ingredient.UnitFamily
	baseTotal float64
	sourceSet map[string]struct{}
}

// reviewAggregate collects occurrences of one unparseable line.
type reviewAggregate struct {
	item      ReviewItem
	sourceSet map[string]struct{}
}

// BuildShoppingList reduces the ingredient lines of every included meal slot
// and cooking session into a consolidated, aisle-grouped shopping list.
// Family-bearing units are converted to the family base unit, scaled by the
// serving multiplier, accumulated, and re-expressed in a human-friendly
// unit. Family-less units are summed as-is under their first-seen unit.
func BuildShoppingList(days []Day, catalog map[string]Source, opts Options) Result {
	totals := make(map[string]*aggregate)
	reviews := make(map[string]*reviewAggregate)
	stats := Stats{}

	for _, day := range days {
		if opts.IncludeMeals {
			for _, slot := range day.Meals {
				if slot.ExcludeFromShopping {
					continue
				}
				src, ok := catalog[slot.RecipeID]
				if !ok {
					continue
				}
				stats.MealsIncluded++
				addRecipe(totals, reviews, src, slot.Servings)
			}
		}
		if opts.IncludeCookingSessions {
			for _, session := range day.Sessions {
				src, ok := catalog[session.RecipeID]
				if !ok {
					continue
				}
				stats.SessionsIncluded++
				addRecipe(totals, reviews, src, session.Servings)
			}
		}
	}

	result := Result{Totals: []LineItem{}, NeedsReview: []ReviewItem{}}
	for _, agg := range totals {
		item := agg.item
		if agg.family != ingredient.FamilyNone {
			unit, qty := ingredient.DisplayUnit(agg.family, agg.baseTotal)
			item.Unit = unit
			item.Quantity = qty
		}
		item.Quantity = round2(item.Quantity)
		item.Occurrences = round2(item.Occurrences)
		result.Totals = append(result.Totals, item)
	}
	for _, agg := range reviews {
		result.NeedsReview = append(result.NeedsReview, agg.item)
	}

	sort.Slice(result.Totals, func(i, j int) bool {
		return result.Totals[i].DisplayName < result.Totals[j].DisplayName
	})
	sort.Slice(result.NeedsReview, func(i, j int) bool {
		return result.NeedsReview[i].DisplayName < result.NeedsReview[j].DisplayName
	})

	stats.TotalItems = len(result.Totals)
	stats.NeedsReviewCount = len(result.NeedsReview)
	result.Stats = stats
	return result
}

// addRecipe parses every ingredient line of one recipe instance and folds
// it into the running aggregates, scaled by plannedServings/baseServings.
func addRecipe(totals map[string]*aggregate, reviews map[string]*reviewAggregate, src Source, plannedServings int) {
	multiplier := servingMultiplier(plannedServings, src.BaseServings)
	if multiplier <= 0 {
		return
	}

	for _, line := range src.Ingredients {
		parsed := ingredient.Parse(line)
		if parsed == nil {
			continue
		}

		if parsed.Quantity == nil {
			key := parsed.NormalizedName
			agg, ok := reviews[key]
			if !ok {
				agg = &reviewAggregate{
					item: ReviewItem{
						DisplayName: parsed.DisplayName,
						Raw:         parsed.Raw,
						Aisle:       ingredient.ClassifyAisle(parsed.NormalizedName),
					},
					sourceSet: make(map[string]struct{}),
				}
				reviews[key] = agg
			}
			addSource(&agg.item.Sources, agg.sourceSet, src.Title)
			continue
		}

		family := ingredient.FamilyOf(parsed.Unit)
		key := parsed.NormalizedName + "|" + familyKey(family, parsed.Unit)
		agg, ok := totals[key]
		if !ok {
			agg = &aggregate{
				item: LineItem{
					NormalizedName: parsed.NormalizedName,
					DisplayName:    parsed.DisplayName,
					Unit:           parsed.Unit,
					Aisle:          ingredient.ClassifyAisle(parsed.NormalizedName),
				},
				family:    family,
				sourceSet: make(map[string]struct{}),
			}
			totals[key] = agg
		}

		scaled := *parsed.Quantity * multiplier
		if family != ingredient.FamilyNone {
			agg.baseTotal += ingredient.ToBaseUnits(scaled, parsed.Unit)
		} else {
			// Unit stays as first-seen for family-less entries.
			agg.item.Quantity += scaled
		}
		agg.item.Occurrences += multiplier
		addSource(&agg.item.Sources, agg.sourceSet, src.Title)
	}
}

// servingMultiplier defaults both sides to 1 when missing or non-positive,
// so a malformed recipe can never divide by zero or negate quantities.
func servingMultiplier(planned, base int) float64 {
	if planned <= 0 {
		planned = 1
	}
	if base <= 0 {
		base = 1
	}
	return float64(planned) / float64(base)
}

func familyKey(family ingredient.UnitFamily, unit string) string {
	switch family {
	case ingredient.FamilyVolume:
		return "volume"
	case ingredient.FamilyWeight:
		return "weight"
	}
	return unit
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// addSource records a distinct source label, capped to bound output size.
// Duplicates beyond the cap are dropped, never overwritten.
func addSource(sources *[]string, seen map[string]struct{}, label string) {
	if label == "" {
		return
	}
	if _, ok := seen[label]; ok {
		return
	}
	if len(*sources) >= maxSourcesPerItem {
		return
	}
	seen[label] = struct{}{}
	*sources = append(*sources, label)
}
