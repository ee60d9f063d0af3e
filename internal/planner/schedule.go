package planner

import (
	"strings"

	"github.com/karsonthompson/mealdino-sub000/internal/profile"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
)

const (
	minSlotServings    = 1
	maxSlotServings    = 4
	minSessionServings = 2
	maxSessionServings = 20
)

// rotationCursor tracks selection state for one meal type across the date
// range: the next pool position and the recipe used for this meal type on
// the previous day. A plain struct so the scheduler's state stays
// inspectable in tests.
type rotationCursor struct {
	pos          int
	lastRecipeID string
}

// next picks a candidate, preferring one that differs from yesterday's
// recipe for this meal type and from anything already used today. After a
// full fruitless rotation it takes the next position unconditionally:
// repeats beat an empty slot.
func (c *rotationCursor) next(pool []recipe.Candidate, usedToday map[string]bool, avoidRepeats bool) recipe.Candidate {
	n := len(pool)
	for attempt := 0; attempt < n; attempt++ {
		candidate := pool[(c.pos+attempt)%n]
		if avoidRepeats && candidate.ID == c.lastRecipeID {
			continue
		}
		if usedToday[candidate.ID] {
			continue
		}
		c.pos = (c.pos + attempt + 1) % n
		c.lastRecipeID = candidate.ID
		return candidate
	}

	// No candidate satisfied both skip rules; fall back unconditionally.
	candidate := pool[c.pos%n]
	c.pos = (c.pos + 1) % n
	c.lastRecipeID = candidate.ID
	return candidate
}

// BuildDays schedules one recipe per day and meal type over the date range,
// adding batch-cook coverage when the cadence preference implies windows of
// more than one day.
func BuildDays(dates []string, mealTypes []MealType, pool []recipe.Candidate, prefs profile.PlanPreferences) []PlanDay {
	days := make([]PlanDay, len(dates))
	for i, date := range dates {
		days[i] = PlanDay{Date: date, Meals: []MealSlot{}, Sessions: []CookingSession{}}
	}
	if len(pool) == 0 || len(mealTypes) == 0 {
		return days
	}

	perMealServings := clamp(prefs.DefaultServings, minSlotServings, maxSlotServings)

	windowDays := batchWindowDays(prefs.BatchCookingCadence)
	primary := primaryMealType(mealTypes)
	batching := windowDays > 1 && primary != ""

	if batching {
		buildBatchWindows(days, primary, pool, windowDays, perMealServings)
	}

	cursors := make(map[MealType]*rotationCursor, len(mealTypes))
	for _, mt := range mealTypes {
		cursors[mt] = &rotationCursor{}
	}

	for i := range days {
		usedToday := make(map[string]bool)
		for _, slot := range days[i].Meals {
			usedToday[slot.RecipeID] = true
		}

		for _, mt := range mealTypes {
			if batching && mt == primary {
				continue // covered by the window's session
			}
			candidate := cursors[mt].next(pool, usedToday, prefs.AvoidRepeats)
			usedToday[candidate.ID] = true
			days[i].Meals = append(days[i].Meals, MealSlot{
				Date:     days[i].Date,
				MealType: mt,
				RecipeID: candidate.ID,
				Source:   SourceFresh,
				Servings: perMealServings,
			})
		}
	}

	return days
}

// buildBatchWindows partitions the dates into fixed-size windows, emits one
// cooking session on each window's first day, and fills the covered
// primary-meal slots as fresh-then-leftovers, excluded from shopping since
// the session already accounts for their ingredients.
func buildBatchWindows(days []PlanDay, primary MealType, pool []recipe.Candidate, windowDays, perMealServings int) {
	cursor := &rotationCursor{}

	for start := 0; start < len(days); start += windowDays {
		end := start + windowDays
		if end > len(days) {
			end = len(days)
		}
		coverage := end - start

		candidate := cursor.next(pool, nil, true)

		days[start].Sessions = append(days[start].Sessions, CookingSession{
			Date:      days[start].Date,
			RecipeID:  candidate.ID,
			TimeOfDay: "evening",
			Purpose:   "batch-prep",
			Servings:  clamp(coverage*perMealServings, minSessionServings, maxSessionServings),
		})

		for i := start; i < end; i++ {
			source := SourceLeftovers
			if i == start {
				source = SourceFresh
			}
			days[i].Meals = append(days[i].Meals, MealSlot{
				Date:                days[i].Date,
				MealType:            primary,
				RecipeID:            candidate.ID,
				Source:              source,
				Servings:            perMealServings,
				ExcludeFromShopping: true,
			})
		}
	}
}

// primaryMealType picks the meal type batch sessions cook for: dinner when
// requested, else lunch, else the first requested type.
func primaryMealType(mealTypes []MealType) MealType {
	for _, mt := range mealTypes {
		if mt == MealDinner {
			return MealDinner
		}
	}
	for _, mt := range mealTypes {
		if mt == MealLunch {
			return MealLunch
		}
	}
	if len(mealTypes) > 0 {
		return mealTypes[0]
	}
	return ""
}

// batchWindowDays maps the cadence preference to a window size in days.
// Anything that doesn't imply multi-day batching disables windows.
func batchWindowDays(cadence string) int {
	c := strings.ToLower(strings.TrimSpace(cadence))
	switch {
	case c == "" || c == "none" || c == "light":
		return 0
	case c == "heavy":
		return 2
	case c == "moderate":
		return 3
	}
	for d := 2; d <= 5; d++ {
		if strings.Contains(c, string(rune('0'+d))) {
			return d
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
