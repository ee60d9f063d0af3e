package recipe

// SelectionPrefs are the plan preferences the candidate selector acts on.
type SelectionPrefs struct {
	IncludeGlobalRecipes bool
	IncludeUserRecipes   bool
	MaxCookTimeMinutes   int
}

// SelectCandidates filters the recipe pool by ownership preferences and the
// max cook-time ceiling. Filters are conjunctive; the ceiling only applies
// when it is a positive number. Pure and deterministic.
func SelectCandidates(pool []Candidate, prefs SelectionPrefs) []Candidate {
	selected := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Shared && !prefs.IncludeGlobalRecipes {
			continue
		}
		if !c.Shared && !prefs.IncludeUserRecipes {
			continue
		}
		if prefs.MaxCookTimeMinutes > 0 && c.PrepTimeMinutes > prefs.MaxCookTimeMinutes {
			continue
		}
		selected = append(selected, c)
	}
	return selected
}
