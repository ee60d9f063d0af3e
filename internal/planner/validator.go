package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/karsonthompson/mealdino-sub000/internal/profile"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
)

var (
	forbiddenRe = regexp.MustCompile(`^(?:no|avoid|exclude|without)\s+(.+)$`)
	maxTimeRe   = regexp.MustCompile(`max\s+(\d+)\s*min`)
)

// ValidateDraft evaluates the profile's hard constraints against a resolved
// recipe catalog. Violations are returned as data and never block the run.
func ValidateDraft(prof profile.PlanningProfile, catalog []recipe.Candidate) ValidationResult {
	var violations []string

	if prof.DisclaimerAcceptedAt == nil {
		violations = append(violations, "health disclaimer has not been accepted")
	}

	forbidden, maxMinutes := parseHardConstraints(prof.HardConstraints)

	for _, keyword := range forbidden {
		for _, c := range catalog {
			if ingredientsContain(c.Ingredients, keyword) {
				violations = append(violations,
					fmt.Sprintf("recipe %q contains forbidden ingredient %q", c.Title, keyword))
			}
		}
	}

	if maxMinutes > 0 {
		for _, c := range catalog {
			if c.PrepTimeMinutes > maxMinutes {
				violations = append(violations,
					fmt.Sprintf("recipe %q takes %d min, over the %d min limit", c.Title, c.PrepTimeMinutes, maxMinutes))
			}
		}
	}

	return ValidationResult{
		HardConstraintPass: len(violations) == 0,
		Violations:         violations,
	}
}

// parseHardConstraints extracts forbidden keywords from "no X" style rules
// and a cook-time ceiling from "max N min" rules.
func parseHardConstraints(constraints []string) (forbidden []string, maxMinutes int) {
	for _, raw := range constraints {
		c := strings.ToLower(strings.TrimSpace(raw))
		if c == "" {
			continue
		}
		if m := forbiddenRe.FindStringSubmatch(c); m != nil {
			forbidden = append(forbidden, strings.TrimSpace(m[1]))
			continue
		}
		if m := maxTimeRe.FindStringSubmatch(c); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				maxMinutes = n
			}
		}
	}
	return forbidden, maxMinutes
}

func ingredientsContain(ingredients []string, keyword string) bool {
	for _, line := range ingredients {
		if strings.Contains(strings.ToLower(line), keyword) {
			return true
		}
	}
	return false
}
