package planner

import "strings"

// BuildCookingSchedule derives a coarse daily task list from the
// batch-cooking cadence: heavy batches every 2nd day, moderate every 3rd,
// light or none every 5th. Purely illustrative scheduling metadata.
func BuildCookingSchedule(dates []string, batchCadence string) []CookingDay {
	interval := 5
	switch strings.ToLower(strings.TrimSpace(batchCadence)) {
	case "heavy":
		interval = 2
	case "moderate":
		interval = 3
	}

	schedule := make([]CookingDay, len(dates))
	for i, date := range dates {
		var tasks []string
		if i%interval == 0 {
			tasks = []string{
				"Batch cook proteins",
				"Prep vegetables for the coming days",
				"Portion and refrigerate leftovers",
			}
		} else {
			tasks = []string{"Cook planned meals", "Reheat prepped portions as needed"}
		}
		schedule[i] = CookingDay{Date: date, Tasks: tasks}
	}
	return schedule
}
