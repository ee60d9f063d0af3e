package profile

import (
	"math"
	"time"
)

// Strictness is how rigidly the plan must honor the profile's constraints.
type Strictness string

const (
	StrictnessFlexible Strictness = "flexible"
	StrictnessBalanced Strictness = "balanced"
	StrictnessStrict   Strictness = "strict"
)

// TargetSource records where nutrition targets came from.
type TargetSource string

const (
	TargetSourceUser      TargetSource = "user"
	TargetSourceEstimated TargetSource = "estimated"
	TargetSourceNone      TargetSource = "none"
)

// NutritionTargets are daily macro goals with their provenance.
type NutritionTargets struct {
	Source   TargetSource `json:"source"`
	Calories float64      `json:"calories,omitempty"`
	Protein  float64      `json:"protein,omitempty"`
	Carbs    float64      `json:"carbs,omitempty"`
	Fat      float64      `json:"fat,omitempty"`
}

// BodyMetrics are the stored measurements used to estimate targets when the
// user has not set explicit ones.
type BodyMetrics struct {
	WeightKg      float64 `json:"weightKg"`
	HeightCm      float64 `json:"heightCm"`
	Age           int     `json:"age"`
	Sex           string  `json:"sex"`
	ActivityLevel string  `json:"activityLevel"`
}

// PlanPreferences tune candidate selection and scheduling.
type PlanPreferences struct {
	IncludeGlobalRecipes bool   `json:"includeGlobalRecipes"`
	IncludeUserRecipes   bool   `json:"includeUserRecipes"`
	AvoidRepeats         bool   `json:"avoidRepeats"`
	AllowGeneration      bool   `json:"allowGeneration"`
	LeftoversCadence     string `json:"leftoversCadence,omitempty"`
	BatchCookingCadence  string `json:"batchCookingCadence,omitempty"`
	MaxCookTimeMinutes   int    `json:"maxCookTimeMinutes,omitempty"`
	DefaultServings      int    `json:"defaultServings,omitempty"`
}

// PlanningProfile is the dietary profile a run plans against.
type PlanningProfile struct {
	Goal                 string           `json:"goal"`
	Strictness           Strictness       `json:"strictness"`
	HardConstraints      []string         `json:"hardConstraints"`
	SoftPreferences      []string         `json:"softPreferences"`
	Targets              NutritionTargets `json:"targets"`
	Preferences          PlanPreferences  `json:"preferences"`
	DisclaimerAcceptedAt *time.Time       `json:"disclaimerAcceptedAt"`
	Metrics              *BodyMetrics     `json:"metrics,omitempty"`
}

// Normalize clamps and defaults profile fields in place so downstream code
// never sees unusable values.
func (p *PlanningProfile) Normalize() {
	switch p.Strictness {
	case StrictnessFlexible, StrictnessBalanced, StrictnessStrict:
	default:
		p.Strictness = StrictnessBalanced
	}
	if p.Preferences.DefaultServings <= 0 {
		p.Preferences.DefaultServings = 2
	}
	if p.Preferences.MaxCookTimeMinutes < 0 {
		p.Preferences.MaxCookTimeMinutes = 0
	}
}

// ResolveNutritionTargets returns the profile's targets verbatim when the
// user set them, estimates them from body metrics when available, and
// reports them unavailable otherwise.
func (p *PlanningProfile) ResolveNutritionTargets() NutritionTargets {
	if p.Targets.Source == TargetSourceUser && p.Targets.Calories > 0 {
		t := p.Targets
		t.Source = TargetSourceUser
		return t
	}
	if p.Metrics != nil && p.Metrics.WeightKg > 0 && p.Metrics.HeightCm > 0 && p.Metrics.Age > 0 {
		return estimateTargets(*p.Metrics)
	}
	return NutritionTargets{Source: TargetSourceNone}
}

// estimateTargets applies the Mifflin-St Jeor equation with a simple
// activity multiplier, then a linear macro split: 1.6 g protein per kg,
// 25% of calories from fat, remainder from carbs.
func estimateTargets(m BodyMetrics) NutritionTargets {
	bmr := 10*m.WeightKg + 6.25*m.HeightCm - 5*float64(m.Age)
	if m.Sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier := 1.2
	switch m.ActivityLevel {
	case "light":
		multiplier = 1.375
	case "moderate":
		multiplier = 1.55
	case "active":
		multiplier = 1.725
	}

	calories := math.Round(bmr * multiplier)
	protein := math.Round(1.6 * m.WeightKg)
	fat := math.Round(calories * 0.25 / 9)
	carbs := math.Round((calories - protein*4 - fat*9) / 4)
	if carbs < 0 {
		carbs = 0
	}

	return NutritionTargets{
		Source:   TargetSourceEstimated,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
}
