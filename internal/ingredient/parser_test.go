package ingredient

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantQty  float64
		hasQty   bool
		wantUnit string
		wantName string
	}{
		{"whole number with unit", "2 cups rice", 2, true, "cup", "rice"},
		{"simple fraction", "1/2 tsp salt", 0.5, true, "tsp", "salt"},
		{"mixed number", "1 1/2 cups chopped spinach", 1.5, true, "cup", "chopped spinach"},
		{"article a", "a pinch of saffron", 1, true, "pinch", "saffron"},
		{"article an", "an onion", 1, true, "", "onion"},
		{"leading of stripped", "2 cups of flour", 2, true, "cup", "flour"},
		{"parenthetical stripped", "1 can (15 oz) black beans", 1, true, "can", "black beans"},
		{"comma stripped", "2 carrots, diced", 2, true, "", "carrots diced"},
		{"unit alias plural", "3 tablespoons olive oil", 3, true, "tbsp", "olive oil"},
		{"weight unit", "500 g chicken breast", 500, true, "g", "chicken breast"},
		{"no quantity", "salt to taste", 0, false, "", "salt to taste"},
		{"count unit", "2 cloves garlic", 2, true, "clove", "garlic"},
		{"decimal quantity", "1.5 l vegetable broth", 1.5, true, "l", "vegetable broth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if got == nil {
				t.Fatalf("Parse(%q) returned nil", tt.line)
			}
			if tt.hasQty {
				if got.Quantity == nil {
					t.Fatalf("expected quantity %v, got nil", tt.wantQty)
				}
				if math.Abs(*got.Quantity-tt.wantQty) > 1e-9 {
					t.Errorf("expected quantity %v, got %v", tt.wantQty, *got.Quantity)
				}
			} else if got.Quantity != nil {
				t.Errorf("expected nil quantity, got %v", *got.Quantity)
			}
			if got.Unit != tt.wantUnit {
				t.Errorf("expected unit %q, got %q", tt.wantUnit, got.Unit)
			}
			if got.NormalizedName != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, got.NormalizedName)
			}
		})
	}
}

func TestParseEmptyLines(t *testing.T) {
	for _, line := range []string{"", "   ", "(optional)", ","} {
		if got := Parse(line); got != nil {
			t.Errorf("Parse(%q) = %+v, expected nil", line, got)
		}
	}
}

func TestParseQuantityIsFiniteAndNonNegative(t *testing.T) {
	lines := []string{
		"2 cups rice", "1/2 tsp salt", "0/0 cups nothing", "1 1/2 tbsp oil",
		"salt to taste", "a dash of hot sauce", "100 g sugar",
	}
	for _, line := range lines {
		got := Parse(line)
		if got == nil || got.Quantity == nil {
			continue
		}
		q := *got.Quantity
		if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
			t.Errorf("Parse(%q) produced invalid quantity %v", line, q)
		}
	}
}

func TestParseDisplayName(t *testing.T) {
	got := Parse("2 cups chopped spinach")
	if got.DisplayName != "Chopped Spinach" {
		t.Errorf("expected display name 'Chopped Spinach', got %q", got.DisplayName)
	}
	if got.NormalizedName != "chopped spinach" {
		t.Errorf("expected normalized name 'chopped spinach', got %q", got.NormalizedName)
	}
}

func TestDisplayUnit(t *testing.T) {
	tests := []struct {
		name      string
		family    UnitFamily
		baseTotal float64
		wantUnit  string
	}{
		{"small volume stays tsp", FamilyVolume, 2 * mlPerTsp, "tsp"},
		{"medium volume uses tbsp", FamilyVolume, 6 * mlPerTsp, "tbsp"},
		{"cup-scale volume", FamilyVolume, 500, "cup"},
		{"large volume uses liters", FamilyVolume, 2500, "l"},
		{"weight under a kilo", FamilyWeight, 750, "g"},
		{"weight over a kilo", FamilyWeight, 1500, "kg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, _ := DisplayUnit(tt.family, tt.baseTotal)
			if unit != tt.wantUnit {
				t.Errorf("expected unit %q, got %q", tt.wantUnit, unit)
			}
		})
	}
}

func TestUnitFamilyRoundTrip(t *testing.T) {
	// Converting to base and re-expressing must stay within the same family.
	base := ToBaseUnits(2, "cup")
	unit, qty := DisplayUnit(FamilyVolume, base)
	if FamilyOf(unit) != FamilyVolume {
		t.Errorf("display unit %q left the volume family", unit)
	}
	if qty <= 0 {
		t.Errorf("expected positive display quantity, got %v", qty)
	}
}
