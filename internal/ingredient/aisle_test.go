package ingredient

import "testing"

func TestClassifyAisle(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"chopped spinach", "Produce"},
		{"chicken breast", "Protein"},
		{"cheddar cheese", "Dairy & Eggs"},
		{"basmati rice", "Grains & Bread"},
		{"olive oil", "Pantry"},
		{"frozen peas", "Frozen"},
		{"corn chips", "Snacks"},
		{"green tea", "Beverages"},
		{"mystery powder", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyAisle(tt.name); got != tt.want {
				t.Errorf("ClassifyAisle(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyAislePriorityOrder(t *testing.T) {
	// "tomato sauce" hits both Produce (tomato) and Pantry (sauce);
	// the earlier rule wins.
	if got := ClassifyAisle("tomato sauce"); got != "Produce" {
		t.Errorf("expected first-match rule to win, got %q", got)
	}
}
