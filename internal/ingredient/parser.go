package ingredient

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedLine is the structured form of one free-text ingredient line.
// Quantity is nil when no leading amount could be recognized; such lines
// are routed to the shopping list's needs-review bucket, never dropped.
type ParsedLine struct {
	Quantity       *float64 `json:"quantity"`
	Unit           string   `json:"unit"`
	NormalizedName string   `json:"normalizedName"`
	DisplayName    string   `json:"displayName"`
	Raw            string   `json:"raw"`
}

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	fractionRe      = regexp.MustCompile(`^(\d+)/(\d+)$`)
	wholeNumberRe   = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Parse turns a free-text ingredient line into a ParsedLine. It never
// returns an error: malformed input degrades to a nil quantity, and a line
// that is empty after cleanup yields nil.
func Parse(line string) *ParsedLine {
	raw := strings.TrimSpace(line)
	cleaned := parentheticalRe.ReplaceAllString(strings.ToLower(raw), "")
	cleaned = strings.ReplaceAll(cleaned, ",", " ")
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return nil
	}

	quantity, rest := parseQuantity(fields)

	unit := ""
	if len(rest) > 1 {
		if canonical, ok := unitAliases[rest[0]]; ok {
			unit = canonical
			rest = rest[1:]
		}
	}

	if len(rest) > 0 && rest[0] == "of" {
		rest = rest[1:]
	}

	name := strings.Join(rest, " ")
	if name == "" {
		return nil
	}

	return &ParsedLine{
		Quantity:       quantity,
		Unit:           unit,
		NormalizedName: name,
		DisplayName:    titleCase(name),
		Raw:            raw,
	}
}

// parseQuantity recognizes a leading whole number, simple fraction, mixed
// number ("1 1/2") or the words "a"/"an" (quantity 1). It returns nil and
// the untouched fields when nothing matches.
func parseQuantity(fields []string) (*float64, []string) {
	first := fields[0]

	if first == "a" || first == "an" {
		one := 1.0
		return &one, fields[1:]
	}

	if m := fractionRe.FindStringSubmatch(first); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den == 0 {
			return nil, fields
		}
		q := num / den
		return &q, fields[1:]
	}

	if wholeNumberRe.MatchString(first) {
		whole, _ := strconv.ParseFloat(first, 64)
		// Mixed number: a fraction immediately after the whole part.
		if len(fields) > 1 {
			if m := fractionRe.FindStringSubmatch(fields[1]); m != nil {
				num, _ := strconv.ParseFloat(m[1], 64)
				den, _ := strconv.ParseFloat(m[2], 64)
				if den != 0 {
					q := whole + num/den
					return &q, fields[2:]
				}
			}
		}
		return &whole, fields[1:]
	}

	return nil, fields
}

// titleCase upper-cases the first letter of each word. Used for display
// only; aggregation keys always use the lowercase normalized name.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
