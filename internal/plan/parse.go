package plan

import (
	"regexp"
	"strconv"
	"strings"
)

// Equipment holds the equipment tokens recognized in free text. Users
// type whatever they like ("tapis et une chaise", "dumbbells"); only
// these categories matter to the catalog filter.
type Equipment struct {
	Specified bool // false when the field was empty or "aucun"
	Mat       bool
	Chair     bool
	Weights   bool
	Bands     bool
}

// ParseEquipment extracts equipment tokens from free text, matching the
// French and English keywords users actually type.
func ParseEquipment(text string) Equipment {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" || lower == "aucun" || lower == "none" {
		return Equipment{}
	}
	return Equipment{
		Specified: true,
		Mat:       strings.Contains(lower, "tapis") || strings.Contains(lower, "mat"),
		Chair:     strings.Contains(lower, "chaise") || strings.Contains(lower, "chair"),
		Weights:   strings.Contains(lower, "haltère") || strings.Contains(lower, "weight") || strings.Contains(lower, "dumbbell") || strings.Contains(lower, "poids"),
		Bands:     strings.Contains(lower, "bande") || strings.Contains(lower, "élastique") || strings.Contains(lower, "resistance"),
	}
}

// Has reports whether the given equipment category is available.
func (e Equipment) Has(category string) bool {
	switch category {
	case equipMat:
		return e.Mat
	case equipChair:
		return e.Chair
	case equipWeights:
		return e.Weights
	case equipBands:
		return e.Bands
	default:
		return true // equipment-free exercises are always available
	}
}

var firstIntRe = regexp.MustCompile(`\d+`)

// FirstInt extracts the first integer from free text ("3 fois par
// semaine" -> 3). Returns 0, false when no digits appear.
func FirstInt(text string) (int, bool) {
	match := firstIntRe.FindString(text)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// containsAny reports whether the lowercased text contains any of the
// given substrings.
func containsAny(lower string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
