package types

import "strings"

// MealType is the kind of meal being planned.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists the known meal types in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ParseMealType normalizes a meal type case-insensitively. "snacks" is an
// alias for snack. Unknown values are returned lowercased with ok=false.
func ParseMealType(s string) (MealType, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "snacks" {
		return MealSnack, true
	}
	for _, m := range MealTypes {
		if MealType(v) == m {
			return m, true
		}
	}
	return MealType(v), false
}

// PreferenceSet is the input to prompt construction and the fallback
// generator. It is built fresh per request and never persisted.
type PreferenceSet struct {
	Pantry           []string
	MealType         MealType
	TimeLimitMinutes int
	MoodKeywords     []string
	Constraints      []string
	MustUse          []string
}

// Form vocabularies offered to clients. Free text outside these lists is
// still accepted for mood and constraints.
var (
	MoodOptions       = []string{"comforting", "spicy", "fresh", "creamy", "crispy", "hearty", "light", "tangy"}
	ConstraintOptions = []string{"healthy", "high-protein", "vegetarian", "vegan", "gluten-free", "dairy-free", "low-carb", "low-calorie"}
	DietOptions       = []string{"vegetarian", "vegan", "gluten-free", "dairy-free", "halal", "kosher", "low-carb", "keto", "paleo"}
)

// CleanList trims every entry and drops the empty ones.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SplitList splits a comma separated string into a cleaned list.
func SplitList(s string) []string {
	return CleanList(strings.Split(s, ","))
}
