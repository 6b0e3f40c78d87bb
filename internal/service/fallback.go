package service

import (
	"fmt"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// fallbackTitles holds five title templates per meal type.
var fallbackTitles = map[types.MealType][]string{
	types.MealBreakfast: {"Quick Skillet Hash", "Speedy Scramble Bowl", "Pantry Oat Parfait", "Toasty Sandwich Melt", "5-Min Omelet Wrap"},
	types.MealLunch:     {"15-Min Pantry Pasta", "Zippy Grain Bowl", "Crisp Veggie Wrap", "One-Pan Fried Rice", "Hearty Bean Salad"},
	types.MealDinner:    {"Weeknight Stir-Fry", "Simple Sheet-Pan Bake", "Creamy Pantry Pasta", "Speedy Chili", "Golden Veg Curry"},
	types.MealSnack:     {"Savory Trail Mix", "Nutty Energy Bites", "Crisp Chickpea Snack", "Cheesy Toast Bites", "Yogurt Fruit Cup"},
}

var fallbackSteps = []string{
	"Prep all ingredients as needed.",
	"Heat a pan or pot and add oil if required.",
	"Cook main components until done.",
	"Season to taste and combine all elements.",
	"Plate and serve.",
}

var fallbackStaples = []string{"salt", "pepper", "oil"}

const (
	fallbackMaxMinutes     = 20
	fallbackMaxIngredients = 5
	fallbackMaxTags        = 3
)

// DefaultBatchSize is the number of recipes requested when none is configured.
const DefaultBatchSize = 5

// Fallback produces n placeholder recipes from the local title table. The
// output depends only on its arguments. Titles cycle when n exceeds the table.
func Fallback(prefs types.PreferenceSet, n int) []types.Recipe {
	if n <= 0 {
		n = DefaultBatchSize
	}

	key, _ := types.ParseMealType(string(prefs.MealType))
	titles, ok := fallbackTitles[key]
	if !ok {
		titles = fallbackTitles[types.MealDinner]
	}

	minutes := prefs.TimeLimitMinutes
	if minutes > fallbackMaxMinutes {
		minutes = fallbackMaxMinutes
	}

	recipes := make([]types.Recipe, 0, n)
	for i := 0; i < n; i++ {
		recipes = append(recipes, types.Recipe{
			Title:            fmt.Sprintf("%s #%d", titles[i%len(titles)], i+1),
			Summary:          fmt.Sprintf("A quick %s using pantry staples.", prefs.MealType),
			TotalTimeMinutes: minutes,
			Ingredients:      fallbackIngredients(prefs.Pantry),
			Steps:            copyStrings(fallbackSteps),
			Tags:             head(prefs.Constraints, fallbackMaxTags),
		})
	}
	return recipes
}

func fallbackIngredients(pantry []string) []string {
	if len(pantry) == 0 {
		return copyStrings(fallbackStaples)
	}
	return head(pantry, fallbackMaxIngredients)
}

// head returns a copy of at most n leading items, never nil.
func head(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	return copyStrings(items[:n])
}

func copyStrings(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
