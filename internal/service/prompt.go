package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// SystemInstructions is the fixed instruction block placed ahead of every
// recipe prompt.
const SystemInstructions = `You are Recipe Buddy, a helpful cooking assistant.
You must produce strictly VALID JSON when asked for recipe lists. No commentary.
Each recipe must include: title, summary, total_time_minutes, ingredients (list of strings),
steps (list of short imperative steps), and tags (list of strings).
Prefer using the provided pantry ingredients. Respect constraints and time limits.
`

const recipePromptTemplate = `%s
Given the following context, generate EXACTLY %d distinct recipes as a JSON array.
Context:
- Meal type: %s
- Time limit (minutes): %d
- Mood keywords: %s
- Constraints: %s
- Must-use ingredients: %s
- Pantry ingredients available: %s

Rules:
- ONLY return valid JSON: an array of %d recipe objects.
- Each recipe object must have keys:
  "title" (string),
  "summary" (string),
  "total_time_minutes" (integer <= %d),
  "ingredients" (list of strings, relying on pantry where possible),
  "steps" (list of 5-10 concise steps),
  "tags" (list of strings).
- Do not add any commentary, explanation or text before or after the JSON.
- Favor simple, quick recipes within the time limit.
- Avoid exotic ingredients not in the pantry unless absolutely necessary.
- Keep titles unique and succinct.
JSON:
`

// emptyListText stands in for any list the user left empty.
const emptyListText = "none"

// BuildPrompt renders the generation prompt for prefs, asking for exactly n
// recipes. User text is interpolated verbatim.
func BuildPrompt(prefs types.PreferenceSet, n int) string {
	return fmt.Sprintf(recipePromptTemplate,
		SystemInstructions,
		n,
		prefs.MealType,
		prefs.TimeLimitMinutes,
		joinOrNone(prefs.MoodKeywords),
		joinOrNone(prefs.Constraints),
		joinOrNone(prefs.MustUse),
		pantryText(prefs.Pantry),
		n,
		prefs.TimeLimitMinutes,
	)
}

// pantryText trims, deduplicates and sorts the pantry. The stored pantry is
// left untouched.
func pantryText(pantry []string) string {
	seen := make(map[string]struct{}, len(pantry))
	items := make([]string, 0, len(pantry))
	for _, p := range pantry {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		items = append(items, p)
	}
	sort.Strings(items)
	return joinOrNone(items)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return emptyListText
	}
	return strings.Join(items, ", ")
}
