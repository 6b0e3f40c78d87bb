package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMealType(t *testing.T) {
	tests := []struct {
		in   string
		want MealType
		ok   bool
	}{
		{"breakfast", MealBreakfast, true},
		{" LUNCH ", MealLunch, true},
		{"Dinner", MealDinner, true},
		{"snack", MealSnack, true},
		{"Snacks", MealSnack, true},
		{"Brunch", MealType("brunch"), false},
		{"", MealType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMealType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestRecipeUnmarshalTotalTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"number", `{"total_time_minutes":15}`, 15},
		{"numeric string", `{"total_time_minutes":"25"}`, 25},
		{"float", `{"total_time_minutes":12.7}`, 12},
		{"missing", `{"title":"x"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Recipe
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.Equal(t, tt.want, r.TotalTimeMinutes)
		})
	}

	var r Recipe
	assert.Error(t, json.Unmarshal([]byte(`{"total_time_minutes":"about ten"}`), &r))
}

func TestRecipeUnmarshalKeepsFields(t *testing.T) {
	var r Recipe
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Pancakes",
		"summary": "Fluffy",
		"total_time_minutes": "20",
		"ingredients": ["flour", "milk"],
		"steps": ["Mix.", "Fry."],
		"tags": ["sweet"],
		"extra": true
	}`), &r))

	assert.Equal(t, Recipe{
		Title:            "Pancakes",
		Summary:          "Fluffy",
		TotalTimeMinutes: 20,
		Ingredients:      []string{"flour", "milk"},
		Steps:            []string{"Mix.", "Fry."},
		Tags:             []string{"sweet"},
	}, r)
}

func TestSuggestionShape(t *testing.T) {
	model := &Suggestion{Source: SourceModel, Recipes: []Recipe{{Title: "a"}, {Title: "b"}}}
	assert.False(t, model.IsPlaceholder())
	assert.Equal(t, 2, model.Len())

	raw := &Suggestion{Source: SourceRaw, Raw: []RawPlaceholder{{Recipe: "text"}}}
	assert.True(t, raw.IsPlaceholder())
	assert.Equal(t, 1, raw.Len())

	data, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"raw":[{"recipe":"text"}]`)
	assert.NotContains(t, string(data), `"recipes"`)
}

func TestUserRecordNormalize(t *testing.T) {
	r := &UserRecord{}
	r.Normalize()

	assert.Equal(t, []string{}, r.Pantry)
	assert.Equal(t, []string{}, r.Profile.Diet)
	assert.Equal(t, []string{}, r.Profile.Allergies)
	assert.Equal(t, []SavedRecipe{}, r.History)
	assert.Equal(t, OnboardingStart, r.Onboarding)

	r = &UserRecord{Pantry: []string{"eggs"}, Onboarding: "complete"}
	r.Normalize()
	assert.Equal(t, []string{"eggs"}, r.Pantry)
	assert.Equal(t, "complete", r.Onboarding)

	assert.Equal(t, NewUserRecord(), func() *UserRecord { u := &UserRecord{}; u.Normalize(); return u }())
}

func TestCleanAndSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanList([]string{" a ", "", "  ", "b"}))
	assert.Equal(t, []string{}, CleanList(nil))
	assert.Equal(t, []string{"rice", "black beans"}, SplitList("rice, black beans,,"))
}

func TestRecipeUnmarshalNull(t *testing.T) {
	r := Recipe{Title: "kept"}
	require.NotPanics(t, func() {
		require.NoError(t, json.Unmarshal([]byte(" null "), &r))
	})
	assert.Equal(t, "kept", r.Title)

	var saved SavedRecipe
	require.NoError(t, json.Unmarshal([]byte(`{"recipe":null}`), &saved))
	assert.Equal(t, Recipe{}, saved.Recipe)

	var list []Recipe
	require.NoError(t, json.Unmarshal([]byte(`[null,{"title":"B"}]`), &list))
	require.Len(t, list, 2)
	assert.Equal(t, Recipe{}, list[0])
	assert.Equal(t, "B", list[1].Title)
}
