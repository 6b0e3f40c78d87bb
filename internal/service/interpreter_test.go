package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

var breakfast = types.PreferenceSet{MealType: types.MealBreakfast, TimeLimitMinutes: 20}

func modelRecipes(n int) []types.Recipe {
	recipes := make([]types.Recipe, 0, n)
	for i := 1; i <= n; i++ {
		recipes = append(recipes, types.Recipe{
			Title:            fmt.Sprintf("Model Dish %d", i),
			Summary:          "From the model",
			TotalTimeMinutes: 10 + i,
			Ingredients:      []string{"egg", "toast"},
			Steps:            []string{"Crack the egg.", "Toast the bread."},
			Tags:             []string{"quick"},
		})
	}
	return recipes
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestInterpretModelBatch(t *testing.T) {
	interp := NewInterpreter(4, NewFenceStripper(), PolicyFallback)
	want := modelRecipes(4)

	s := interp.Interpret("```json\n"+mustJSON(t, want)+"\n```", breakfast)

	assert.Equal(t, types.SourceModel, s.Source)
	assert.Equal(t, types.ReasonNone, s.Reason)
	assert.Empty(t, s.Notice)
	assert.Equal(t, want, s.Recipes)
	assert.Nil(t, s.Raw)
	assert.False(t, s.GeneratedAt.IsZero())
}

func TestInterpretAcceptsPartialRecords(t *testing.T) {
	interp := NewInterpreter(2, nil, PolicyFallback)

	s := interp.Interpret(`[{"title":"Only a title"},{"total_time_minutes":"15","steps":["Eat."]}]`, breakfast)

	require.Equal(t, types.SourceModel, s.Source)
	assert.Equal(t, "Only a title", s.Recipes[0].Title)
	assert.Nil(t, s.Recipes[0].Ingredients)
	assert.Equal(t, 15, s.Recipes[1].TotalTimeMinutes)
	assert.Equal(t, []string{"Eat."}, s.Recipes[1].Steps)
}

func TestInterpretFailuresUseFallback(t *testing.T) {
	interp := NewInterpreter(5, NewFenceStripper(), PolicyFallback)

	tests := []struct {
		name   string
		raw    string
		reason types.Reason
		notice string
	}{
		{"absent", "", types.ReasonNoResponse, NoticeNoResponse},
		{"whitespace", " \n\t", types.ReasonNoResponse, NoticeNoResponse},
		{"not json", "Sure! Here are some recipes.", types.ReasonSyntax, NoticeSyntax + noticeFallback},
		{"truncated json", `[{"title":"x"`, types.ReasonSyntax, NoticeSyntax + noticeFallback},
		{"object", `{"recipes":[]}`, types.ReasonStructural, NoticeStructural + noticeFallback},
		{"short array", mustJSON(t, modelRecipes(4)), types.ReasonStructural, NoticeStructural + noticeFallback},
		{"long array", mustJSON(t, modelRecipes(6)), types.ReasonStructural, NoticeStructural + noticeFallback},
		{"wrong element types", `[1,2,3,4,5]`, types.ReasonUnexpected, NoticeUnexpected + noticeFallback},
		{"bad time", `[{"total_time_minutes":"soon"},{},{},{},{}]`, types.ReasonUnexpected, NoticeUnexpected + noticeFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := interp.Interpret(tt.raw, breakfast)

			assert.Equal(t, types.SourceFallback, s.Source)
			assert.Equal(t, tt.reason, s.Reason)
			assert.Equal(t, tt.notice, s.Notice)
			assert.Equal(t, Fallback(breakfast, 5), s.Recipes)
			assert.Nil(t, s.Raw)
		})
	}
}

func TestInterpretNoResponseScenario(t *testing.T) {
	s := NewInterpreter(5, NewFenceStripper(), PolicyFallback).Interpret("", breakfast)

	require.Len(t, s.Recipes, 5)
	assert.Equal(t, "Quick Skillet Hash #1", s.Recipes[0].Title)
	assert.Equal(t, "5-Min Omelet Wrap #5", s.Recipes[4].Title)
	for _, r := range s.Recipes {
		assert.Equal(t, 20, r.TotalTimeMinutes)
		assert.Equal(t, []string{"salt", "pepper", "oil"}, r.Ingredients)
	}
}

func TestInterpretOffsetWindowStructural(t *testing.T) {
	raw := `prefix{"a":1}suffix`

	s := NewInterpreter(5, OffsetStripper{Prefix: 6, Suffix: 6}, PolicyPreserveRaw).Interpret(raw, breakfast)

	assert.Equal(t, types.SourceRaw, s.Source)
	assert.Equal(t, types.ReasonStructural, s.Reason)
	assert.Equal(t, NoticeStructural+noticeRaw, s.Notice)
	assert.Equal(t, []types.RawPlaceholder{{Recipe: raw}}, s.Raw)
	assert.Nil(t, s.Recipes)
	assert.True(t, s.IsPlaceholder())
	assert.Equal(t, 1, s.Len())

	s = NewInterpreter(5, OffsetStripper{Prefix: 6, Suffix: 6}, PolicyFallback).Interpret(raw, breakfast)
	assert.Equal(t, types.ReasonStructural, s.Reason)
	assert.Equal(t, types.SourceFallback, s.Source)
}

func TestInterpretOffsetCorruptsUnwrappedJSON(t *testing.T) {
	raw := mustJSON(t, modelRecipes(5))

	s := NewInterpreter(5, OffsetStripper{Prefix: 7, Suffix: 3}, PolicyFallback).Interpret(raw, breakfast)

	assert.Equal(t, types.ReasonSyntax, s.Reason)
	assert.Equal(t, types.SourceFallback, s.Source)
}

func TestInterpretRawPolicy(t *testing.T) {
	interp := NewInterpreter(5, NewFenceStripper(), PolicyPreserveRaw)

	s := interp.Interpret("I cannot help with that.", breakfast)
	assert.Equal(t, types.SourceRaw, s.Source)
	assert.Equal(t, types.ReasonSyntax, s.Reason)
	assert.Equal(t, NoticeSyntax+noticeRaw, s.Notice)
	assert.Equal(t, "I cannot help with that.", s.Raw[0].Recipe)

	s = interp.Interpret("[1,2,3,4,5]", breakfast)
	assert.Equal(t, types.SourceRaw, s.Source)
	assert.Equal(t, types.ReasonUnexpected, s.Reason)
	assert.True(t, strings.HasPrefix(s.Notice, NoticeUnexpected))

	s = interp.Interpret("", breakfast)
	assert.Equal(t, types.SourceFallback, s.Source)
	assert.Equal(t, types.ReasonNoResponse, s.Reason)
}

func TestInterpretIsTotal(t *testing.T) {
	inputs := []string{"", "null", "[]", "{}", "[null,null,null,null,null]", "\"text\"", "```json```", "[[],[],[],[],[]]", "42"}

	for _, policy := range []Policy{PolicyFallback, PolicyPreserveRaw} {
		interp := NewInterpreter(5, NewFenceStripper(), policy)
		for _, raw := range inputs {
			s := interp.Interpret(raw, breakfast)
			require.NotNil(t, s, "policy=%s raw=%q", policy, raw)
			assert.Positive(t, s.Len(), "policy=%s raw=%q", policy, raw)
		}
	}
}

func TestNewInterpreterDefaults(t *testing.T) {
	interp := NewInterpreter(0, nil, "")

	assert.Equal(t, DefaultBatchSize, interp.BatchSize())
	assert.Equal(t, PolicyFallback, interp.policy)
	assert.Equal(t, NoopStripper{}, interp.stripper)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFallback, p)

	p, err = ParsePolicy(" RAW ")
	require.NoError(t, err)
	assert.Equal(t, PolicyPreserveRaw, p)

	_, err = ParsePolicy("ignore")
	assert.Error(t, err)
}

func TestInterpretNullRecipe(t *testing.T) {
	interp := NewInterpreter(2, nil, PolicyFallback)
	raw := `[null,{"title":"B"}]`

	require.NotPanics(t, func() {
		_, reason, err := interp.decodeBatch(raw)
		assert.Equal(t, types.ReasonUnexpected, reason)
		assert.ErrorIs(t, err, ErrMalformedOutput)
		assert.ErrorContains(t, err, "recipe 1 is <nil>, not an object")
	})

	s := interp.Interpret(raw, breakfast)
	assert.Equal(t, types.SourceFallback, s.Source)
	assert.Equal(t, types.ReasonUnexpected, s.Reason)
	assert.Equal(t, NoticeUnexpected+noticeFallback, s.Notice)
	assert.Equal(t, Fallback(breakfast, 2), s.Recipes)
}
