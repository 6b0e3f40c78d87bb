package types

// SuggestRequest is the body of a suggestion request. The pantry comes from
// the stored user record.
type SuggestRequest struct {
	MealType         string   `json:"meal_type" binding:"required"`
	TimeLimitMinutes int      `json:"time_limit_minutes" binding:"required,min=1"`
	Mood             []string `json:"mood"`
	Constraints      []string `json:"constraints"`
	MustUse          []string `json:"must_use"`
	Model            string   `json:"model"`
}

// UpdatePantryRequest replaces the stored pantry.
type UpdatePantryRequest struct {
	Items []string `json:"items"`
}

// UpdateProfileRequest replaces the stored profile.
type UpdateProfileRequest struct {
	Diet      []string `json:"diet"`
	Allergies []string `json:"allergies"`
}

// SaveRecipeRequest picks a recipe from the latest suggestion by position.
type SaveRecipeRequest struct {
	Index *int `json:"index" binding:"required"`
}

// OptionsResponse lists the form vocabularies.
type OptionsResponse struct {
	MealTypes   []MealType `json:"meal_types"`
	Moods       []string   `json:"moods"`
	Constraints []string   `json:"constraints"`
	Diets       []string   `json:"diets"`
}
