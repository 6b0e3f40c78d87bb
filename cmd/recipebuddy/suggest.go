package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/pageza/recipe-buddy/backend/internal/render"
	"github.com/pageza/recipe-buddy/backend/internal/types"
)

var (
	suggestMeal        string
	suggestTime        int
	suggestMood        []string
	suggestConstraints []string
	suggestMustUse     []string
	suggestModel       string
	suggestWidth       int
	suggestPerRow      int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest recipes for a user",
	Long: `Suggest recipes using the user's stored pantry.

Without --meal an interactive form asks for meal type, time limit, mood,
constraints and must-use ingredients.

The form uses keyboard navigation:
  - Tab/Shift+Tab: Move between fields
  - Enter: Submit the form
  - Ctrl+C: Cancel and exit`,
	PreRunE: func(cmd *cobra.Command, args []string) error { return requireUser() },
	RunE: func(cmd *cobra.Command, args []string) error {
		req := types.SuggestRequest{
			MealType:         suggestMeal,
			TimeLimitMinutes: suggestTime,
			Mood:             suggestMood,
			Constraints:      suggestConstraints,
			MustUse:          suggestMustUse,
			Model:            suggestModel,
		}
		if req.MealType == "" {
			if err := runSuggestForm(&req); err != nil {
				return err
			}
		}
		if req.TimeLimitMinutes <= 0 {
			return fmt.Errorf("time limit must be a positive number of minutes")
		}

		suggestion, err := deps.Suggestions.Suggest(cmd.Context(), username, req)
		if err != nil {
			return err
		}

		if notice := render.Notice(suggestion); notice != "" {
			fmt.Fprintln(cmd.OutOrStdout(), notice)
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Cards(suggestion, render.Options{Width: suggestWidth, PerRow: suggestPerRow}))
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&username, "user", "u", "", "username whose pantry is used (required)")
	suggestCmd.Flags().StringVar(&suggestMeal, "meal", "", "meal type: breakfast, lunch, dinner or snack")
	suggestCmd.Flags().IntVar(&suggestTime, "time", 30, "time limit in minutes")
	suggestCmd.Flags().StringSliceVar(&suggestMood, "mood", nil, "mood keywords")
	suggestCmd.Flags().StringSliceVar(&suggestConstraints, "constraints", nil, "dietary or style constraints")
	suggestCmd.Flags().StringSliceVar(&suggestMustUse, "must-use", nil, "ingredients every recipe should use")
	suggestCmd.Flags().StringVar(&suggestModel, "model", "", "override the configured model")
	suggestCmd.Flags().IntVar(&suggestWidth, "width", 40, "card width")
	suggestCmd.Flags().IntVar(&suggestPerRow, "per-row", 2, "cards per row")
}

func runSuggestForm(req *types.SuggestRequest) error {
	meal := string(types.MealDinner)
	timeStr := strconv.Itoa(req.TimeLimitMinutes)
	var mustUse string

	mealOptions := make([]huh.Option[string], len(types.MealTypes))
	for i, m := range types.MealTypes {
		mealOptions[i] = huh.NewOption(strings.ToUpper(string(m[:1]))+string(m[1:]), string(m))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Meal type").
				Options(mealOptions...).
				Value(&meal),

			huh.NewInput().
				Title("Time limit (minutes)").
				Value(&timeStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number of minutes")
					}
					return nil
				}),
		),

		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Mood").
				Description("Pick any that fit (optional)").
				Options(huh.NewOptions(types.MoodOptions...)...).
				Value(&req.Mood),

			huh.NewMultiSelect[string]().
				Title("Constraints").
				Description("Pick any that apply (optional)").
				Options(huh.NewOptions(types.ConstraintOptions...)...).
				Value(&req.Constraints),

			huh.NewInput().
				Title("Must-use ingredients").
				Description("Comma-separated (optional)").
				Placeholder("e.g., spinach, chickpeas").
				Value(&mustUse),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}

	req.MealType = meal
	req.TimeLimitMinutes, _ = strconv.Atoi(strings.TrimSpace(timeStr))
	req.MustUse = append(req.MustUse, types.SplitList(mustUse)...)
	return nil
}
