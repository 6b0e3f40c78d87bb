package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

var pantryItems []string

var pantryCmd = &cobra.Command{
	Use:   "pantry",
	Short: "Edit a user's pantry",
	Long: `Edit the pantry in a text area, one item per line.

Pass --item to replace the pantry without the form.`,
	PreRunE: func(cmd *cobra.Command, args []string) error { return requireUser() },
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rec, err := deps.Users.Get(ctx, username)
		if err != nil {
			return err
		}

		items := pantryItems
		if !cmd.Flags().Changed("item") {
			text := strings.Join(rec.Pantry, "\n")
			err := huh.NewText().
				Title(fmt.Sprintf("Pantry for %s", username)).
				Description("One ingredient per line").
				CharLimit(5000).
				Value(&text).
				Run()
			if err != nil {
				return err
			}
			items = strings.Split(text, "\n")
		}

		rec.Pantry = types.CleanList(items)
		if err := deps.Users.Put(ctx, username, rec); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d pantry items for %s.\n", len(rec.Pantry), username)
		return nil
	},
}

func init() {
	pantryCmd.Flags().StringVarP(&username, "user", "u", "", "username (required)")
	pantryCmd.Flags().StringSliceVar(&pantryItems, "item", nil, "pantry item; repeat or comma-separate")
}
