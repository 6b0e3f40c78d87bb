// Command recipebuddy is the terminal client: it runs the suggestion form as a
// wizard and prints recipe cards.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/pageza/recipe-buddy/backend/config"
	"github.com/pageza/recipe-buddy/backend/internal/server"
)

var (
	username string

	cfg  *config.Config
	deps *server.Dependencies
)

var rootCmd = &cobra.Command{
	Use:   "recipebuddy",
	Short: "Recipe suggestions from your pantry",
	Long: `Recipe Buddy suggests recipes from what is in your pantry.

Suggestions come from the configured Ollama model. When the model is
unavailable or its answer cannot be used, locally generated recipes are
shown instead, together with a notice.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		deps, err = server.NewDependencies(cmd.Context(), cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if deps != nil {
			return deps.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd, pantryCmd, modelsCmd, pullCmd)
}

// requireUser checks the --user flag shared by the per-user commands.
func requireUser() error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("Please provide a username.")
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
