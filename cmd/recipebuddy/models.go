package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models installed on the generation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := deps.Ollama.ListModels(cmd.Context())
		if err != nil {
			return err
		}
		for _, n := range names {
			marker := " "
			if n == cfg.OllamaModel {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, n)
		}
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull [model]",
	Short: "Make sure a model is installed, pulling it if needed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := cfg.OllamaModel
		if len(args) == 1 {
			model = args[0]
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ensuring %s is available...\n", model)
		if err := deps.Ollama.EnsureModel(cmd.Context(), model); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is ready.\n", model)
		return nil
	},
}
