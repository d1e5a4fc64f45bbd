package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nelsonPires5/openchamber/internal/providers"
)

func newProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List known providers and whether credentials exist for them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, store, err := loadEnvironment()
			if err != nil {
				return err
			}

			registry := providers.NewRegistry().ApplyConfig(cfg)
			configured := make(map[string]bool)
			for _, id := range registry.ListConfigured(store) {
				configured[id] = true
			}

			for _, id := range registry.IDs() {
				marker := " "
				if configured[id] {
					marker = "✓"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, id)
			}
			return nil
		},
	}
}
