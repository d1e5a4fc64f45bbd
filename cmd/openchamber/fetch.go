package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/config"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/providers"
)

func newFetchCommand() *cobra.Command {
	var jsonOut bool
	var all bool

	cmd := &cobra.Command{
		Use:   "fetch [provider...]",
		Short: "Fetch current usage for configured providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := loadEnvironment()
			if err != nil {
				return err
			}

			registry := providers.NewRegistry().ApplyConfig(cfg)

			ids := args
			if len(ids) == 0 {
				if all {
					ids = registry.IDs()
				} else {
					ids = registry.ListConfigured(store)
				}
			}
			if len(ids) == 0 {
				fmt.Fprintln(os.Stderr, "No providers configured. Add credentials to", authstore.Path())
				return nil
			}

			logrus.WithField("providers", ids).Debug("fetching usage")
			results := registry.FetchAll(cmd.Context(), store, ids)

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderResults(results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit results as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "include unconfigured providers")
	return cmd
}

func loadEnvironment() (config.Config, authstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("loading config: %w", err)
	}

	authPath := cfg.AuthFile
	if authPath == "" {
		authPath = authstore.Path()
	}
	store, err := authstore.LoadFrom(authPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("loading credentials: %w", err)
	}
	return cfg, store, nil
}

func writeJSON(w io.Writer, results []core.ProviderResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
