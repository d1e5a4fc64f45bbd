package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nelsonPires5/openchamber/internal/appupdate"
	"github.com/nelsonPires5/openchamber/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for updates",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "openchamber", version.String())

			result, err := appupdate.Check(cmd.Context(), appupdate.CheckOptions{
				CurrentVersion: version.Version,
			})
			if err != nil {
				logrus.WithError(err).Debug("update check failed")
				return
			}
			if result.UpdateAvailable {
				fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				if result.UpgradeHint != "" {
					fmt.Fprintln(cmd.OutOrStdout(), " ", result.UpgradeHint)
				}
			}
		},
	}
}
