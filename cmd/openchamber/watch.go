package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/providers"
)

func newWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-fetch usage whenever the credential store changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadEnvironment()
			if err != nil {
				return err
			}

			authPath := cfg.AuthFile
			if authPath == "" {
				authPath = authstore.Path()
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory: editors replace the file on save, which
			// drops a watch placed on the file itself.
			if err := watcher.Add(filepath.Dir(authPath)); err != nil {
				return fmt.Errorf("watching %s: %w", filepath.Dir(authPath), err)
			}

			registry := providers.NewRegistry().ApplyConfig(cfg)

			refresh := func() {
				store, err := authstore.LoadFrom(authPath)
				if err != nil {
					logrus.WithError(err).Warn("reloading credentials")
					return
				}
				ids := registry.ListConfigured(store)
				results := registry.FetchAll(cmd.Context(), store, ids)
				fmt.Fprint(os.Stdout, "\033[H\033[2J")
				fmt.Fprint(os.Stdout, renderResults(results))
			}

			refresh()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			// Debounce bursts of write events from atomic saves.
			var pending <-chan time.Time
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != filepath.Clean(authPath) {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					logrus.WithField("event", event.Op.String()).Debug("credential store changed")
					pending = time.After(250 * time.Millisecond)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logrus.WithError(err).Warn("watcher error")
				case <-pending:
					pending = nil
					refresh()
				case <-ticker.C:
					refresh()
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "periodic refresh interval")
	return cmd
}
