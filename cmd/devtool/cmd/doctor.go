package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/envutil"
	"baystate-scraper-runner/internal/installer"
	"baystate-scraper-runner/internal/keychain"
	"baystate-scraper-runner/internal/pkg/healthcheck"
	"baystate-scraper-runner/internal/settings"
)

func newDoctorCmd() *cobra.Command {
	var (
		dataDir    string
		sidecarDir string
		checkAPI   bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the local runner environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			store := settings.NewStore(dataDir)
			doc := store.Load()
			fmt.Fprintf(out, "app data dir:       %s\n", store.Dir())
			fmt.Fprintf(out, "settings file:      %s (%s)\n", store.Path(), presence(store.Path()))
			fmt.Fprintf(out, "api url:            %s\n", doc.APIURL)
			fmt.Fprintf(out, "runner name:        %s\n", doc.RunnerName)
			fmt.Fprintf(out, "first run complete: %v\n", doc.FirstRunComplete)

			keys := keychain.NewAdapter()
			fmt.Fprintf(out, "api key stored:     %v\n", keys.Exists())

			sup := installer.NewSupervisor(store, zap.NewNop().Sugar(), "")
			fmt.Fprintf(out, "chromium installed: %v (browsers dir %s)\n", sup.CheckInstalled(), store.BrowsersDir())

			if sidecarDir != "" {
				bridge := filepath.Join(sidecarDir, "sidecar_bridge.py")
				fmt.Fprintf(out, "sidecar bridge:     %s (%s)\n", bridge, presence(bridge))
			} else {
				fmt.Fprintln(out, "sidecar bridge:     SIDECAR_DIR not set")
			}

			if checkAPI {
				key, err := keys.Retrieve()
				if err != nil {
					fmt.Fprintf(out, "api health:         skipped (%v)\n", err)
					return nil
				}
				ok, err := healthcheck.Check(cmd.Context(), doc.APIURL, key)
				switch {
				case err != nil:
					fmt.Fprintf(out, "api health:         unreachable (%v)\n", err)
				case ok:
					fmt.Fprintln(out, "api health:         ok")
				default:
					fmt.Fprintln(out, "api health:         rejected (non-2xx)")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", envutil.String(os.Getenv, "DATA_DIR", ""), "App data directory override")
	cmd.Flags().StringVar(&sidecarDir, "sidecar-dir", envutil.String(os.Getenv, "SIDECAR_DIR", ""), "Scraper sidecar project directory")
	cmd.Flags().BoolVar(&checkAPI, "check-api", false, "Probe the coordinator health endpoint with the stored key")

	return cmd
}

func presence(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "missing"
	}
	return "present"
}
