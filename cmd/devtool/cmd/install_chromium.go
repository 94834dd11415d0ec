package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/envutil"
	"baystate-scraper-runner/internal/installer"
	"baystate-scraper-runner/internal/settings"
)

func newInstallChromiumCmd() *cobra.Command {
	var (
		dataDir       string
		playwrightCmd string
	)

	cmd := &cobra.Command{
		Use:   "install-chromium",
		Short: "Install the Playwright Chromium build into the app data dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			store := settings.NewStore(dataDir)
			sup := installer.NewSupervisor(store, zap.NewNop().Sugar(), playwrightCmd)

			return sup.Install(func(p installer.Progress) {
				fmt.Fprintf(out, "[%3d%%] %-11s %s\n", p.Progress, p.Status, p.Message)
			})
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", envutil.String(os.Getenv, "DATA_DIR", ""), "App data directory override")
	cmd.Flags().StringVar(&playwrightCmd, "playwright-cmd", envutil.String(os.Getenv, "PLAYWRIGHT_CMD", "playwright"), "Playwright CLI name/path")

	return cmd
}
