package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"baystate-scraper-runner/internal/envutil"
	"baystate-scraper-runner/internal/keychain"
	"baystate-scraper-runner/internal/scraper"
	"baystate-scraper-runner/internal/settings"
)

func newScrapeCmd() *cobra.Command {
	var (
		dataDir     string
		sidecarCmd  string
		sidecarDir  string
		scraperName string
		skus        []string
		headless    bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scraper against a list of SKUs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(skus) == 0 {
				return errors.New("at least one --sku is required")
			}

			store := settings.NewStore(dataDir)
			doc := store.Load()

			apiKey, err := keychain.NewAdapter().Retrieve()
			if err != nil {
				return fmt.Errorf("load api key: %w", err)
			}

			if !cmd.Flags().Changed("headless") {
				headless = doc.Headless
			}

			client := scraper.NewClient(sidecarCmd, sidecarDir)
			report, err := client.Run(scraperName, skus, scraper.RunConfig{
				APIURL:     doc.APIURL,
				APIKey:     apiKey,
				RunnerName: doc.RunnerName,
				Headless:   headless,
			})
			if err != nil {
				return err
			}

			raw, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", envutil.String(os.Getenv, "DATA_DIR", ""), "App data directory override")
	cmd.Flags().StringVar(&sidecarCmd, "sidecar-cmd", envutil.String(os.Getenv, "SIDECAR_CMD", "python3"), "Sidecar interpreter name/path")
	cmd.Flags().StringVar(&sidecarDir, "sidecar-dir", envutil.String(os.Getenv, "SIDECAR_DIR", ""), "Scraper sidecar project directory")
	cmd.Flags().StringVar(&scraperName, "scraper", "", "Scraper name (e.g. amazon)")
	cmd.Flags().StringArrayVar(&skus, "sku", nil, "SKU to scrape (repeatable)")
	cmd.Flags().BoolVar(&headless, "headless", true, "Run the browser headless (defaults to the saved setting)")

	if err := cmd.MarkFlagRequired("scraper"); err != nil {
		panic(errors.New("failed to mark required flag: scraper"))
	}

	return cmd
}
