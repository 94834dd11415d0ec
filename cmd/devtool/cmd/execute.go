package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func Execute() int {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "devtool",
		Short:         "Operator tooling for the Bay State scraper runner",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(
		newDoctorCmd(),
		newInstallChromiumCmd(),
		newScrapeCmd(),
	)
	return root
}
