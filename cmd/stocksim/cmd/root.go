package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stocksim",
	Short: "A browser-based stock market simulator",
	Long: `Stocksim runs a fictional stock market you can trade against.

It provides tools for:
  - Serving the simulation over HTTP with a live websocket feed
  - Running headless simulations for a fixed number of ticks
  - Querying journaled transactions from the SQLite backend
  - Generating and validating configuration files

Complete documentation is available at https://github.com/rustyeddy/stocksim`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})
}
