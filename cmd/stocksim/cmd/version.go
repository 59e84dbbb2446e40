package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stocksim version %s\n", version)
		fmt.Println("A browser-based stock market simulator")
		fmt.Println("https://github.com/rustyeddy/stocksim")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
