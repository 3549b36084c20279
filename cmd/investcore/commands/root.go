package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "investcore",
	Short: "Investment simulation and risk profiling service",
	Long: `Investcore CLI

Investment platform backend: simulation of investment products,
effectivization of simulations into permanent history, and risk
profile scoring with trend prediction.

Usage:
  go run ./cmd/investcore [command]

Examples:
  go run ./cmd/investcore api
  go run ./cmd/investcore seed
  go run ./cmd/investcore profile 42`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
