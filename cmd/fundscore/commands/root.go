package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fundscore",
	Short: "Growth quality scoring from quarterly fundamentals",
	Long: `fundscore CLI

Fetches up to sixteen quarters of fundamentals (SEC EDGAR XBRL, then
Financial Modeling Prep, then Alpha Vantage) and scores them against ten
growth, quality and valuation rules.

Usage:
  go run ./cmd/fundscore [command]

Examples:
  go run ./cmd/fundscore score NVDA
  go run ./cmd/fundscore score NVDA --json --save
  go run ./cmd/fundscore fetch MSFT
  go run ./cmd/fundscore profile
  go run ./cmd/fundscore test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production|test)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
