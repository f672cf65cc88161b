package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/rvscan/pkg/config"
	"github.com/wonny/rvscan/pkg/logger"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rvscan",
	Short: "Relative valuation scanner for the S&P 500",
	Long: `rvscan ranks S&P 500 constituents on five valuation ratios,
shortlists the cheapest 50, sizes an equal-weight portfolio and
attaches preferred buy and sell prices from weekly price history.

Usage:
  go run ./cmd/rvscan [command]

Examples:
  go run ./cmd/rvscan scan --portfolio 10000
  go run ./cmd/rvscan universe fetch
  go run ./cmd/rvscan api --port 8089
  go run ./cmd/rvscan scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), overrides ENV")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig applies the global flags and builds the logger
func loadConfig() (*config.Config, *logger.Logger, error) {
	if env != "" {
		if err := os.Setenv("ENV", env); err != nil {
			return nil, nil, fmt.Errorf("set ENV: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}
