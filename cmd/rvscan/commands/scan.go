package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/rvscan/internal/brain"
	"github.com/wonny/rvscan/internal/report"
)

// scanCmd runs one scan in the foreground
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the relative valuation scan once",
	Long: `Runs the full pipeline once and writes the xlsx report.

Stages:
  S0 Universe   read the ticker CSV
  S1 Normalize  fetch fundamentals and derive the five ratios
  S2 Rank       percentile of every ratio across the population
  S3 Score      RV score and the 50 cheapest tickers
  S4 Size       equal-weight whole-share position sizing
  S5 Signal     preferred buy and sell prices from weekly history

The portfolio size comes from --portfolio, then PORTFOLIO_SIZE,
then an interactive prompt.

Example:
  go run ./cmd/rvscan scan --portfolio 10000
  go run ./cmd/rvscan scan --universe sp_500_stocks.csv --out report.xlsx --limit 100`,
	RunE: runScan,
}

var (
	scanUniverse  string
	scanPortfolio string
	scanOut       string
	scanLimit     int
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanUniverse, "universe", "", "ticker CSV (default UNIVERSE_FILE)")
	scanCmd.Flags().StringVar(&scanPortfolio, "portfolio", "", "portfolio size in dollars (default PORTFOLIO_SIZE)")
	scanCmd.Flags().StringVar(&scanOut, "out", "", "xlsx report path (default REPORT_PATH)")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "scan only the first N symbols, 0 = all")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	budget, err := resolveBudget(scanPortfolio, cfg.PortfolioSize, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	a, err := newApp(cfg, log, scanOptions{UniversePath: scanUniverse, Limit: scanLimit})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := scanOut
	if out == "" {
		out = cfg.ReportPath
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanning with a $%s portfolio...\n", budget.StringFixed(2))

	result, err := a.runner.Run(ctx, budget)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printRunResult(cmd.OutOrStdout(), result)

	if err := report.SaveXLSX(out, result.Shortlist); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Report written to %s\n", out)

	return nil
}

// saveOnComplete writes the xlsx report after every successful run
func saveOnComplete(path string) func(*brain.RunResult) error {
	return func(result *brain.RunResult) error {
		return report.SaveXLSX(path, result.Shortlist)
	}
}
