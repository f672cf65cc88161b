package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/rvscan/internal/s1_universe"
)

// universeCmd manages the ticker CSV
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Manage the ticker universe file",
}

var universeFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the current S&P 500 constituents into the universe CSV",
	Long: `Scrapes the constituents table from Wikipedia and writes a
one-column CSV with a Ticker header. Class shares use the dash form
Yahoo expects (BRK.B becomes BRK-B).

Example:
  go run ./cmd/rvscan universe fetch
  go run ./cmd/rvscan universe fetch --out sp_500_stocks.csv`,
	RunE: runUniverseFetch,
}

var universeOut string

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeFetchCmd)

	universeFetchCmd.Flags().StringVar(&universeOut, "out", "", "CSV path (default UNIVERSE_FILE)")
}

func runUniverseFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	out := universeOut
	if out == "" {
		out = cfg.UniverseFile
	}

	constituents, err := newWikipediaClient(cfg, log).FetchSP500(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch constituents: %w", err)
	}

	symbols := make([]string, len(constituents))
	for i, c := range constituents {
		symbols[i] = c.Symbol
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := s1_universe.WriteCSV(f, symbols); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ %d constituents written to %s\n", len(symbols), out)
	return nil
}
