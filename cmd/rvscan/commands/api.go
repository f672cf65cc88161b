package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/rvscan/internal/api"
	"github.com/wonny/rvscan/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the report API server",
	Long: `Starts the HTTP API serving the latest scan.

Endpoints:
  GET  /health                - Health check
  GET  /api/report            - Latest shortlist
  GET  /api/report/{symbol}   - One shortlisted ticker with its price band
  POST /api/scan              - Start a scan, body {"portfolio": "10000"}

Every completed scan also rewrites REPORT_PATH.

Example:
  go run ./cmd/rvscan api
  go run ./cmd/rvscan api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	a, err := newApp(cfg, log, scanOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	a.runner.OnComplete(saveOnComplete(cfg.ReportPath))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportHandler := handlers.NewReportHandler(ctx, a.runner, cfg.PortfolioSize, log)
	server := api.New(cfg, log, api.NewRouter(reportHandler, log))

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Server running on http://localhost:%s (Ctrl+C to stop)\n", cfg.Port)

	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
