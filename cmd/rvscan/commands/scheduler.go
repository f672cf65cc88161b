package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/rvscan/internal/portfolio"
	"github.com/wonny/rvscan/internal/scheduler"
	"github.com/wonny/rvscan/internal/scheduler/jobs"
	"github.com/wonny/rvscan/pkg/config"
	"github.com/wonny/rvscan/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run scans on a cron schedule",
	Long: `Starts the scheduler daemon or inspects its jobs.

Jobs:
  rv_scan           SCAN_CRON      scan with PORTFOLIO_SIZE, write REPORT_PATH
  universe_refresh  UNIVERSE_CRON  rewrite UNIVERSE_FILE from Wikipedia

Cron expressions carry a seconds field and are read in SCAN_TZ.

Example:
  go run ./cmd/rvscan scheduler start
  go run ./cmd/rvscan scheduler list
  go run ./cmd/rvscan scheduler run rv_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs and their next run",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	sched, closeFn, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer closeFn()

	sched.Start()
	printJobs(cmd.OutOrStdout(), sched)
	fmt.Fprintln(cmd.OutOrStdout(), "\nPress Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, closeFn, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer closeFn()

	// entries only get a next time once cron runs
	sched.Start()
	defer sched.Stop()

	printJobs(cmd.OutOrStdout(), sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	sched, closeFn, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := sched.RunJob(ctx, args[0])
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s completed in %s (%d attempt(s))\n",
		result.JobName, result.Duration.Round(time.Millisecond), result.Attempts)
	return nil
}

func printJobs(w io.Writer, sched *scheduler.Scheduler) {
	widths := []int{18, 18, 25}
	printTableHeader(w, []string{"Job", "Schedule", "Next run"}, widths)
	for _, st := range sched.GetJobStats() {
		next := "-"
		if st.NextRun != nil {
			next = st.NextRun.Format("2006-01-02 15:04 MST")
		}
		printTableRow(w, []string{st.JobName, st.Schedule, next}, widths)
	}
}

// initScheduler wires the scheduler with the scan and universe jobs
func initScheduler() (*scheduler.Scheduler, func(), error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	a, err := newApp(cfg, log, scanOptions{})
	if err != nil {
		return nil, nil, err
	}

	sched, err := buildScheduler(cfg, log, a)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return sched, a.Close, nil
}

func buildScheduler(cfg *config.Config, log *logger.Logger, a *app) (*scheduler.Scheduler, error) {
	budget, err := portfolio.ParseBudget(cfg.PortfolioSize)
	if err != nil {
		return nil, fmt.Errorf("PORTFOLIO_SIZE: %w", err)
	}

	loc, err := time.LoadLocation(cfg.ScanTZ)
	if err != nil {
		return nil, fmt.Errorf("SCAN_TZ: %w", err)
	}

	opts := scheduler.DefaultOptions()
	opts.Location = loc
	sched := scheduler.New(log, opts)

	scanJob, err := jobs.NewScanJob(a.runner, budget, cfg.ScanCron, cfg.ReportPath, log)
	if err != nil {
		return nil, err
	}
	if err := sched.AddJob(scanJob); err != nil {
		return nil, err
	}

	refresh := jobs.NewUniverseRefreshJob(newWikipediaClient(cfg, log), cfg.UniverseFile, cfg.UniverseCron, log)
	if err := sched.AddJob(refresh); err != nil {
		return nil, err
	}

	return sched, nil
}
