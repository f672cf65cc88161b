package jobs

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/brain"
	"github.com/wonny/rvscan/internal/report"
	"github.com/wonny/rvscan/pkg/logger"
)

// ScanRunner runs one scan synchronously
type ScanRunner interface {
	Run(ctx context.Context, budget decimal.Decimal) (*brain.RunResult, error)
}

// ScanJob runs the relative valuation scan and writes the xlsx report
// ⭐ SSOT: the scan schedule is owned by this job only
type ScanJob struct {
	runner     ScanRunner
	budget     decimal.Decimal
	schedule   string
	reportPath string
	logger     *logger.Logger
}

// NewScanJob creates a scan job. budget must be positive.
func NewScanJob(runner ScanRunner, budget decimal.Decimal, schedule, reportPath string, log *logger.Logger) (*ScanJob, error) {
	if !budget.IsPositive() {
		return nil, fmt.Errorf("scan job: portfolio size must be positive, got %s", budget)
	}
	return &ScanJob{
		runner:     runner,
		budget:     budget,
		schedule:   schedule,
		reportPath: reportPath,
		logger:     log,
	}, nil
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "rv_scan"
}

// Schedule returns the cron schedule (SCAN_CRON)
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes the scan
func (j *ScanJob) Run(ctx context.Context) error {
	j.logger.WithField("portfolio", j.budget.String()).Info("Starting scheduled scan")

	result, err := j.runner.Run(ctx, j.budget)
	if err != nil {
		return fmt.Errorf("run scan: %w", err)
	}

	if err := report.SaveXLSX(j.reportPath, result.Shortlist); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":    result.RunID,
		"shortlist": len(result.Shortlist),
		"excluded":  len(result.Excluded),
		"report":    j.reportPath,
	}).Info("Scheduled scan completed")

	return nil
}
