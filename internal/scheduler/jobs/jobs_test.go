package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/rvscan/internal/brain"
	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/internal/report"
	"github.com/wonny/rvscan/internal/s1_universe"
	"github.com/wonny/rvscan/pkg/logger"
)

type fakeRunner struct {
	result *brain.RunResult
	err    error
	budget decimal.Decimal
}

func (f *fakeRunner) Run(ctx context.Context, budget decimal.Decimal) (*brain.RunResult, error) {
	f.budget = budget
	return f.result, f.err
}

type fakeSource struct {
	symbols []string
	err     error
}

func (f fakeSource) Symbols(ctx context.Context) ([]string, error) {
	return f.symbols, f.err
}

func TestNewScanJob_RejectsNonPositiveBudget(t *testing.T) {
	_, err := NewScanJob(&fakeRunner{}, decimal.Zero, "@daily", "out.xlsx", logger.Nop())
	assert.Error(t, err)
}

func TestScanJob_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	rec := contracts.NewRecord("AAPL")
	rec.SharesToBuy = 7
	runner := &fakeRunner{result: &brain.RunResult{RunID: "rv-1", Shortlist: []*contracts.TickerRecord{rec}}}

	job, err := NewScanJob(runner, decimal.NewFromInt(10000), "0 30 17 * * 1-5", path, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "rv_scan", job.Name())
	assert.Equal(t, "0 30 17 * * 1-5", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "10000", runner.budget.String())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	ticker, err := f.GetCellValue(report.SheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", ticker)
}

func TestScanJob_RunError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	runner := &fakeRunner{err: brain.ErrRunInProgress}

	job, err := NewScanJob(runner, decimal.NewFromInt(1), "@daily", path, logger.Nop())
	require.NoError(t, err)

	err = job.Run(context.Background())
	assert.ErrorIs(t, err, brain.ErrRunInProgress)
	assert.NoFileExists(t, path)
}

func TestUniverseRefreshJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sp_500_stocks.csv")

	job := NewUniverseRefreshJob(fakeSource{symbols: []string{"AAPL", "BRK-B", "MSFT"}}, path, "@weekly", logger.Nop())
	require.NoError(t, job.Run(context.Background()))

	symbols, err := s1_universe.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "BRK-B", "MSFT"}, symbols)
}

func TestUniverseRefreshJob_KeepsFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sp_500_stocks.csv")
	require.NoError(t, os.WriteFile(path, []byte("Ticker\nAAPL\n"), 0o644))

	tests := []struct {
		name   string
		source fakeSource
	}{
		{"source error", fakeSource{err: errors.New("offline")}},
		{"empty list", fakeSource{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewUniverseRefreshJob(tt.source, path, "@weekly", logger.Nop())
			assert.Error(t, job.Run(context.Background()))

			symbols, err := s1_universe.LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"AAPL"}, symbols)
		})
	}
}
