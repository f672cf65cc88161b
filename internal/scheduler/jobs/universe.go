package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/internal/s1_universe"
	"github.com/wonny/rvscan/pkg/logger"
)

// UniverseRefreshJob rewrites the universe CSV from the live constituents list
type UniverseRefreshJob struct {
	source   contracts.UniverseSource
	path     string
	schedule string
	logger   *logger.Logger
}

// NewUniverseRefreshJob creates a new universe refresh job
func NewUniverseRefreshJob(source contracts.UniverseSource, path, schedule string, log *logger.Logger) *UniverseRefreshJob {
	return &UniverseRefreshJob{
		source:   source,
		path:     path,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *UniverseRefreshJob) Name() string {
	return "universe_refresh"
}

// Schedule returns the cron schedule
func (j *UniverseRefreshJob) Schedule() string {
	return j.schedule
}

// Run fetches the constituents and replaces the CSV atomically
func (j *UniverseRefreshJob) Run(ctx context.Context) error {
	symbols, err := j.source.Symbols(ctx)
	if err != nil {
		return fmt.Errorf("fetch constituents: %w", err)
	}
	if len(symbols) == 0 {
		return fmt.Errorf("fetch constituents: %w: no symbols", contracts.ErrInvalidInput)
	}

	tmp, err := os.CreateTemp(filepath.Dir(j.path), ".universe-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s1_universe.WriteCSV(tmp, symbols); err != nil {
		tmp.Close()
		return fmt.Errorf("write universe: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close universe: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("replace universe: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"path":    j.path,
	}).Info("Universe refreshed")

	return nil
}
