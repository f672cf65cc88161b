package brain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
)

// ErrRunInProgress is returned when a scan is requested while another one runs
var ErrRunInProgress = errors.New("scan already in progress")

// Runner serializes pipeline runs and keeps the most recent result in memory
// ⭐ SSOT: at most one scan in flight per process
type Runner struct {
	orchestrator *Orchestrator
	source       contracts.UniverseSource
	onComplete   func(*RunResult) error
	logger       *logger.Logger

	mu      sync.RWMutex
	running bool
	latest  *RunResult
	lastErr error
}

// NewRunner creates a runner reading the universe from source on every run
func NewRunner(orchestrator *Orchestrator, source contracts.UniverseSource, log *logger.Logger) *Runner {
	return &Runner{
		orchestrator: orchestrator,
		source:       source,
		logger:       log.Component("runner"),
	}
}

// OnComplete registers a hook called after every successful run
func (r *Runner) OnComplete(fn func(*RunResult) error) *Runner {
	r.onComplete = fn
	return r
}

// Run executes one scan synchronously
func (r *Runner) Run(ctx context.Context, budget decimal.Decimal) (*RunResult, error) {
	if !r.acquire() {
		return nil, ErrRunInProgress
	}
	return r.run(ctx, budget)
}

// Start launches a scan in the background and returns immediately
func (r *Runner) Start(ctx context.Context, budget decimal.Decimal) error {
	if !r.acquire() {
		return ErrRunInProgress
	}

	go func() {
		if _, err := r.run(ctx, budget); err != nil {
			r.logger.WithError(err).Warn("Background scan failed")
		}
	}()
	return nil
}

// Latest returns the most recent successful run, nil before the first one
func (r *Runner) Latest() *RunResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// LastError returns the error of the most recent run, nil if it succeeded
func (r *Runner) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Running reports whether a scan is in flight
func (r *Runner) Running() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

func (r *Runner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	return true
}

func (r *Runner) run(ctx context.Context, budget decimal.Decimal) (result *RunResult, err error) {
	defer func() {
		r.mu.Lock()
		r.running = false
		r.lastErr = err
		if err == nil {
			r.latest = result
		}
		r.mu.Unlock()
	}()

	symbols, err := r.source.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}

	result, err = r.orchestrator.Run(ctx, RunConfig{
		RunID:   GenerateRunID(),
		Symbols: symbols,
		Budget:  budget,
	})
	if err != nil {
		return result, err
	}

	if r.onComplete != nil {
		if err := r.onComplete(result); err != nil {
			// the scan itself succeeded; keep serving it
			r.logger.WithError(err).Error("Post-run hook failed")
		}
	}

	return result, nil
}
