package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/internal/forecast"
	"github.com/wonny/rvscan/internal/portfolio"
	"github.com/wonny/rvscan/internal/s0_data/collector"
	"github.com/wonny/rvscan/internal/s0_data/quality"
	"github.com/wonny/rvscan/internal/s1_universe"
	"github.com/wonny/rvscan/internal/s2_signals"
	"github.com/wonny/rvscan/internal/selection"
	"github.com/wonny/rvscan/pkg/logger"
)

// Orchestrator coordinates the scan pipeline
// ⭐ SSOT: pipeline coordination lives here only
type Orchestrator struct {
	// Stage components
	universeBuilder *s1_universe.Builder
	collector       *collector.Collector
	qualityGate     *quality.QualityGate
	ranker          *s2_signals.PercentileRanker
	scorer          *selection.Scorer
	sizer           *portfolio.Sizer
	history         contracts.PriceHistoryProvider
	generator       *forecast.Generator

	historyYears int
	logger       *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID   string
	Symbols []string
	Budget  decimal.Decimal // operator portfolio size
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           string                          `json:"run_id"`
	StartedAt       time.Time                       `json:"started_at"`
	Duration        time.Duration                   `json:"duration"`
	Success         bool                            `json:"success"`
	Error           string                          `json:"error,omitempty"`
	CompletedStages []string                        `json:"completed_stages"`
	Stages          []contracts.PipelineResult      `json:"stages"`
	Universe        *contracts.Universe             `json:"universe"`
	Quality         *contracts.DataQualitySnapshot  `json:"quality"`
	Collected       int                             `json:"collected"`
	Dropped         map[string]string               `json:"dropped"`  // left out of the shortlist
	Excluded        map[string]string               `json:"excluded"` // shortlisted, no price band
	Shortlist       []*contracts.TickerRecord       `json:"shortlist"`
	PositionSize    decimal.Decimal                 `json:"position_size"`
	Allocation      *contracts.Allocation           `json:"allocation"`
	Bands           map[string]*contracts.PriceBand `json:"bands"`
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	universeBuilder *s1_universe.Builder,
	collector *collector.Collector,
	qualityGate *quality.QualityGate,
	ranker *s2_signals.PercentileRanker,
	scorer *selection.Scorer,
	sizer *portfolio.Sizer,
	history contracts.PriceHistoryProvider,
	generator *forecast.Generator,
	historyYears int,
	logger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		universeBuilder: universeBuilder,
		collector:       collector,
		qualityGate:     qualityGate,
		ranker:          ranker,
		scorer:          scorer,
		sizer:           sizer,
		history:         history,
		generator:       generator,
		historyYears:    historyYears,
		logger:          logger.Component("brain"),
	}
}

// Run executes the pipeline. Every stage finishes for the whole population
// before the next starts: Universe → Normalize → Rank → Score → Size → Signal.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	if config.RunID == "" {
		config.RunID = GenerateRunID()
	}

	result := &RunResult{
		RunID:           config.RunID,
		StartedAt:       time.Now(),
		CompletedStages: make([]string, 0, len(contracts.AllStages())),
		Dropped:         make(map[string]string),
		Excluded:        make(map[string]string),
		Bands:           make(map[string]*contracts.PriceBand),
	}

	fail := func(stage contracts.Stage, err error) (*RunResult, error) {
		err = fmt.Errorf("%s failed: %w", stage.ShortName(), err)
		result.Error = err.Error()
		result.Duration = time.Since(result.StartedAt)
		o.logger.WithError(err).Run(config.RunID).Error("Pipeline run failed")
		return result, err
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":  config.RunID,
		"symbols": len(config.Symbols),
		"budget":  config.Budget.String(),
	}).Info("Starting pipeline run")

	// Budget is validated by the sizer; failing here saves a full fetch
	if !config.Budget.IsPositive() {
		return fail(contracts.StageSize, fmt.Errorf("%w: portfolio size must be positive, got %s",
			contracts.ErrInvalidInput, config.Budget))
	}

	// S0: Universe
	stageStart := time.Now()
	result.Universe = o.universeBuilder.FromSymbols(config.Symbols)
	if result.Universe.Count() == 0 {
		return fail(contracts.StageUniverse, fmt.Errorf("%w: empty universe", contracts.ErrInvalidInput))
	}
	o.completeStage(result, contracts.StageUniverse, stageStart, result.Universe.TotalCount, result.Universe.Count())

	// S1: Normalize
	stageStart = time.Now()
	records, _, err := o.collector.Collect(ctx, result.Universe.Symbols)
	if err != nil {
		return fail(contracts.StageNormalize, err)
	}
	result.Collected = len(records)
	result.Quality = o.qualityGate.Check(records, result.StartedAt)
	if !result.Quality.Passed {
		o.logger.WithFields(map[string]interface{}{
			"quality_score": result.Quality.QualityScore,
			"coverage":      result.Quality.Coverage,
		}).Warn("Fundamentals coverage below threshold")
	}
	o.completeStage(result, contracts.StageNormalize, stageStart, result.Universe.Count(), len(records))

	// S2: Rank
	stageStart = time.Now()
	o.ranker.RankAll(records)
	o.completeStage(result, contracts.StageRank, stageStart, len(records), len(records))

	// S3: Score
	stageStart = time.Now()
	shortlist, dropped := o.scorer.Shortlist(records)
	result.Dropped = dropped
	if len(shortlist) == 0 {
		return fail(contracts.StageScore, fmt.Errorf("%w: no ticker qualifies for the shortlist", contracts.ErrInvalidInput))
	}
	o.completeStage(result, contracts.StageScore, stageStart, len(records), len(shortlist))

	// S4: Size
	stageStart = time.Now()
	allocation, err := o.sizer.Allocate(config.Budget, shortlist)
	if err != nil {
		return fail(contracts.StageSize, err)
	}
	result.PositionSize = allocation.PositionSize
	o.completeStage(result, contracts.StageSize, stageStart, len(shortlist), allocation.Count())

	// S5: Signal
	stageStart = time.Now()
	final, err := o.runSignals(ctx, shortlist, result)
	if err != nil {
		return fail(contracts.StageSignal, err)
	}
	result.Shortlist = final
	result.Allocation = keepPositions(allocation, final)
	o.completeStage(result, contracts.StageSignal, stageStart, len(shortlist), len(final))

	result.Success = true
	result.Duration = time.Since(result.StartedAt)

	o.logger.WithFields(map[string]interface{}{
		"run_id":    config.RunID,
		"duration":  result.Duration.Seconds(),
		"shortlist": len(result.Shortlist),
		"excluded":  len(result.Excluded),
	}).Info("Pipeline run completed successfully")

	return result, nil
}

// runSignals annotates every shortlisted record with its price band.
// A ticker whose history cannot be fetched or fitted is excluded, never fatal.
func (o *Orchestrator) runSignals(ctx context.Context, shortlist []*contracts.TickerRecord, result *RunResult) ([]*contracts.TickerRecord, error) {
	final := make([]*contracts.TickerRecord, 0, len(shortlist))

	for _, rec := range shortlist {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bars, err := o.history.FetchDailyCloses(ctx, rec.Symbol, o.historyYears)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Excluded[rec.Symbol] = fmt.Sprintf("history: %v", err)
			o.logger.WithError(err).Symbol(rec.Symbol).Warn("Failed to fetch price history")
			continue
		}

		band, err := o.generator.Annotate(rec, bars)
		if err != nil {
			result.Excluded[rec.Symbol] = err.Error()
			o.logger.WithError(err).Symbol(rec.Symbol).Warn("No price band")
			continue
		}

		result.Bands[rec.Symbol] = band
		final = append(final, rec)
	}

	return final, nil
}

func (o *Orchestrator) completeStage(result *RunResult, stage contracts.Stage, start time.Time, in, out int) {
	pr := contracts.PipelineResult{
		Stage:       stage,
		Success:     true,
		InputCount:  in,
		OutputCount: out,
		Duration:    time.Since(start).Milliseconds(),
	}
	result.Stages = append(result.Stages, pr)
	result.CompletedStages = append(result.CompletedStages, stage.ShortName()+":"+stage.Description())

	o.logger.WithFields(map[string]interface{}{
		"stage":  stage.String(),
		"input":  in,
		"output": out,
	}).Info(stage.ShortName() + " completed")
}

// keepPositions drops positions of tickers excluded after sizing
func keepPositions(allocation *contracts.Allocation, final []*contracts.TickerRecord) *contracts.Allocation {
	kept := &contracts.Allocation{
		Budget:       allocation.Budget,
		PositionSize: allocation.PositionSize,
		Positions:    make([]contracts.Position, 0, len(final)),
	}
	for _, rec := range final {
		if pos, ok := allocation.GetPosition(rec.Symbol); ok {
			kept.Positions = append(kept.Positions, *pos)
		}
	}
	return kept
}

// GenerateRunID generates a unique run ID
func GenerateRunID() string {
	return fmt.Sprintf("run_%s", time.Now().Format("20060102_150405"))
}
