package commands

import (
	"fmt"
	"time"

	"github.com/wonny/rvscan/internal/brain"
	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/internal/external/wikipedia"
	"github.com/wonny/rvscan/internal/external/yahoo"
	"github.com/wonny/rvscan/internal/forecast"
	"github.com/wonny/rvscan/internal/portfolio"
	"github.com/wonny/rvscan/internal/s0_data/collector"
	"github.com/wonny/rvscan/internal/s0_data/quality"
	"github.com/wonny/rvscan/internal/s1_universe"
	"github.com/wonny/rvscan/internal/s2_signals"
	"github.com/wonny/rvscan/internal/selection"
	"github.com/wonny/rvscan/internal/strategyconfig"
	"github.com/wonny/rvscan/pkg/config"
	"github.com/wonny/rvscan/pkg/httputil"
	"github.com/wonny/rvscan/pkg/logger"
	"github.com/wonny/rvscan/pkg/redis"
)

// app holds the wired pipeline shared by every command
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	redis  *redis.Client
	runner *brain.Runner
}

// scanOptions narrows a run to a universe file and a symbol limit
type scanOptions struct {
	UniversePath string
	Limit        int
}

// newApp builds the pipeline from configuration
func newApp(cfg *config.Config, log *logger.Logger, opts scanOptions) (*app, error) {
	// 0. Strategy file overrides
	scorerCfg := selection.DefaultConfig()
	if cfg.StrategyFile != "" {
		strategy, err := loadStrategy(cfg, log)
		if err != nil {
			return nil, err
		}
		scorerCfg.Screener = strategy.Screener(scorerCfg.Screener)
	}
	scorerCfg.MaxPositions = cfg.Strategy.ShortlistSize

	// 1. Redis cache (no-op when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 2. Yahoo client: shared cookie session, rate limited
	yahooHTTP := httputil.New(cfg, log).
		WithRetry(2, time.Second).
		WithRateLimit(cfg.Yahoo.RateLimit, 1).
		WithCookieJar()
	yahooClient := yahoo.NewClient(yahooHTTP, cfg.Yahoo, log)

	// 3. Collector and cached price history
	collectorCfg := collector.Config{
		BatchSize:  cfg.Fetch.BatchSize,
		BatchPause: cfg.Fetch.BatchPause,
		CacheTTL:   cfg.Redis.CacheTTL,
	}
	col := collector.NewCollector(yahooClient, redis.NewCache(redisClient, "fundamentals"), collectorCfg, log)
	history := collector.NewCachedHistory(yahooClient, redis.NewCache(redisClient, "history"), redis.TTLDaily, log)

	// 4. Pipeline stages
	generator := forecast.NewGeneratorWithConfig(forecast.Config{
		TrimFraction:    cfg.Strategy.TrimFraction,
		BandWidth:       cfg.Strategy.BandWidth,
		MinObservations: cfg.Strategy.MinObservations,
	}, log.Zerolog())

	orchestrator := brain.NewOrchestrator(
		s1_universe.NewBuilder(s1_universe.Config{Limit: opts.Limit}, log),
		col,
		quality.NewQualityGate(quality.DefaultConfig()),
		s2_signals.NewPercentileRanker(log),
		selection.NewScorer(scorerCfg, log),
		portfolio.NewSizer(log),
		history,
		generator,
		cfg.Fetch.HistoryYears,
		log,
	)

	// 5. Runner reading the universe file on every run
	path := opts.UniversePath
	if path == "" {
		path = cfg.UniverseFile
	}
	var source contracts.UniverseSource = s1_universe.FileSource{Path: path}

	return &app{
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
		runner: brain.NewRunner(orchestrator, source, log),
	}, nil
}

// loadStrategy reads STRATEGY_FILE and applies it to cfg
func loadStrategy(cfg *config.Config, log *logger.Logger) (*strategyconfig.Config, error) {
	strategy, err := strategyconfig.Load(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", cfg.StrategyFile, err)
	}
	strategy.Apply(cfg)

	snapshot, err := strategyconfig.NewSnapshot(strategy)
	if err != nil {
		return nil, err
	}
	log.WithFields(map[string]interface{}{
		"strategy_id": snapshot.StrategyID,
		"version":     snapshot.Version,
		"hash":        snapshot.ConfigHash[:12],
	}).Info("Strategy loaded")

	for _, w := range strategyconfig.Warn(strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}
	return strategy, nil
}

// Close releases the redis connection
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}

// newWikipediaClient builds the constituents scraper
func newWikipediaClient(cfg *config.Config, log *logger.Logger) *wikipedia.Client {
	return wikipedia.NewClient(httputil.New(cfg, log).WithRetry(2, time.Second), log)
}
