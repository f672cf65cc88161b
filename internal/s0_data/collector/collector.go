package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/internal/s0_data"
	"github.com/wonny/rvscan/internal/s1_universe"
	"github.com/wonny/rvscan/pkg/logger"
	"github.com/wonny/rvscan/pkg/redis"
)

// Collector fetches raw fundamentals for a universe and normalizes them
// ⭐ SSOT: fundamentals collection is orchestrated here only
type Collector struct {
	provider contracts.FundamentalsProvider
	cache    *redis.Cache // nil = no cache
	config   Config
	logger   *logger.Logger
}

// Config holds collector configuration
type Config struct {
	BatchSize  int           // symbols per batch
	BatchPause time.Duration // pause between batches
	CacheTTL   time.Duration
}

// DefaultConfig returns the provider-friendly pacing
func DefaultConfig() Config {
	return Config{
		BatchSize:  s1_universe.DefaultBatchSize,
		BatchPause: 10 * time.Second,
		CacheTTL:   redis.TTLDaily,
	}
}

// NewCollector creates a new Collector instance
func NewCollector(provider contracts.FundamentalsProvider, cache *redis.Cache, cfg Config, log *logger.Logger) *Collector {
	return &Collector{
		provider: provider,
		cache:    cache,
		config:   cfg,
		logger:   log.WithField("module", "collector"),
	}
}

// FetchResult represents the outcome for one symbol
type FetchResult struct {
	Symbol string
	Cached bool
	Error  error
}

// Collect walks the symbols batch by batch, one request at a time.
// Failed symbols are logged and omitted; the returned records keep input order.
func (c *Collector) Collect(ctx context.Context, symbols []string) ([]*contracts.TickerRecord, []FetchResult, error) {
	batches := s1_universe.Batch(symbols, c.config.BatchSize)

	c.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"batches": len(batches),
	}).Info("Starting fundamentals collection")

	records := make([]*contracts.TickerRecord, 0, len(symbols))
	results := make([]FetchResult, 0, len(symbols))
	failCount := 0

	for i, batch := range batches {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				return records, results, err
			}
		}

		for _, symbol := range batch {
			if err := ctx.Err(); err != nil {
				return records, results, err
			}

			raw, cached, err := c.fetch(ctx, symbol)
			results = append(results, FetchResult{Symbol: symbol, Cached: cached, Error: err})
			if err != nil {
				failCount++
				c.logger.WithError(err).Symbol(symbol).Warn("Failed to fetch fundamentals")
				continue
			}

			records = append(records, s0_data.NewTickerRecord(symbol, raw))
		}

		c.logger.WithFields(map[string]interface{}{
			"batch":     i + 1,
			"of":        len(batches),
			"collected": len(records),
		}).Debug("Batch completed")
	}

	c.logger.WithFields(map[string]interface{}{
		"success": len(records),
		"failed":  failCount,
		"total":   len(symbols),
	}).Info("Fundamentals collection completed")

	return records, results, nil
}

// fetch consults the cache before the provider; cache failures only cost a request
func (c *Collector) fetch(ctx context.Context, symbol string) (contracts.RawFundamentals, bool, error) {
	key := redis.FundamentalsKey(symbol)

	if c.cache != nil {
		var raw contracts.RawFundamentals
		found, err := c.cache.Get(ctx, key, &raw)
		if err != nil {
			c.logger.WithError(err).Symbol(symbol).Debug("Cache read failed")
		}
		if found {
			return raw, true, nil
		}
	}

	raw, err := c.provider.FetchFundamentals(ctx, symbol)
	if err != nil {
		return nil, false, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, raw, c.config.CacheTTL); err != nil {
			c.logger.WithError(err).Symbol(symbol).Debug("Cache write failed")
		}
	}

	return raw, false, nil
}

func (c *Collector) pause(ctx context.Context) error {
	if c.config.BatchPause <= 0 {
		return nil
	}

	c.logger.WithField("pause", c.config.BatchPause.String()).Debug("Pausing between batches")

	timer := time.NewTimer(c.config.BatchPause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
