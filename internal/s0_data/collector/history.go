package collector

import (
	"context"
	"time"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
	"github.com/wonny/rvscan/pkg/redis"
)

// CachedHistory serves daily closes through the Redis cache
type CachedHistory struct {
	provider contracts.PriceHistoryProvider
	cache    *redis.Cache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewCachedHistory wraps provider; a nil cache passes every call through
func NewCachedHistory(provider contracts.PriceHistoryProvider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedHistory {
	return &CachedHistory{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		logger:   log.WithField("module", "history_cache"),
	}
}

// FetchDailyCloses implements contracts.PriceHistoryProvider
func (h *CachedHistory) FetchDailyCloses(ctx context.Context, symbol string, years int) ([]contracts.PriceBar, error) {
	if h.cache == nil {
		return h.provider.FetchDailyCloses(ctx, symbol, years)
	}

	key := redis.HistoryKey(symbol, years)

	var bars []contracts.PriceBar
	found, err := h.cache.Get(ctx, key, &bars)
	if err != nil {
		h.logger.WithError(err).Symbol(symbol).Debug("Cache read failed")
	}
	if found {
		return bars, nil
	}

	bars, err = h.provider.FetchDailyCloses(ctx, symbol, years)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Set(ctx, key, bars, h.ttl); err != nil {
		h.logger.WithError(err).Symbol(symbol).Debug("Cache write failed")
	}
	return bars, nil
}
