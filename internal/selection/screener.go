package selection

import (
	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
)

// Screener implements the hard cut ahead of the shortlist sort
// ⭐ SSOT: shortlist eligibility is decided here only
type Screener struct {
	config ScreenerConfig
	logger *logger.Logger
}

// ScreenerConfig defines hard cut conditions
type ScreenerConfig struct {
	ExcludeNegative bool // drop tickers with any negative ratio
	RequirePrice    bool // drop tickers without a positive previous close
}

// NewScreener creates a new screener
func NewScreener(config ScreenerConfig, logger *logger.Logger) *Screener {
	return &Screener{
		config: config,
		logger: logger,
	}
}

// Screen splits records into eligible ones (input order) and dropped symbols with a reason
func (s *Screener) Screen(records []*contracts.TickerRecord) ([]*contracts.TickerRecord, map[string]string) {
	passed := make([]*contracts.TickerRecord, 0, len(records))
	dropped := make(map[string]string)

	for _, rec := range records {
		if reason := s.checkConditions(rec); reason != "" {
			dropped[rec.Symbol] = reason
			continue
		}
		passed = append(passed, rec)
	}

	s.logger.WithFields(map[string]interface{}{
		"input":   len(records),
		"passed":  len(passed),
		"dropped": len(dropped),
	}).Debug("Screening completed")

	return passed, dropped
}

// checkConditions checks if a record passes all conditions
// Returns empty string if passed, otherwise returns filter name
func (s *Screener) checkConditions(rec *contracts.TickerRecord) string {
	for _, kind := range contracts.AllMetrics {
		v, ok := rec.Metric(kind)
		if !ok {
			return "missing_" + string(kind)
		}
		if s.config.ExcludeNegative && v < 0 {
			return "negative_" + string(kind)
		}
	}

	if !rec.HasAllPercentiles() {
		return "missing_percentile"
	}

	if rec.RVScore == nil {
		return "missing_rv_score"
	}

	if s.config.RequirePrice && (!rec.Price.Valid || !rec.Price.Decimal.IsPositive()) {
		return "missing_price"
	}

	return ""
}

// DefaultScreenerConfig returns default configuration
func DefaultScreenerConfig() ScreenerConfig {
	return ScreenerConfig{
		ExcludeNegative: true,
		RequirePrice:    false,
	}
}
