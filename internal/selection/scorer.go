package selection

import (
	"sort"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
)

// DefaultMaxPositions is the shortlist cap
const DefaultMaxPositions = 50

// Scorer combines the five ratio percentiles into the RV score and builds the shortlist
// ⭐ SSOT: RV score and shortlist ordering live here only
type Scorer struct {
	config   Config
	screener *Screener
	logger   *logger.Logger
}

// Config holds scorer configuration
type Config struct {
	MaxPositions int
	Screener     ScreenerConfig
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxPositions: DefaultMaxPositions,
		Screener:     DefaultScreenerConfig(),
	}
}

// NewScorer creates a new scorer
func NewScorer(config Config, log *logger.Logger) *Scorer {
	if config.MaxPositions <= 0 {
		config.MaxPositions = DefaultMaxPositions
	}

	log = log.Component("scorer")
	return &Scorer{
		config:   config,
		screener: NewScreener(config.Screener, log),
		logger:   log,
	}
}

// Score sets RVScore to the mean of the five percentiles, or nil when any is missing
func (s *Scorer) Score(records []*contracts.TickerRecord) {
	for _, rec := range records {
		rec.RVScore = rvScore(rec)
	}
}

func rvScore(rec *contracts.TickerRecord) *float64 {
	sum := 0.0
	for _, kind := range contracts.AllMetrics {
		p, ok := rec.Percentile(kind)
		if !ok {
			return nil
		}
		sum += p
	}

	score := sum / float64(len(contracts.AllMetrics))
	return &score
}

// Shortlist scores the records, drops incomplete ones, sorts ascending by RV score
// (stable, so ties keep input order) and keeps at most MaxPositions.
// The dropped map holds the reason for every record left out.
func (s *Scorer) Shortlist(records []*contracts.TickerRecord) ([]*contracts.TickerRecord, map[string]string) {
	s.Score(records)

	eligible, dropped := s.screener.Screen(records)

	sort.SliceStable(eligible, func(i, j int) bool {
		return *eligible[i].RVScore < *eligible[j].RVScore
	})

	shortlist := eligible
	if len(shortlist) > s.config.MaxPositions {
		for _, rec := range shortlist[s.config.MaxPositions:] {
			dropped[rec.Symbol] = "below_cut"
		}
		shortlist = shortlist[:s.config.MaxPositions]
	}

	fields := map[string]interface{}{
		"scored":    len(records),
		"eligible":  len(eligible),
		"shortlist": len(shortlist),
	}
	if len(shortlist) > 0 {
		fields["top_symbol"] = shortlist[0].Symbol
		fields["top_score"] = *shortlist[0].RVScore
	}
	s.logger.WithFields(fields).Info("Shortlist completed")

	return shortlist, dropped
}
