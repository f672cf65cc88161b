package s2_signals

import (
	"math"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
)

// PercentileRanker ranks every ratio within the population that reports it
// ⭐ SSOT: valuation percentiles are computed here only
type PercentileRanker struct {
	logger *logger.Logger
}

// NewPercentileRanker creates a new percentile ranker
func NewPercentileRanker(log *logger.Logger) *PercentileRanker {
	return &PercentileRanker{logger: log.Component("percentile")}
}

// PercentileOfScore returns the share of population at or below score, 0–100.
// Ties count half: (less + 0.5*equal) / n * 100.
func PercentileOfScore(population []float64, score float64) float64 {
	if len(population) == 0 {
		return 0
	}

	less, equal := 0, 0
	for _, v := range population {
		switch {
		case v < score:
			less++
		case v == score:
			equal++
		}
	}

	return (float64(less) + 0.5*float64(equal)) / float64(len(population)) * 100
}

// RankMetric sets Percentiles[kind] on every record holding kind, and clears
// it on records without it. Records missing kind are not in the denominator.
func (r *PercentileRanker) RankMetric(records []*contracts.TickerRecord, kind contracts.MetricKind) {
	population := make([]float64, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.Metric(kind); ok {
			population = append(population, v)
		}
	}

	for _, rec := range records {
		if rec.Percentiles == nil {
			rec.Percentiles = make(map[contracts.MetricKind]float64, len(contracts.AllMetrics))
		}

		v, ok := rec.Metric(kind)
		if !ok {
			delete(rec.Percentiles, kind)
			continue
		}
		rec.Percentiles[kind] = round2(PercentileOfScore(population, v))
	}

	r.logger.WithFields(map[string]interface{}{
		"metric":     string(kind),
		"population": len(population),
		"missing":    len(records) - len(population),
	}).Debug("Ranked metric")
}

// RankAll ranks every ratio independently
func (r *PercentileRanker) RankAll(records []*contracts.TickerRecord) {
	for _, kind := range contracts.AllMetrics {
		r.RankMetric(records, kind)
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
