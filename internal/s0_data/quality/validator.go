package quality

import (
	"time"

	"github.com/wonny/rvscan/internal/contracts"
)

// QualityGate measures field coverage of the collected universe
type QualityGate struct {
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinPriceCoverage  float64 // previous close, needed for sizing
	MinMetricCoverage float64 // each valuation ratio
}

// DefaultConfig returns thresholds that flag a mostly failed fetch
func DefaultConfig() Config {
	return Config{
		MinPriceCoverage:  0.95,
		MinMetricCoverage: 0.70,
	}
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config Config) *QualityGate {
	return &QualityGate{config: config}
}

// Check summarises coverage of the normalized records. It never rejects
// records; the orchestrator decides what a failed gate means.
func (g *QualityGate) Check(records []*contracts.TickerRecord, date time.Time) *contracts.DataQualitySnapshot {
	snapshot := &contracts.DataQualitySnapshot{
		Date:        date,
		TotalStocks: len(records),
		Coverage:    make(map[string]float64, len(contracts.AllMetrics)+1),
	}

	if len(records) == 0 {
		return snapshot
	}

	priced := 0
	present := make(map[contracts.MetricKind]int, len(contracts.AllMetrics))
	for _, rec := range records {
		if rec.Price.Valid {
			priced++
		}
		for _, kind := range contracts.AllMetrics {
			if _, ok := rec.Metric(kind); ok {
				present[kind]++
			}
		}
		if rec.Price.Valid && rec.HasAllMetrics() {
			snapshot.ValidStocks++
		}
	}

	total := float64(len(records))
	snapshot.Coverage["price"] = float64(priced) / total
	for _, kind := range contracts.AllMetrics {
		snapshot.Coverage[string(kind)] = float64(present[kind]) / total
	}

	snapshot.QualityScore = g.calculateScore(snapshot.Coverage)
	snapshot.Passed = g.passes(snapshot.Coverage)

	return snapshot
}

// calculateScore weights price coverage as heavily as all ratios together
func (g *QualityGate) calculateScore(coverage map[string]float64) float64 {
	metricShare := 0.5 / float64(len(contracts.AllMetrics))

	score := coverage["price"] * 0.5
	for _, kind := range contracts.AllMetrics {
		score += coverage[string(kind)] * metricShare
	}

	return score
}

func (g *QualityGate) passes(coverage map[string]float64) bool {
	if coverage["price"] < g.config.MinPriceCoverage {
		return false
	}
	for _, kind := range contracts.AllMetrics {
		if coverage[string(kind)] < g.config.MinMetricCoverage {
			return false
		}
	}
	return true
}
