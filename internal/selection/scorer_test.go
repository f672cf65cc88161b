package selection

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/internal/s2_signals"
	"github.com/wonny/rvscan/pkg/logger"
)

func fullRecord(symbol string, base float64) *contracts.TickerRecord {
	rec := contracts.NewRecord(symbol)
	rec.Price = decimal.NewNullDecimal(decimal.NewFromFloat(base * 10))
	for i, kind := range contracts.AllMetrics {
		rec.Metrics[kind] = base + float64(i)
	}
	return rec
}

func withPercentiles(symbol string, p ...float64) *contracts.TickerRecord {
	rec := fullRecord(symbol, 1)
	for i, kind := range contracts.AllMetrics {
		if i < len(p) {
			rec.Percentiles[kind] = p[i]
		}
	}
	return rec
}

func TestScorer_Score(t *testing.T) {
	s := NewScorer(DefaultConfig(), logger.Nop())

	complete := withPercentiles("A", 10, 20, 30, 40, 50)
	partial := withPercentiles("B", 10, 20, 30, 40)
	stale := withPercentiles("C", 10, 20, 30, 40)
	stale.RVScore = new(float64)

	s.Score([]*contracts.TickerRecord{complete, partial, stale})

	require.NotNil(t, complete.RVScore)
	assert.InDelta(t, 30.0, *complete.RVScore, 1e-9)
	assert.Nil(t, partial.RVScore)
	assert.Nil(t, stale.RVScore, "re-scoring clears a stale score")
}

func TestScorer_MissingPEExcluded(t *testing.T) {
	records := []*contracts.TickerRecord{
		fullRecord("AAA", 10),
		fullRecord("BBB", 20),
		fullRecord("CCC", 30),
		fullRecord("DDD", 40),
	}
	delete(records[2].Metrics, contracts.MetricPE)

	s2_signals.NewPercentileRanker(logger.Nop()).RankAll(records)
	shortlist, dropped := NewScorer(DefaultConfig(), logger.Nop()).Shortlist(records)

	assert.Nil(t, records[2].RVScore)
	assert.Contains(t, dropped, "CCC")
	require.Len(t, shortlist, 3)
	for _, rec := range shortlist {
		assert.NotEqual(t, "CCC", rec.Symbol)
		require.NotNil(t, rec.RVScore)
		assert.GreaterOrEqual(t, *rec.RVScore, 0.0)
		assert.LessOrEqual(t, *rec.RVScore, 100.0)
	}
	assert.Equal(t, "AAA", shortlist[0].Symbol, "cheapest first")
}

func TestScorer_NegativeMetricDropped(t *testing.T) {
	neg := withPercentiles("NEG", 1, 2, 3, 4, 5)
	neg.Metrics[contracts.MetricPE] = -12.5
	ok := withPercentiles("OK", 50, 50, 50, 50, 50)

	shortlist, dropped := NewScorer(DefaultConfig(), logger.Nop()).Shortlist([]*contracts.TickerRecord{neg, ok})

	require.Len(t, shortlist, 1)
	assert.Equal(t, "OK", shortlist[0].Symbol)
	assert.Equal(t, "negative_pe", dropped["NEG"])
}

func TestScorer_NegativeEVGPKeptWhenAllowed(t *testing.T) {
	neg := withPercentiles("NEG", 1, 2, 3, 4, 5)
	neg.Metrics[contracts.MetricEVGP] = -2

	cfg := DefaultConfig()
	cfg.Screener.ExcludeNegative = false
	shortlist, dropped := NewScorer(cfg, logger.Nop()).Shortlist([]*contracts.TickerRecord{neg})

	require.Len(t, shortlist, 1)
	assert.Equal(t, "NEG", shortlist[0].Symbol)
	assert.Empty(t, dropped)

	_, dropped = NewScorer(DefaultConfig(), logger.Nop()).Shortlist([]*contracts.TickerRecord{neg})
	assert.Equal(t, "negative_ev_gp", dropped["NEG"])
}

func TestScorer_StableAscending(t *testing.T) {
	records := []*contracts.TickerRecord{
		withPercentiles("HIGH", 90, 90, 90, 90, 90),
		withPercentiles("TIE1", 40, 40, 40, 40, 40),
		withPercentiles("LOW", 10, 10, 10, 10, 10),
		withPercentiles("TIE2", 40, 40, 40, 40, 40),
	}

	shortlist, _ := NewScorer(DefaultConfig(), logger.Nop()).Shortlist(records)

	symbols := make([]string, 0, len(shortlist))
	for _, rec := range shortlist {
		symbols = append(symbols, rec.Symbol)
	}
	assert.Equal(t, []string{"LOW", "TIE1", "TIE2", "HIGH"}, symbols)
}

func TestScorer_ShortlistCap(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"fewer than cap", 7, 7},
		{"exactly cap", 50, 50},
		{"more than cap", 120, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]*contracts.TickerRecord, 0, tt.n)
			for i := 0; i < tt.n; i++ {
				records = append(records, fullRecord(fmt.Sprintf("T%03d", i), float64(tt.n-i)))
			}
			s2_signals.NewPercentileRanker(logger.Nop()).RankAll(records)

			shortlist, dropped := NewScorer(DefaultConfig(), logger.Nop()).Shortlist(records)

			assert.Len(t, shortlist, tt.want)
			assert.Len(t, dropped, tt.n-tt.want)
			for i := 1; i < len(shortlist); i++ {
				assert.LessOrEqual(t, *shortlist[i-1].RVScore, *shortlist[i].RVScore)
			}
		})
	}
}

func TestNewScorer_DefaultsCap(t *testing.T) {
	s := NewScorer(Config{}, logger.Nop())
	assert.Equal(t, DefaultMaxPositions, s.config.MaxPositions)
}
