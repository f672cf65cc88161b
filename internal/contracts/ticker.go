package contracts

import (
	"github.com/shopspring/decimal"
)

// MetricKind identifies one valuation ratio
type MetricKind string

const (
	MetricPE       MetricKind = "pe"
	MetricPB       MetricKind = "pb"
	MetricPS       MetricKind = "ps"
	MetricEVEBITDA MetricKind = "ev_ebitda"
	MetricEVGP     MetricKind = "ev_gp"
)

// AllMetrics lists every valuation ratio in report order
var AllMetrics = []MetricKind{MetricPE, MetricPB, MetricPS, MetricEVEBITDA, MetricEVGP}

// Label returns the report column heading of the ratio
func (m MetricKind) Label() string {
	switch m {
	case MetricPE:
		return "Price-to-Earning Ratio"
	case MetricPB:
		return "Price-to-Book Ratio"
	case MetricPS:
		return "Price-to-Sales Ratio"
	case MetricEVEBITDA:
		return "EV/EBITDA"
	case MetricEVGP:
		return "EV/GP"
	default:
		return string(m)
	}
}

// PercentileLabel returns the report column heading of the ratio's percentile
func (m MetricKind) PercentileLabel() string {
	switch m {
	case MetricPE:
		return "PE Percentile"
	case MetricPB:
		return "PB Percentile"
	case MetricPS:
		return "PS Percentile"
	default:
		return m.Label() + " Percentile"
	}
}

// TickerRecord is one equity flowing through the pipeline.
// Missing values are absent map keys, nil pointers or invalid NullDecimals.
// ⭐ SSOT: every stage reads and enriches this record in place
type TickerRecord struct {
	Symbol string              `json:"symbol"`
	Price  decimal.NullDecimal `json:"price"`

	Metrics     map[MetricKind]float64 `json:"metrics"`
	Percentiles map[MetricKind]float64 `json:"percentiles"`
	RVScore     *float64               `json:"rv_score"`

	PreferredBuy  decimal.NullDecimal `json:"preferred_buy"`
	PreferredSell decimal.NullDecimal `json:"preferred_sell"`
	SharesToBuy   int64               `json:"shares_to_buy"`
}

// NewRecord creates an empty record for symbol
func NewRecord(symbol string) *TickerRecord {
	return &TickerRecord{
		Symbol:      symbol,
		Metrics:     make(map[MetricKind]float64, len(AllMetrics)),
		Percentiles: make(map[MetricKind]float64, len(AllMetrics)),
	}
}

// Metric returns the ratio value and whether it is present
func (t *TickerRecord) Metric(kind MetricKind) (float64, bool) {
	v, ok := t.Metrics[kind]
	return v, ok
}

// Percentile returns the ratio percentile and whether it is present
func (t *TickerRecord) Percentile(kind MetricKind) (float64, bool) {
	v, ok := t.Percentiles[kind]
	return v, ok
}

// HasAllMetrics reports whether every ratio is present
func (t *TickerRecord) HasAllMetrics() bool {
	for _, kind := range AllMetrics {
		if _, ok := t.Metrics[kind]; !ok {
			return false
		}
	}
	return true
}

// HasAllPercentiles reports whether every ratio percentile is present
func (t *TickerRecord) HasAllPercentiles() bool {
	for _, kind := range AllMetrics {
		if _, ok := t.Percentiles[kind]; !ok {
			return false
		}
	}
	return true
}

// HasPriceBand reports whether the buy/sell thresholds are set
func (t *TickerRecord) HasPriceBand() bool {
	return t.PreferredBuy.Valid && t.PreferredSell.Valid
}
