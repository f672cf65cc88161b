package contracts

import "time"

// DataQualitySnapshot summarises how complete the collected fundamentals are
// ⭐ SSOT: collection → scoring data quality summary
type DataQualitySnapshot struct {
	Date         time.Time          `json:"date"`
	TotalStocks  int                `json:"total_stocks"`
	ValidStocks  int                `json:"valid_stocks"`  // price and all five ratios present
	Coverage     map[string]float64 `json:"coverage"`      // per field, 0.0 ~ 1.0
	QualityScore float64            `json:"quality_score"` // 0.0 ~ 1.0
	Passed       bool               `json:"passed"`
}

// IsValid checks if the data quality snapshot meets minimum requirements
func (d *DataQualitySnapshot) IsValid() bool {
	return d.QualityScore >= 0.7 && d.ValidStocks > 0
}

// CoverageRate returns the average coverage rate across all fields
func (d *DataQualitySnapshot) CoverageRate() float64 {
	if len(d.Coverage) == 0 {
		return 0.0
	}

	total := 0.0
	for _, rate := range d.Coverage {
		total += rate
	}

	return total / float64(len(d.Coverage))
}
