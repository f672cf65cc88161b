package strategyconfig

import (
	"fmt"
	"time"
)

const (
	maxShortlistSize = 500
	maxHistoryYears  = 30
)

// ValidationError is a strategy value that cannot be run
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a legal but suspicious value
type Warning struct {
	Code    string
	Message string
}

// Validate checks the hard constraints
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return ValidationError{"meta.timezone", err.Error()}
		}
	}

	if s := cfg.Selection.ShortlistSize; s < 0 || s > maxShortlistSize {
		return ValidationError{"selection.shortlist_size", fmt.Sprintf("must be in [0, %d]", maxShortlistSize)}
	}

	b := cfg.Bands
	if b.TrimFraction < 0 || b.TrimFraction >= 0.5 {
		return ValidationError{"bands.trim_fraction", "must be in [0, 0.5)"}
	}
	if b.BandWidth < 0 {
		return ValidationError{"bands.band_width", "must be >= 0"}
	}
	if b.MinWeeks != 0 && b.MinWeeks < 2 {
		return ValidationError{"bands.min_weeks", "must be 0 or at least 2"}
	}
	if b.HistoryYears < 0 || b.HistoryYears > maxHistoryYears {
		return ValidationError{"bands.history_years", fmt.Sprintf("must be in [0, %d]", maxHistoryYears)}
	}

	return nil
}

// Warn reports values that run but are unlikely to be intended
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.Bands.BandWidth > 3 {
		warnings = append(warnings, Warning{
			Code:    "WIDE_BAND",
			Message: fmt.Sprintf("band_width %.1f puts the preferred prices beyond 3 standard deviations", cfg.Bands.BandWidth),
		})
	}

	// ~52 weeks per year before trimming
	if b := cfg.Bands; b.HistoryYears > 0 && b.MinWeeks > 0 {
		kept := int(float64(b.HistoryYears*52) * (1 - 2*b.TrimFraction))
		if kept < b.MinWeeks {
			warnings = append(warnings, Warning{
				Code:    "SHORT_HISTORY",
				Message: fmt.Sprintf("%d years keep about %d weeks after trimming, below min_weeks %d", b.HistoryYears, kept, b.MinWeeks),
			})
		}
	}

	if cfg.Selection.ExcludeNegative != nil && !*cfg.Selection.ExcludeNegative {
		warnings = append(warnings, Warning{
			Code:    "NEGATIVE_RATIOS",
			Message: "negative ratios rank as the cheapest names when kept",
		})
	}

	return warnings
}
