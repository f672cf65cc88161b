package forecast

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/contracts"
)

// Config holds price band parameters
type Config struct {
	TrimFraction    float64 // cut from each tail before fitting
	BandWidth       float64 // band half-width in standard deviations
	MinObservations int     // minimum weekly changes left after trimming
}

// DefaultConfig returns the ±2σ band on a 10% trimmed sample
func DefaultConfig() Config {
	return Config{
		TrimFraction:    0.1,
		BandWidth:       2.0,
		MinObservations: 20,
	}
}

// Generator turns a daily close series into preferred buy/sell prices
// ⭐ SSOT: price band computation lives here only
type Generator struct {
	config Config
	log    zerolog.Logger
}

// NewGenerator creates a generator with the default config
func NewGenerator(log zerolog.Logger) *Generator {
	return NewGeneratorWithConfig(DefaultConfig(), log)
}

// NewGeneratorWithConfig creates a generator with a custom config
func NewGeneratorWithConfig(config Config, log zerolog.Logger) *Generator {
	return &Generator{
		config: config,
		log:    log.With().Str("component", "forecast.generator").Logger(),
	}
}

// Generate fits the trimmed weekly percent changes and derives the band
func (g *Generator) Generate(symbol string, bars []contracts.PriceBar) (*contracts.PriceBand, error) {
	weeks := ResampleWeekly(bars)
	changes := PercentChanges(weeks)
	trimmed := Trim(changes, g.config.TrimFraction)

	if len(trimmed) < g.config.MinObservations {
		return nil, fmt.Errorf("%w: %s has %d weekly observations after trimming, need %d",
			contracts.ErrInsufficientData, symbol, len(trimmed), g.config.MinObservations)
	}

	mu, sigma := FitNormal(trimmed)
	lower := mu - g.config.BandWidth*sigma
	upper := mu + g.config.BandWidth*sigma
	base := BasePrice(weeks)

	band := &contracts.PriceBand{
		Mean:          mu,
		StdDev:        sigma,
		Lower:         lower,
		Upper:         upper,
		BasePrice:     base,
		Weeks:         len(changes),
		Trimmed:       len(trimmed),
		PreferredBuy:  decimal.NewFromFloat(base * (1 + lower/100)).Round(2),
		PreferredSell: decimal.NewFromFloat(base * (1 + upper/100)).Round(2),
	}

	g.log.Debug().
		Str("symbol", symbol).
		Int("weeks", band.Weeks).
		Int("trimmed", band.Trimmed).
		Float64("mu", mu).
		Float64("sigma", sigma).
		Float64("base_price", base).
		Str("buy", band.PreferredBuy.StringFixed(2)).
		Str("sell", band.PreferredSell.StringFixed(2)).
		Msg("price band fitted")

	return band, nil
}

// Annotate writes the band thresholds onto the record
func (g *Generator) Annotate(rec *contracts.TickerRecord, bars []contracts.PriceBar) (*contracts.PriceBand, error) {
	band, err := g.Generate(rec.Symbol, bars)
	if err != nil {
		return nil, err
	}

	rec.PreferredBuy = decimal.NewNullDecimal(band.PreferredBuy)
	rec.PreferredSell = decimal.NewNullDecimal(band.PreferredSell)
	return band, nil
}
