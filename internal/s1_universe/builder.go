package s1_universe

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
)

// symbolPattern accepts exchange tickers including class shares (BRK-B, BF.B)
var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,5}([.\-][A-Z0-9]{1,2})?$`)

// Builder constructs the ticker universe of one run
type Builder struct {
	config Config
	logger *logger.Logger
}

// Config holds universe options
type Config struct {
	Limit int // keep only the first Limit symbols, 0 = all
}

// NewBuilder creates a new Universe Builder
func NewBuilder(config Config, log *logger.Logger) *Builder {
	return &Builder{
		config: config,
		logger: log.Component("universe"),
	}
}

// Build reads the source and drops malformed symbols
// ⭐ SSOT: source → scan universe
func (b *Builder) Build(ctx context.Context, source contracts.UniverseSource) (*contracts.Universe, error) {
	symbols, err := source.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}

	return b.FromSymbols(symbols), nil
}

// FromSymbols builds a universe from an in-memory symbol list
func (b *Builder) FromSymbols(symbols []string) *contracts.Universe {
	universe := &contracts.Universe{
		Date:       time.Now(),
		Symbols:    make([]string, 0, len(symbols)),
		Excluded:   make(map[string]string),
		TotalCount: len(symbols),
	}

	for _, symbol := range symbols {
		if reason := b.checkExclusion(universe, symbol); reason != "" {
			universe.Excluded[symbol] = reason
			continue
		}
		universe.Symbols = append(universe.Symbols, symbol)
	}

	b.logger.WithFields(map[string]interface{}{
		"total":    universe.TotalCount,
		"symbols":  universe.Count(),
		"excluded": len(universe.Excluded),
	}).Info("Universe built")

	return universe
}

// checkExclusion returns the reason a symbol is left out, or ""
func (b *Builder) checkExclusion(universe *contracts.Universe, symbol string) string {
	if !symbolPattern.MatchString(symbol) {
		return "malformed symbol"
	}

	if universe.Contains(symbol) {
		return "duplicate"
	}

	if b.config.Limit > 0 && universe.Count() >= b.config.Limit {
		return fmt.Sprintf("over limit (%d)", b.config.Limit)
	}

	return ""
}
