package contracts

import (
	"context"
)

// FundamentalsProvider returns the raw valuation fields of one symbol
// ⭐ SSOT: fundamentals collaborator interface
type FundamentalsProvider interface {
	FetchFundamentals(ctx context.Context, symbol string) (RawFundamentals, error)
}

// PriceHistoryProvider returns a daily close series covering the lookback
// ⭐ SSOT: historical price collaborator interface
type PriceHistoryProvider interface {
	FetchDailyCloses(ctx context.Context, symbol string, years int) ([]PriceBar, error)
}

// UniverseSource returns the ordered ticker universe
type UniverseSource interface {
	Symbols(ctx context.Context) ([]string, error)
}
