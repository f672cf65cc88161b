package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
)

// Sizer splits a budget equally across the shortlist
// ⭐ SSOT: share counts are computed here only
type Sizer struct {
	logger *logger.Logger
}

// NewSizer creates a new position sizer
func NewSizer(log *logger.Logger) *Sizer {
	return &Sizer{logger: log.Component("sizer")}
}

// Size sets SharesToBuy = floor((budget / N) / price) on every shortlisted record
// and returns budget / N. Nothing is written unless every input is valid.
func (s *Sizer) Size(budget decimal.Decimal, shortlist []*contracts.TickerRecord) (decimal.Decimal, error) {
	if !budget.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: portfolio size must be positive, got %s", contracts.ErrInvalidInput, budget)
	}
	if len(shortlist) == 0 {
		return decimal.Zero, fmt.Errorf("%w: empty shortlist", contracts.ErrInvalidInput)
	}
	for _, rec := range shortlist {
		if !rec.Price.Valid || !rec.Price.Decimal.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: %s has no price", contracts.ErrInvalidInput, rec.Symbol)
		}
	}

	n := decimal.NewFromInt(int64(len(shortlist)))
	positionSize := budget.Div(n)

	for _, rec := range shortlist {
		// budget / (N × price) as an exact integer quotient
		shares, _ := budget.QuoRem(rec.Price.Decimal.Mul(n), 0)
		rec.SharesToBuy = shares.IntPart()
	}

	s.logger.WithFields(map[string]interface{}{
		"budget":        budget.String(),
		"positions":     len(shortlist),
		"position_size": positionSize.StringFixed(2),
	}).Info("Positions sized")

	return positionSize, nil
}

// Allocate sizes the shortlist and summarizes the result
func (s *Sizer) Allocate(budget decimal.Decimal, shortlist []*contracts.TickerRecord) (*contracts.Allocation, error) {
	positionSize, err := s.Size(budget, shortlist)
	if err != nil {
		return nil, err
	}

	alloc := &contracts.Allocation{
		Budget:       budget,
		PositionSize: positionSize,
		Positions:    make([]contracts.Position, 0, len(shortlist)),
	}
	for _, rec := range shortlist {
		alloc.Positions = append(alloc.Positions, contracts.Position{
			Symbol: rec.Symbol,
			Price:  rec.Price.Decimal,
			Shares: rec.SharesToBuy,
		})
	}

	return alloc, nil
}
