package contracts

import "github.com/shopspring/decimal"

// Allocation summarizes the equal-weight split of a budget over a shortlist
// ⭐ SSOT: sizer → report handoff
type Allocation struct {
	Budget       decimal.Decimal `json:"budget"`
	PositionSize decimal.Decimal `json:"position_size"` // Budget / N
	Positions    []Position      `json:"positions"`
}

// Position is the planned purchase of one shortlisted ticker
type Position struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Shares int64           `json:"shares"`
}

// Cost returns shares × price
func (p Position) Cost() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Shares))
}

// Invested returns the total cost of all positions
func (a *Allocation) Invested() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range a.Positions {
		total = total.Add(pos.Cost())
	}
	return total
}

// Residual returns the budget left uninvested after flooring share counts
func (a *Allocation) Residual() decimal.Decimal {
	return a.Budget.Sub(a.Invested())
}

// Count returns the number of positions
func (a *Allocation) Count() int {
	return len(a.Positions)
}

// GetPosition finds a position by symbol
func (a *Allocation) GetPosition(symbol string) (*Position, bool) {
	for i := range a.Positions {
		if a.Positions[i].Symbol == symbol {
			return &a.Positions[i], true
		}
	}
	return nil, false
}
