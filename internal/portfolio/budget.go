package portfolio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/contracts"
)

// ErrNotANumber marks a budget string that does not parse
var ErrNotANumber = errors.New("not a number")

var budgetCleaner = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseBudget reads an operator portfolio size, tolerating "$" and thousands commas.
// ⭐ SSOT: every budget string (flag, env, prompt, API) is parsed here
func ParseBudget(s string) (decimal.Decimal, error) {
	budget, err := decimal.NewFromString(budgetCleaner.Replace(strings.TrimSpace(s)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is %w", s, ErrNotANumber)
	}
	if !budget.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: portfolio size must be positive, got %s", contracts.ErrInvalidInput, budget)
	}
	return budget, nil
}
