package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/portfolio"
)

// errNoBudget is returned when stdin closes before a usable answer
var errNoBudget = errors.New("no portfolio size given")

// resolveBudget takes the flag, then PORTFOLIO_SIZE, then asks on in until
// the answer parses
func resolveBudget(flagValue, envValue string, in io.Reader, out io.Writer) (decimal.Decimal, error) {
	for _, v := range []string{flagValue, envValue} {
		if strings.TrimSpace(v) == "" {
			continue
		}
		return portfolio.ParseBudget(v)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter the value of your portfolio: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return decimal.Zero, fmt.Errorf("read portfolio size: %w", err)
			}
			return decimal.Zero, errNoBudget
		}

		budget, err := portfolio.ParseBudget(scanner.Text())
		if err == nil {
			return budget, nil
		}
		if errors.Is(err, portfolio.ErrNotANumber) {
			fmt.Fprintln(out, "That's not a number! Try again.")
		} else {
			fmt.Fprintf(out, "%v. Try again.\n", err)
		}
	}
}
