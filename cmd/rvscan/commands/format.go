package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/brain"
	"github.com/wonny/rvscan/internal/contracts"
)

const lineWidth = 59

// printDoubleSeparator prints a double-line separator
func printDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("═", lineWidth))
}

// printSeparator prints a visual separator
func printSeparator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", lineWidth))
}

// printKeyValue prints key-value pairs
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %-14s : %s\n", key, value)
}

// printTableHeader prints a table header with an underline
func printTableHeader(w io.Writer, columns []string, widths []int) {
	printTableRow(w, columns, widths)

	total := 0
	for i, width := range widths {
		total += width
		if i < len(widths)-1 {
			total += 2
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", total))
}

// printTableRow prints a table row
func printTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		if i < len(values)-1 {
			fmt.Fprintf(w, "%-*s  ", widths[i], val)
		} else {
			fmt.Fprintf(w, "%-*s", widths[i], val)
		}
	}
	fmt.Fprintln(w)
}

var (
	shortlistColumns = []string{"#", "Ticker", "Price", "Buy", "Sell", "Shares", "RV Score"}
	shortlistWidths  = []int{3, 8, 10, 10, 10, 7, 8}
)

// printRunResult prints the run summary and the shortlist
func printRunResult(w io.Writer, result *brain.RunResult) {
	fmt.Fprintln(w)
	printDoubleSeparator(w)
	fmt.Fprintf(w, "  Relative Value Scan  %s\n", result.RunID)
	printSeparator(w)
	if result.Universe != nil {
		printKeyValue(w, "Universe", fmt.Sprintf("%d symbols (%d excluded)", result.Universe.Count(), len(result.Universe.Excluded)))
	}
	printKeyValue(w, "Collected", fmt.Sprintf("%d", result.Collected))
	printKeyValue(w, "Shortlisted", fmt.Sprintf("%d", len(result.Shortlist)))
	printKeyValue(w, "Position size", "$"+result.PositionSize.StringFixed(2))
	if result.Allocation != nil {
		printKeyValue(w, "Invested", "$"+result.Allocation.Invested().StringFixed(2))
		printKeyValue(w, "Residual", "$"+result.Allocation.Residual().StringFixed(2))
	}
	printKeyValue(w, "Duration", result.Duration.Round(time.Millisecond).String())
	printDoubleSeparator(w)
	fmt.Fprintln(w)

	printTableHeader(w, shortlistColumns, shortlistWidths)
	for i, rec := range result.Shortlist {
		printTableRow(w, []string{
			fmt.Sprintf("%d", i+1),
			rec.Symbol,
			money(rec.Price),
			money(rec.PreferredBuy),
			money(rec.PreferredSell),
			fmt.Sprintf("%d", rec.SharesToBuy),
			score(rec),
		}, shortlistWidths)
	}

	if len(result.Excluded) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No price band:")
		for _, symbol := range sortedKeys(result.Excluded) {
			fmt.Fprintf(w, "   • %s: %s\n", symbol, result.Excluded[symbol])
		}
	}
}

func money(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func score(rec *contracts.TickerRecord) string {
	if rec.RVScore == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *rec.RVScore)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
