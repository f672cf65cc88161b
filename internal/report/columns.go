package report

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/contracts"
)

// Format is the number format of a report column
type Format string

const (
	FormatText    Format = "@"
	FormatMoney   Format = "$0.00"
	FormatInteger Format = "0"
	FormatFloat   Format = "0.00"
)

// Column describes one report column
type Column struct {
	Header string
	Width  float64
	Format Format
}

// Columns is the report schema in output order
// ⭐ SSOT: report column order and formats
var Columns = buildColumns()

func buildColumns() []Column {
	cols := []Column{
		{Header: "Ticker", Width: 10, Format: FormatText},
		{Header: "Prefered to Buy", Width: 12, Format: FormatMoney},
		{Header: "Price", Width: 12, Format: FormatMoney},
		{Header: "Prefered to Sell", Width: 12, Format: FormatMoney},
		{Header: "Number of shares to Buy", Width: 22, Format: FormatInteger},
	}
	for _, kind := range contracts.AllMetrics {
		cols = append(cols,
			Column{Header: kind.Label(), Width: 22, Format: FormatFloat},
			Column{Header: kind.PercentileLabel(), Width: 15, Format: FormatFloat},
		)
	}
	return append(cols, Column{Header: "RV Score", Width: 10, Format: FormatFloat})
}

// Headers returns the column headers
func Headers() []string {
	headers := make([]string, len(Columns))
	for i, c := range Columns {
		headers[i] = c.Header
	}
	return headers
}

// Rows renders one row per record in the given order. Missing values are nil.
func Rows(records []*contracts.TickerRecord) [][]any {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, 0, len(Columns))
		row = append(row,
			rec.Symbol,
			nullFloat(rec.PreferredBuy),
			nullFloat(rec.Price),
			nullFloat(rec.PreferredSell),
			rec.SharesToBuy,
		)
		for _, kind := range contracts.AllMetrics {
			row = append(row, optional(rec.Metric(kind)), optional(rec.Percentile(kind)))
		}
		if rec.RVScore != nil {
			row = append(row, *rec.RVScore)
		} else {
			row = append(row, nil)
		}
		rows = append(rows, row)
	}
	return rows
}

func nullFloat(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return f
}

func optional(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}
