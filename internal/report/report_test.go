package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/rvscan/internal/contracts"
)

func sampleRecords() []*contracts.TickerRecord {
	score := 21.5
	a := contracts.NewRecord("AAA")
	a.Price = decimal.NewNullDecimal(decimal.RequireFromString("50"))
	a.PreferredBuy = decimal.NewNullDecimal(decimal.RequireFromString("45.12"))
	a.PreferredSell = decimal.NewNullDecimal(decimal.RequireFromString("55.80"))
	a.SharesToBuy = 100
	for i, kind := range contracts.AllMetrics {
		a.Metrics[kind] = float64(i + 1)
		a.Percentiles[kind] = float64(10 * (i + 1))
	}
	a.RVScore = &score

	b := contracts.NewRecord("BBB")
	b.Metrics[contracts.MetricPE] = 9.99

	return []*contracts.TickerRecord{a, b}
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{
		"Ticker", "Prefered to Buy", "Price", "Prefered to Sell", "Number of shares to Buy",
		"Price-to-Earning Ratio", "PE Percentile",
		"Price-to-Book Ratio", "PB Percentile",
		"Price-to-Sales Ratio", "PS Percentile",
		"EV/EBITDA", "EV/EBITDA Percentile",
		"EV/GP", "EV/GP Percentile",
		"RV Score",
	}, Headers())
}

func TestRows(t *testing.T) {
	rows := Rows(sampleRecords())
	require.Len(t, rows, 2)

	a := rows[0]
	require.Len(t, a, len(Columns))
	assert.Equal(t, "AAA", a[0])
	assert.Equal(t, 45.12, a[1])
	assert.Equal(t, 50.0, a[2])
	assert.Equal(t, 55.8, a[3])
	assert.Equal(t, int64(100), a[4])
	assert.Equal(t, 1.0, a[5])
	assert.Equal(t, 10.0, a[6])
	assert.Equal(t, 21.5, a[15])

	b := rows[1]
	assert.Nil(t, b[1])
	assert.Nil(t, b[2])
	assert.Equal(t, 9.99, b[5])
	assert.Nil(t, b[6])
	assert.Nil(t, b[15])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	header, err := f.GetCellValue(SheetName, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Prefered to Buy", header)

	price, err := f.GetCellValue(SheetName, "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "45.12", price)

	shares, err := f.GetCellValue(SheetName, "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "100", shares)

	ticker, err := f.GetCellValue(SheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "BBB", ticker)

	missing, err := f.GetCellValue(SheetName, "C3")
	require.NoError(t, err)
	assert.Empty(t, missing)

	width, err := f.GetColWidth(SheetName, "E")
	require.NoError(t, err)
	assert.Equal(t, 22.0, width)
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveXLSX(path, sampleRecords()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
