package report

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/rvscan/internal/contracts"
)

// SheetName is the worksheet holding the shortlist
const SheetName = "RV Strategy"

// WriteXLSX renders the shortlist as a workbook
func WriteXLSX(w io.Writer, records []*contracts.TickerRecord) error {
	f, err := Workbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path
func SaveXLSX(path string, records []*contracts.TickerRecord) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := WriteXLSX(out, records); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Workbook builds the report in memory; the caller closes it
func Workbook(records []*contracts.TickerRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := formatColumns(f); err != nil {
		f.Close()
		return nil, err
	}

	headers := make([]any, len(Columns))
	for i, h := range Headers() {
		headers[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range Rows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

func formatColumns(f *excelize.File) error {
	styles := make(map[Format]int)

	for i, col := range Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}

		style, ok := styles[col.Format]
		if !ok {
			numFmt := string(col.Format)
			style, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
			if err != nil {
				return fmt.Errorf("create style %s: %w", col.Format, err)
			}
			styles[col.Format] = style
		}

		if err := f.SetColStyle(SheetName, name, style); err != nil {
			return fmt.Errorf("style column %s: %w", name, err)
		}
		if err := f.SetColWidth(SheetName, name, name, col.Width); err != nil {
			return fmt.Errorf("size column %s: %w", name, err)
		}
	}

	return nil
}
