package s1_universe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// TickerColumn is the header of the symbol column in a universe CSV
const TickerColumn = "Ticker"

// DefaultBatchSize is the number of symbols fetched between pauses
const DefaultBatchSize = 100

// LoadCSV reads symbols from the Ticker column of a CSV stream.
// Symbols are trimmed, upper-cased and de-duplicated in input order; blank cells are skipped.
func LoadCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty universe file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(name), TickerColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found in header", TickerColumn)
	}

	symbols := make([]string, 0, 512)
	seen := make(map[string]struct{})
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if col >= len(row) {
			continue
		}

		symbol := strings.ToUpper(strings.TrimSpace(row[col]))
		if symbol == "" {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}

	return symbols, nil
}

// LoadFile reads a universe CSV from disk
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	symbols, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return symbols, nil
}

// WriteCSV writes symbols as a single-column universe CSV
func WriteCSV(w io.Writer, symbols []string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{TickerColumn}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range symbols {
		if err := writer.Write([]string{s}); err != nil {
			return fmt.Errorf("write %s: %w", s, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Batch splits symbols into ordered groups of at most size symbols.
// A non-positive size falls back to DefaultBatchSize.
func Batch(symbols []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}

	batches := make([][]string, 0, (len(symbols)+size-1)/size)
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		batches = append(batches, symbols[start:end])
	}
	return batches
}

// FileSource serves the universe from a CSV file on disk
type FileSource struct {
	Path string
}

// Symbols implements contracts.UniverseSource
func (f FileSource) Symbols(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(f.Path)
}
