package s1_universe

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "single column",
			input: "Ticker\nAAPL\nMSFT\n",
			want:  []string{"AAPL", "MSFT"},
		},
		{
			name:  "header case and extra columns",
			input: "Name,ticker,Sector\nApple, aapl ,Tech\nMicrosoft,msft,Tech\n",
			want:  []string{"AAPL", "MSFT"},
		},
		{
			name:  "dedupe keeps first occurrence",
			input: "Ticker\nMSFT\nAAPL\nmsft\n",
			want:  []string{"MSFT", "AAPL"},
		},
		{
			name:  "blank cells skipped",
			input: "Ticker\nAAPL\n\n   \nGOOG\n",
			want:  []string{"AAPL", "GOOG"},
		},
		{
			name:  "byte order mark",
			input: "\ufeffTicker\nA\n",
			want:  []string{"A"},
		},
		{
			name:  "header only",
			input: "Ticker\n",
			want:  []string{},
		},
		{
			name:    "missing ticker column",
			input:   "Symbol\nAAPL\n",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"AAPL", "BRK-B"}))
	assert.Equal(t, "Ticker\nAAPL\nBRK-B\n", buf.String())

	got, err := LoadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "BRK-B"}, got)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.csv")
	require.NoError(t, os.WriteFile(path, []byte("Ticker\nXOM\nCVX\n"), 0o644))

	got, err := FileSource{Path: path}.Symbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"XOM", "CVX"}, got)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "nope.csv")}.Symbols(context.Background())
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	symbols := make([]string, 250)
	for i := range symbols {
		symbols[i] = string(rune('A' + i%26))
	}

	batches := Batch(symbols, 100)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 100)
	assert.Len(t, batches[2], 50)
	assert.Equal(t, symbols[200], batches[2][0])

	assert.Len(t, Batch(symbols, 0), 3, "non-positive size uses the default")
	assert.Empty(t, Batch(nil, 10))
	assert.Len(t, Batch([]string{"A", "B"}, 5), 1)
}
