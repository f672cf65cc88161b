package s1_universe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rvscan/pkg/logger"
)

type staticSource struct {
	symbols []string
	err     error
}

func (s staticSource) Symbols(ctx context.Context) ([]string, error) {
	return s.symbols, s.err
}

func TestBuilder_Build(t *testing.T) {
	builder := NewBuilder(Config{}, logger.Nop())

	universe, err := builder.Build(context.Background(), staticSource{
		symbols: []string{"AAPL", "BRK-B", "BF.B", "123", "TOOLONGSYMBOL", "AAPL"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "BRK-B", "BF.B"}, universe.Symbols)
	assert.Equal(t, 6, universe.TotalCount)
	assert.True(t, universe.Contains("BF.B"))

	excluded, reason := universe.IsExcluded("123")
	assert.True(t, excluded)
	assert.Equal(t, "malformed symbol", reason)

	excluded, _ = universe.IsExcluded("TOOLONGSYMBOL")
	assert.True(t, excluded)
}

func TestBuilder_Limit(t *testing.T) {
	builder := NewBuilder(Config{Limit: 2}, logger.Nop())

	universe := builder.FromSymbols([]string{"A", "B", "C", "D"})

	assert.Equal(t, []string{"A", "B"}, universe.Symbols)
	assert.Len(t, universe.Excluded, 2)
}

func TestBuilder_SourceError(t *testing.T) {
	builder := NewBuilder(Config{}, logger.Nop())

	_, err := builder.Build(context.Background(), staticSource{err: errors.New("boom")})
	assert.Error(t, err)
}
