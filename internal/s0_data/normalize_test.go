package s0_data

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/wonny/rvscan/internal/contracts"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"float64 rounded", 23.456, 23.46, true},
		{"negative rounded", -4.444, -4.44, true},
		{"half away from zero", 1.005 + 1e-9, 1.01, true},
		{"int", 12, 12, true},
		{"int64", int64(1_500_000_000), 1_500_000_000, true},
		{"float32", float32(2.5), 2.5, true},
		{"json number", json.Number("7.125"), 7.13, true},
		{"gjson number", gjson.Parse(`{"raw": 31.847}`).Get("raw"), 31.85, true},
		{"gjson null", gjson.Parse(`{"raw": null}`).Get("raw"), 0, false},
		{"gjson missing", gjson.Parse(`{}`).Get("raw"), 0, false},
		{"gjson string", gjson.Parse(`{"fmt": "31.85"}`).Get("fmt"), 0, false},
		{"nil", nil, 0, false},
		{"string", "Infinity", 0, false},
		{"numeric string", "12.5", 0, false},
		{"bool", true, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"+Inf", math.Inf(1), 0, false},
		{"-Inf", math.Inf(-1), 0, false},
		{"bad json number", json.Number("abc"), 0, false},
		{"map", map[string]any{"raw": 1.0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEVToGrossProfit(t *testing.T) {
	tests := []struct {
		name   string
		ev, gp any
		want   float64
		wantOK bool
	}{
		{"both present", 3_000_000_000.0, 1_200_000_000.0, 2.5, true},
		{"rounded", 1000.0, 3.0, 333.33, true},
		{"negative gross profit", 1000.0, -500.0, -2, true},
		{"zero gross profit", 1000.0, 0.0, 0, false},
		{"missing ev", nil, 10.0, 0, false},
		{"missing gp", 10.0, nil, 0, false},
		{"non-numeric gp", 10.0, "N/A", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EVToGrossProfit(tt.ev, tt.gp)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNewTickerRecord(t *testing.T) {
	raw := contracts.RawFundamentals{
		contracts.FieldPreviousClose:    189.987,
		contracts.FieldTrailingPE:       29.123,
		contracts.FieldPriceToBook:      nil,
		contracts.FieldPriceToSales:     "Infinity",
		contracts.FieldEnterpriseEBITDA: 22.0,
		contracts.FieldEnterpriseValue:  2_900_000_000_000.0,
		contracts.FieldGrossProfits:     170_000_000_000.0,
	}

	rec := NewTickerRecord("AAPL", raw)

	assert.Equal(t, "AAPL", rec.Symbol)
	require.True(t, rec.Price.Valid)
	assert.Equal(t, "189.99", rec.Price.Decimal.String())

	pe, ok := rec.Metric(contracts.MetricPE)
	assert.True(t, ok)
	assert.Equal(t, 29.12, pe)

	_, ok = rec.Metric(contracts.MetricPB)
	assert.False(t, ok, "nil field must be missing")

	_, ok = rec.Metric(contracts.MetricPS)
	assert.False(t, ok, "string field must be missing")

	evgp, ok := rec.Metric(contracts.MetricEVGP)
	assert.True(t, ok)
	assert.Equal(t, 17.06, evgp)

	assert.False(t, rec.HasAllMetrics())
	assert.Empty(t, rec.Percentiles)
	assert.Nil(t, rec.RVScore)
}

func TestNewTickerRecord_MissingPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  contracts.RawFundamentals
	}{
		{"absent", contracts.RawFundamentals{}},
		{"zero", contracts.RawFundamentals{contracts.FieldPreviousClose: 0.0}},
		{"negative", contracts.RawFundamentals{contracts.FieldPreviousClose: -3.0}},
		{"string", contracts.RawFundamentals{contracts.FieldPreviousClose: "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewTickerRecord("X", tt.raw)
			assert.False(t, rec.Price.Valid)
			assert.Empty(t, rec.Metrics)
		})
	}
}
