package s0_data

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/wonny/rvscan/internal/contracts"
)

// Normalize converts a raw provider value of unknown shape into a ratio rounded
// to 2 fractional digits. Anything that is not a finite number is reported as missing.
// ⭐ SSOT: raw field → typed optional ratio, never an error
func Normalize(v any) (float64, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return Round2(f), true
}

// Round2 rounds half away from zero to 2 fractional digits
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// toFloat accepts numeric kinds only; strings and bools are never coerced
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case gjson.Result:
		if n.Type != gjson.Number {
			return 0, false
		}
		return n.Float(), true
	default:
		return 0, false
	}
}

// NewTickerRecord builds a normalized record from raw fundamentals
func NewTickerRecord(symbol string, raw contracts.RawFundamentals) *contracts.TickerRecord {
	rec := contracts.NewRecord(symbol)

	if price, ok := Normalize(raw[contracts.FieldPreviousClose]); ok && price > 0 {
		rec.Price = decimal.NewNullDecimal(decimal.NewFromFloat(price))
	}

	direct := map[contracts.MetricKind]string{
		contracts.MetricPE:       contracts.FieldTrailingPE,
		contracts.MetricPB:       contracts.FieldPriceToBook,
		contracts.MetricPS:       contracts.FieldPriceToSales,
		contracts.MetricEVEBITDA: contracts.FieldEnterpriseEBITDA,
	}
	for kind, field := range direct {
		if v, ok := Normalize(raw[field]); ok {
			rec.Metrics[kind] = v
		}
	}

	if evgp, ok := EVToGrossProfit(raw[contracts.FieldEnterpriseValue], raw[contracts.FieldGrossProfits]); ok {
		rec.Metrics[contracts.MetricEVGP] = evgp
	}

	return rec
}

// EVToGrossProfit derives EV/GP; missing when either input is missing or gross profit is zero
func EVToGrossProfit(enterpriseValue, grossProfits any) (float64, bool) {
	ev, ok := Normalize(enterpriseValue)
	if !ok {
		return 0, false
	}
	gp, ok := Normalize(grossProfits)
	if !ok || gp == 0 {
		return 0, false
	}
	return Normalize(ev / gp)
}
