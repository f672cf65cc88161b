package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider field names of the raw fundamentals
const (
	FieldPreviousClose    = "previousClose"
	FieldTrailingPE       = "trailingPE"
	FieldPriceToBook      = "priceToBook"
	FieldPriceToSales     = "priceToSalesTrailing12Months"
	FieldEnterpriseEBITDA = "enterpriseToEbitda"
	FieldEnterpriseValue  = "enterpriseValue"
	FieldGrossProfits     = "grossProfits"
)

// FundamentalFields lists the raw fields consumed by the normalizer
var FundamentalFields = []string{
	FieldPreviousClose,
	FieldTrailingPE,
	FieldPriceToBook,
	FieldPriceToSales,
	FieldEnterpriseEBITDA,
	FieldEnterpriseValue,
	FieldGrossProfits,
}

// RawFundamentals holds provider fields of unknown shape.
// An absent key or a nil value means "no value".
type RawFundamentals map[string]any

// PriceBar is one daily close
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceBand is the fitted weekly-return distribution and the thresholds derived from it
type PriceBand struct {
	Mean      float64 `json:"mean"`    // μ of trimmed weekly % change
	StdDev    float64 `json:"std_dev"` // σ of trimmed weekly % change
	Lower     float64 `json:"lower"`   // μ - kσ
	Upper     float64 `json:"upper"`   // μ + kσ
	BasePrice float64 `json:"base_price"`
	Weeks     int     `json:"weeks"`   // weekly observations before trimming
	Trimmed   int     `json:"trimmed"` // observations used in the fit

	PreferredBuy  decimal.Decimal `json:"preferred_buy"`
	PreferredSell decimal.Decimal `json:"preferred_sell"`
}
