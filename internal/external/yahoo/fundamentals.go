package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/wonny/rvscan/internal/contracts"
)

// quoteSummary modules holding each consumed field
var fieldModules = map[string]string{
	contracts.FieldPreviousClose:    "summaryDetail",
	contracts.FieldTrailingPE:       "summaryDetail",
	contracts.FieldPriceToSales:     "summaryDetail",
	contracts.FieldPriceToBook:      "defaultKeyStatistics",
	contracts.FieldEnterpriseValue:  "defaultKeyStatistics",
	contracts.FieldEnterpriseEBITDA: "defaultKeyStatistics",
	contracts.FieldGrossProfits:     "financialData",
}

const summaryModules = "summaryDetail,defaultKeyStatistics,financialData"

// FetchFundamentals returns the raw valuation fields of one symbol.
// Fields Yahoo omits come back as nil; the normalizer decides what is usable.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (contracts.RawFundamentals, error) {
	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)
	params := url.Values{"modules": {summaryModules}}

	body, err := c.fetchJSON(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("quoteSummary %s: %w", symbol, err)
	}

	raw, err := parseQuoteSummary(body)
	if err != nil {
		return nil, fmt.Errorf("quoteSummary %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"fields": countPresent(raw),
	}).Debug("Fetched fundamentals")
	return raw, nil
}

func parseQuoteSummary(body []byte) (contracts.RawFundamentals, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON response")
	}

	doc := gjson.ParseBytes(body)
	if e := doc.Get("quoteSummary.error"); e.Exists() && e.Type != gjson.Null {
		return nil, fmt.Errorf("%s", e.Get("description").String())
	}

	result := doc.Get("quoteSummary.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("empty result")
	}

	raw := make(contracts.RawFundamentals, len(contracts.FundamentalFields))
	for _, field := range contracts.FundamentalFields {
		v := result.Get(fieldModules[field] + "." + field + ".raw")
		if !v.Exists() || v.Type == gjson.Null {
			raw[field] = nil
			continue
		}
		raw[field] = v.Value()
	}

	return raw, nil
}

func countPresent(raw contracts.RawFundamentals) int {
	n := 0
	for _, v := range raw {
		if v != nil {
			n++
		}
	}
	return n
}
