package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata" // exchange zones without a system zoneinfo

	"github.com/tidwall/gjson"

	"github.com/wonny/rvscan/internal/contracts"
)

// defaultExchangeTZ is used when the chart meta carries no timezone
const defaultExchangeTZ = "America/New_York"

// FetchDailyCloses returns the daily closes of the last years years, oldest first
func (c *Client) FetchDailyCloses(ctx context.Context, symbol string, years int) ([]contracts.PriceBar, error) {
	if years <= 0 {
		return nil, fmt.Errorf("years must be positive: %d", years)
	}

	path := "/v8/finance/chart/" + url.PathEscape(symbol)
	params := url.Values{
		"interval": {"1d"},
		"range":    {fmt.Sprintf("%dy", years)},
	}

	body, err := c.fetchJSON(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	bars, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched daily closes")
	return bars, nil
}

func parseChart(body []byte) ([]contracts.PriceBar, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON response")
	}

	doc := gjson.ParseBytes(body)
	if e := doc.Get("chart.error"); e.Exists() && e.Type != gjson.Null {
		return nil, fmt.Errorf("%s", e.Get("description").String())
	}

	result := doc.Get("chart.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("empty result")
	}

	loc := exchangeLocation(result.Get("meta.exchangeTimezoneName").String())

	timestamps := result.Get("timestamp").Array()
	closes := result.Get("indicators.quote.0.close").Array()

	bars := make([]contracts.PriceBar, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) || closes[i].Type != gjson.Number {
			continue // null close on halted days
		}
		bars = append(bars, contracts.PriceBar{
			Date:  time.Unix(ts.Int(), 0).In(loc),
			Close: closes[i].Float(),
		})
	}

	return bars, nil
}

func exchangeLocation(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(defaultExchangeTZ); err == nil {
		return loc
	}
	return time.UTC
}
