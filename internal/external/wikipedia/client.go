package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/rvscan/pkg/httputil"
	"github.com/wonny/rvscan/pkg/logger"
)

// DefaultSP500URL is the constituents page of the S&P 500
const DefaultSP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// Client scrapes index constituent lists from Wikipedia
// ⭐ SSOT: Wikipedia scraping lives in this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	pageURL    string
}

// Constituent is one row of the constituents table
type Constituent struct {
	Symbol string
	Name   string
	Sector string
}

// NewClient creates a new Wikipedia client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("wikipedia"),
		pageURL:    DefaultSP500URL,
	}
}

// WithPageURL overrides the constituents page
func (c *Client) WithPageURL(u string) *Client {
	c.pageURL = u
	return c
}

// FetchSP500 returns the S&P 500 constituents in table order
func (c *Client) FetchSP500(ctx context.Context) ([]Constituent, error) {
	resp, err := c.httpClient.Get(ctx, c.pageURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	constituents, err := parseConstituents(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse constituents: %w", err)
	}

	c.logger.WithField("count", len(constituents)).Info("Fetched S&P 500 constituents")
	return constituents, nil
}

// Symbols implements contracts.UniverseSource
func (c *Client) Symbols(ctx context.Context) ([]string, error) {
	constituents, err := c.FetchSP500(ctx)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(constituents))
	for _, con := range constituents {
		symbols = append(symbols, con.Symbol)
	}
	return symbols, nil
}

// parseConstituents reads the #constituents table.
// Columns: Symbol | Security | GICS Sector | ...
func parseConstituents(r io.Reader) ([]Constituent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table#constituents")
	if table.Length() == 0 {
		return nil, fmt.Errorf("constituents table not found")
	}

	var constituents []Constituent
	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return // header row uses th
		}

		symbol := yahooSymbol(cells.Eq(0).Text())
		if symbol == "" {
			return
		}

		con := Constituent{
			Symbol: symbol,
			Name:   strings.TrimSpace(cells.Eq(1).Text()),
		}
		if cells.Length() > 2 {
			con.Sector = strings.TrimSpace(cells.Eq(2).Text())
		}
		constituents = append(constituents, con)
	})

	if len(constituents) == 0 {
		return nil, fmt.Errorf("constituents table is empty")
	}
	return constituents, nil
}

// yahooSymbol converts class share notation (BRK.B) to the Yahoo form (BRK-B)
func yahooSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, ".", "-")
}
