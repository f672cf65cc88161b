package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/wonny/rvscan/pkg/config"
	"github.com/wonny/rvscan/pkg/httputil"
	"github.com/wonny/rvscan/pkg/logger"
)

// errUnauthorized marks a rejected crumb
var errUnauthorized = errors.New("unauthorized")

// Client handles communication with the Yahoo Finance JSON APIs
// ⭐ SSOT: Yahoo Finance calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	cookieURL  string

	mu    sync.Mutex
	crumb string
}

// NewClient creates a new Yahoo Finance client.
// httpClient must carry a cookie jar (httputil.Client.WithCookieJar).
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("yahoo"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cookieURL:  cfg.CookieURL,
	}
}

// session returns the current crumb, acquiring one first if needed
func (c *Client) session(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}

	// the consent host answers 404 but still sets the session cookie
	resp, err := c.httpClient.Get(ctx, c.cookieURL)
	if err != nil {
		return "", fmt.Errorf("cookie request failed: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	resp, err = c.httpClient.Get(ctx, c.baseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("crumb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crumb request: unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read crumb: %w", err)
	}

	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", fmt.Errorf("invalid crumb response")
	}

	c.crumb = crumb
	c.logger.Debug("Acquired Yahoo session crumb")
	return crumb, nil
}

// resetSession drops the crumb so the next call re-acquires it
func (c *Client) resetSession(stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb == stale {
		c.crumb = ""
	}
}

// fetchJSON performs an authenticated GET and returns the body.
// A 401 re-acquires the session once.
func (c *Client) fetchJSON(ctx context.Context, path string, params url.Values) ([]byte, error) {
	body, crumb, err := c.fetchOnce(ctx, path, params)
	if errors.Is(err, errUnauthorized) {
		c.logger.WithField("path", path).Warn("Yahoo session rejected, re-acquiring crumb")
		c.resetSession(crumb)
		body, _, err = c.fetchOnce(ctx, path, params)
	}
	return body, err
}

func (c *Client) fetchOnce(ctx context.Context, path string, params url.Values) ([]byte, string, error) {
	crumb, err := c.session(ctx)
	if err != nil {
		return nil, "", err
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("crumb", crumb)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, crumb, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, crumb, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, crumb, errUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		// quoteSummary and chart both report unknown symbols as 404 with a JSON error body
		return body, crumb, nil
	case resp.StatusCode != http.StatusOK:
		return nil, crumb, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, crumb, nil
}
