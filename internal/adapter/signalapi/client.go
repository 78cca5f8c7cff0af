package signalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"signalboard/internal/domain"
)

// Client fetches dashboard data from the external trading-signal API.
// The API computes prices, RSI, signals, and positions; this process only
// reads them.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new signal API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LatestData fetches the aggregate multi-token snapshot
// GET /latest_data
func (c *Client) LatestData(ctx context.Context) (*domain.MarketDataResponse, error) {
	var out domain.MarketDataResponse
	if err := c.get(ctx, "/latest_data", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch latest data: %w", err)
	}
	return &out, nil
}

// TokenData fetches metrics for a single symbol. The response reuses the
// symbol-keyed map shape of /latest_data with at most one entry.
// GET /token_data?token=SYMBOL
func (c *Client) TokenData(ctx context.Context, symbol string) (*domain.MarketDataResponse, error) {
	path := "/token_data?token=" + url.QueryEscape(symbol)
	var out domain.MarketDataResponse
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch token data for %s: %w", symbol, err)
	}
	return &out, nil
}

// Positions fetches the open positions table
// GET /positions
func (c *Client) Positions(ctx context.Context) (*domain.PositionsResponse, error) {
	var out domain.PositionsResponse
	if err := c.get(ctx, "/positions", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}
	return &out, nil
}

// get performs a GET request and stream-decodes the JSON body into out
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call signal API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Only read body if there's an error to report
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("signal API returned error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
