package api

import (
	"context"
	"fmt"
	"net/url"
)

// Search fetches coin search results for a free-text query.
func (c *Client) Search(ctx context.Context, q string) (*SearchResponse, error) {
	query := url.Values{}
	query.Set("query", q)

	var resp SearchResponse
	if err := c.getWithRetry(ctx, "/search", query, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}

	return &resp, nil
}

// GetTrending fetches the currently trending coins.
func (c *Client) GetTrending(ctx context.Context) (*TrendingResponse, error) {
	var resp TrendingResponse
	if err := c.getWithRetry(ctx, "/search/trending", nil, &resp); err != nil {
		return nil, fmt.Errorf("get trending: %w", err)
	}

	return &resp, nil
}
