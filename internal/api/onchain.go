package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/model"
)

// GetPoolTrades fetches recent trades for a liquidity pool, filtered to
// nonzero USD volume.
//
// Single-attempt call: the trade poller handles 429 with its own cooldown.
func (c *Client) GetPoolTrades(ctx context.Context, ref model.PoolRef) (*PoolTradesResponse, error) {
	query := url.Values{}
	query.Set("trade_volume_in_usd_greater_than", "0")

	path := "/onchain/networks/" + ref.Network + "/pools/" + ref.PoolAddress + "/trades"

	var resp PoolTradesResponse
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetTokenPools fetches pools holding the given token contract on a network.
func (c *Client) GetTokenPools(ctx context.Context, network, contractAddress string) (*PoolsResponse, error) {
	path := "/onchain/networks/" + network + "/tokens/" + contractAddress + "/pools"

	var resp PoolsResponse
	if err := c.getWithRetry(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get token pools %s/%s: %w", network, contractAddress, err)
	}

	return &resp, nil
}

// SearchPools searches onchain pools by free-text query.
func (c *Client) SearchPools(ctx context.Context, q string) (*PoolsResponse, error) {
	query := url.Values{}
	query.Set("query", q)

	var resp PoolsResponse
	if err := c.getWithRetry(ctx, "/onchain/search/pools", query, &resp); err != nil {
		return nil, fmt.Errorf("search pools %q: %w", q, err)
	}

	return &resp, nil
}
