package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SimplePriceOptions selects the optional fields of a /simple/price lookup.
type SimplePriceOptions struct {
	Include24hChange   bool
	IncludeMarketCap   bool
	Include24hVol      bool
	IncludeLastUpdated bool
}

// FullSimplePriceOptions requests every optional field.
func FullSimplePriceOptions() SimplePriceOptions {
	return SimplePriceOptions{
		Include24hChange:   true,
		IncludeMarketCap:   true,
		Include24hVol:      true,
		IncludeLastUpdated: true,
	}
}

func simplePriceQuery(ids []string, opts SimplePriceOptions) url.Values {
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	if opts.Include24hChange {
		query.Set("include_24hr_change", "true")
	}
	if opts.IncludeMarketCap {
		query.Set("include_market_cap", "true")
	}
	if opts.Include24hVol {
		query.Set("include_24hr_vol", "true")
	}
	if opts.IncludeLastUpdated {
		query.Set("include_last_updated_at", "true")
	}
	return query
}

// GetSimplePrice fetches USD spot prices for the given coin ids.
//
// This is a single-attempt call: the live pollers need to observe HTTP 429
// directly so they can engage their cooldown instead of retrying.
func (c *Client) GetSimplePrice(ctx context.Context, ids []string, opts SimplePriceOptions) (SimplePriceResponse, error) {
	var resp SimplePriceResponse
	if err := c.get(ctx, "/simple/price", simplePriceQuery(ids, opts), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetSimplePriceRetried is the retried variant for catalog surfaces (search
// enrichment), where transient upstream failures should be absorbed.
func (c *Client) GetSimplePriceRetried(ctx context.Context, ids []string, opts SimplePriceOptions) (SimplePriceResponse, error) {
	var resp SimplePriceResponse
	if err := c.getWithRetry(ctx, "/simple/price", simplePriceQuery(ids, opts), &resp); err != nil {
		return nil, fmt.Errorf("get simple price: %w", err)
	}
	return resp, nil
}
