package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/model"
)

// GetCoin fetches detail for a single coin by id.
func (c *Client) GetCoin(ctx context.Context, id string) (*CoinDetail, error) {
	query := url.Values{}
	query.Set("dex_pair_format", "symbol")

	var resp CoinDetail
	if err := c.getWithRetry(ctx, "/coins/"+id, query, &resp); err != nil {
		return nil, fmt.Errorf("get coin %s: %w", id, err)
	}

	return &resp, nil
}

// GetCoinOHLC fetches candle history for a coin over the given number of days.
// The upstream tuple timestamps are milliseconds; they are converted to the
// epoch-second bucket convention used by model.Candle.
func (c *Client) GetCoinOHLC(ctx context.Context, id string, days int) ([]model.Candle, error) {
	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))
	query.Set("precision", "full")

	var tuples [][5]float64
	if err := c.getWithRetry(ctx, "/coins/"+id+"/ohlc", query, &tuples); err != nil {
		return nil, fmt.Errorf("get coin ohlc %s: %w", id, err)
	}

	candles := make([]model.Candle, 0, len(tuples))
	for _, t := range tuples {
		candles = append(candles, model.Candle{
			PeriodStart: int64(t[0]) / 1000,
			Open:        t[1],
			High:        t[2],
			Low:         t[3],
			Close:       t[4],
		})
	}

	return candles, nil
}
