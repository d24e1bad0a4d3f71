package model

import (
	"encoding/json"
	"fmt"
)

// -----------------------------------------------------------------------------
// Live Stream Types
// -----------------------------------------------------------------------------

// PriceSample is a single spot-price observation for a coin.
// One sample replaces the previous one on each successful price fetch.
type PriceSample struct {
	Coin        string  `json:"coin"`                // Coin id (e.g., "bitcoin")
	USD         float64 `json:"usd"`                 // Spot price in USD
	Price       float64 `json:"price"`               // Alias of USD kept for chart consumers
	Change24h   float64 `json:"change24h"` // 24h change, percent
	MarketCap   float64 `json:"marketCap"` // Market cap in USD
	Volume24h   float64 `json:"volume24h"` // 24h volume in USD
	TimestampMs int64   `json:"timestamp"`           // Upstream last-updated time, ms since epoch
}

// Candle is an OHLC summary of one minute of price activity. A stream session
// holds exactly one live candle at a time, continuously revised until the
// minute rolls over.
//
// Invariant: Low <= Open <= High and Low <= Close <= High.
type Candle struct {
	PeriodStart int64   // Minute-aligned bucket start, epoch seconds
	Open        float64 // Fixed at period start (prior close, or first price)
	High        float64 // Max price seen this period
	Low         float64 // Min price seen this period
	Close       float64 // Latest price seen this period
}

// MarshalJSON encodes the candle as the [t, o, h, l, c] tuple used by chart
// consumers and by the upstream OHLC endpoint.
func (c Candle) MarshalJSON() ([]byte, error) {
	return json.Marshal([5]float64{float64(c.PeriodStart), c.Open, c.High, c.Low, c.Close})
}

// UnmarshalJSON decodes a [t, o, h, l, c] tuple.
func (c *Candle) UnmarshalJSON(data []byte) error {
	var tuple []float64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 5 {
		return fmt.Errorf("candle tuple has %d elements, want 5", len(tuple))
	}
	c.PeriodStart = int64(tuple[0])
	c.Open, c.High, c.Low, c.Close = tuple[1], tuple[2], tuple[3], tuple[4]
	return nil
}

// Trade kinds reported by the onchain trades endpoint.
const (
	TradeBuy  = "buy"
	TradeSell = "sell"
)

// Trade is a single DEX trade observed in a liquidity pool.
type Trade struct {
	Price       float64 `json:"price"`     // Trade price in USD
	Value       float64 `json:"value"`     // Trade volume in USD
	Amount      float64 `json:"amount"`    // From-token amount
	TimestampMs int64   `json:"timestamp"` // Block timestamp, ms since epoch
	Kind        string  `json:"type"`      // TradeBuy or TradeSell
}

// StreamView is the session state published to the dashboard consumer.
// Fields are nil/empty until the first successful fetch; they never carry an
// error state (stale-but-valid data is preferred over error surfacing).
type StreamView struct {
	Price     *PriceSample `json:"price"`
	Trades    []Trade      `json:"trades"`
	Candle    *Candle      `json:"ohlcv"`
	Connected bool         `json:"isConnected"`
}
