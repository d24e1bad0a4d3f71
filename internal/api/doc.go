// Package api provides the CoinGecko REST API client.
//
// Endpoints:
//   - /simple/price for spot price data (60s upstream cache)
//   - /onchain/networks/{network}/pools/{address}/trades for DEX trades
//   - /coins/{id} and /coins/{id}/ohlc for coin detail and candle history
//   - /search and /search/trending for the dashboard search surfaces
//
// The demo API key is sent via the x-cg-demo-api-key header when configured;
// requests are attempted unauthenticated otherwise. HTTP 429 is surfaced as an
// *APIError so callers can apply their own cooldown instead of hammering the
// free-tier limit with retries.
package api
