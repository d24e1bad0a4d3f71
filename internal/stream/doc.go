// Package stream implements the simulated real-time market-data stream.
//
// A Session emulates a push-based price/trade/candle feed on top of the
// pull-based CoinGecko REST API:
//   - a price poller fetches /simple/price and folds each sample into a live
//     one-minute OHLC candle
//   - a trade poller fetches recent DEX trades for an optional liquidity pool
//   - per-poller cooldowns pause fetching after an upstream 429
//
// Each (coin, pool) identity owns a fresh generation of state; changing the
// identity cancels the old generation's context and discards its state, so a
// late in-flight response can never leak into the new identity's view.
package stream
