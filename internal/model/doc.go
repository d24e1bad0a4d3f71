// Package model defines shared data types used across coinpulse.
//
// Conventions:
//   - Prices and USD amounts: float64 (matches upstream JSON and chart consumers)
//   - Timestamps: int64 milliseconds since Unix epoch, except Candle.PeriodStart
//     which is minute-aligned epoch seconds (chart bucket convention)
//   - IDs: CoinGecko coin ids ("bitcoin"), pool ids ("network_address")
package model
