// Package dashboard implements the HTTP surface of coinpulse.
//
// Endpoints:
//   - GET  /api/coins/{id}      coin detail + 1-day candle history
//   - GET  /api/trending        trending coins
//   - GET  /api/search?query=   ranked coin search
//   - GET  /api/pools           resolve the pool backing a coin's trade feed
//   - POST /api/live            create a live stream session
//   - GET  /api/live/{sid}      current stream view snapshot
//   - PUT  /api/live/{sid}      switch the session's (coin, pool) identity
//   - DELETE /api/live/{sid}    tear the session down
//   - GET  /health              component health
//
// Live sessions are per browser session, single subscriber each; idle
// sessions are reaped by a janitor loop since browsers rarely send the
// DELETE on navigation.
package dashboard
