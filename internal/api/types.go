package api

// SimplePrice is one coin's entry in the /simple/price response.
// Optional fields are zero when the matching include flag was not requested.
type SimplePrice struct {
	USD           float64 `json:"usd"`
	USD24hChange  float64 `json:"usd_24h_change"`
	USDMarketCap  float64 `json:"usd_market_cap"`
	USD24hVol     float64 `json:"usd_24h_vol"`
	LastUpdatedAt int64   `json:"last_updated_at"` // Epoch seconds, 0 if not requested
}

// SimplePriceResponse from GET /simple/price, keyed by coin id.
type SimplePriceResponse map[string]SimplePrice

// PoolTradesResponse from GET /onchain/networks/{network}/pools/{address}/trades.
type PoolTradesResponse struct {
	Data []PoolTrade `json:"data"`
}

// PoolTrade is a single trade record in JSON:API envelope form.
type PoolTrade struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	Attributes PoolTradeAttributes `json:"attributes"`
}

// PoolTradeAttributes carries the trade payload. Numeric fields arrive as
// decimal strings.
type PoolTradeAttributes struct {
	BlockNumber     int64  `json:"block_number"`
	TxHash          string `json:"tx_hash"`
	FromTokenAmount string `json:"from_token_amount"`
	ToTokenAmount   string `json:"to_token_amount"`
	PriceFromInUSD  string `json:"price_from_in_usd"`
	PriceToInUSD    string `json:"price_to_in_usd"`
	VolumeInUSD     string `json:"volume_in_usd"`
	BlockTimestamp  string `json:"block_timestamp"` // ISO 8601
	Kind            string `json:"kind"`            // "buy" or "sell"
}

// PoolsResponse from the onchain pool discovery endpoints.
type PoolsResponse struct {
	Data []Pool `json:"data"`
}

// Pool identifies a liquidity pool. The id carries the network prefix
// ("eth_0x..."), matching the pool-id format used by the stream session.
type Pool struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes PoolAttributes `json:"attributes"`
}

// PoolAttributes holds pool metadata.
type PoolAttributes struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CoinDetail from GET /coins/{id}.
type CoinDetail struct {
	ID         string         `json:"id"`
	Symbol     string         `json:"symbol"`
	Name       string         `json:"name"`
	Image      CoinImage      `json:"image"`
	MarketData CoinMarketData `json:"market_data"`
}

// CoinImage holds icon URLs at the sizes the API provides.
type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// CoinMarketData holds per-currency market figures.
type CoinMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
}

// SearchResponse from GET /search.
type SearchResponse struct {
	Coins []SearchCoin `json:"coins"`
}

// SearchCoin is one coin hit in a search response.
type SearchCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank int    `json:"market_cap_rank"`
	Thumb         string `json:"thumb"`
	Large         string `json:"large"`
}

// TrendingResponse from GET /search/trending.
type TrendingResponse struct {
	Coins []TrendingCoin `json:"coins"`
}

// TrendingCoin wraps a trending item.
type TrendingCoin struct {
	Item TrendingItem `json:"item"`
}

// TrendingItem is one trending coin entry.
type TrendingItem struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Symbol        string           `json:"symbol"`
	MarketCapRank int              `json:"market_cap_rank"`
	Thumb         string           `json:"thumb"`
	Large         string           `json:"large"`
	Data          TrendingItemData `json:"data"`
}

// TrendingItemData holds the price block attached to a trending item.
type TrendingItemData struct {
	Price                    float64            `json:"price"`
	PriceChangePercentage24h map[string]float64 `json:"price_change_percentage_24h"`
}
