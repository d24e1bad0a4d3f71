package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerPort = 8080

	DefaultAPIBaseURL    = "https://api.coingecko.com/api/v3"
	DefaultAPITimeout    = 30 * time.Second
	DefaultAPIMaxRetries = 3

	// Intervals match the upstream 60s cache window for the public tier.
	DefaultPriceInterval  = 60 * time.Second
	DefaultTradesInterval = 60 * time.Second
	DefaultRateLimitPause = 60 * time.Second
	DefaultTradeLimit     = 7

	DefaultSessionTTL    = 10 * time.Minute
	DefaultTrendingLimit = 6
	DefaultSearchLimit   = 10
)

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultAPIMaxRetries
	}

	// Stream defaults
	if c.Stream.PriceInterval == 0 {
		c.Stream.PriceInterval = DefaultPriceInterval
	}
	if c.Stream.TradesInterval == 0 {
		c.Stream.TradesInterval = DefaultTradesInterval
	}
	if c.Stream.RateLimitPause == 0 {
		c.Stream.RateLimitPause = DefaultRateLimitPause
	}
	if c.Stream.TradeLimit == 0 {
		c.Stream.TradeLimit = DefaultTradeLimit
	}

	// Dashboard defaults
	if c.Dashboard.SessionTTL == 0 {
		c.Dashboard.SessionTTL = DefaultSessionTTL
	}
	if c.Dashboard.TrendingLimit == 0 {
		c.Dashboard.TrendingLimit = DefaultTrendingLimit
	}
	if c.Dashboard.SearchLimit == 0 {
		c.Dashboard.SearchLimit = DefaultSearchLimit
	}
}
