package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if c.Stream.PriceInterval <= 0 {
		return errors.New("stream.price_interval must be positive")
	}
	if c.Stream.TradesInterval <= 0 {
		return errors.New("stream.trades_interval must be positive")
	}
	if c.Stream.RateLimitPause <= 0 {
		return errors.New("stream.rate_limit_pause must be positive")
	}
	if c.Stream.TradeLimit < 1 {
		return errors.New("stream.trade_limit must be >= 1")
	}

	if c.Dashboard.SessionTTL <= 0 {
		return errors.New("dashboard.session_ttl must be positive")
	}
	if c.Dashboard.TrendingLimit < 1 {
		return errors.New("dashboard.trending_limit must be >= 1")
	}
	if c.Dashboard.SearchLimit < 1 {
		return errors.New("dashboard.search_limit must be >= 1")
	}

	return nil
}
