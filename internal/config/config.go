package config

import "time"

// Config is the root configuration for a coinpulse instance.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Stream    StreamConfig    `yaml:"stream"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// APIConfig holds CoinGecko API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Key        string        `yaml:"key"` // Demo API key (x-cg-demo-api-key); optional
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// StreamConfig holds live-stream session settings.
type StreamConfig struct {
	PriceInterval  time.Duration `yaml:"price_interval"`
	TradesInterval time.Duration `yaml:"trades_interval"`
	RateLimitPause time.Duration `yaml:"rate_limit_pause"`
	TradeLimit     int           `yaml:"trade_limit"`
}

// DashboardConfig holds dashboard surface settings.
type DashboardConfig struct {
	SessionTTL    time.Duration `yaml:"session_ttl"`    // Idle live sessions are reaped after this
	TrendingLimit int           `yaml:"trending_limit"` // Trending coins returned
	SearchLimit   int           `yaml:"search_limit"`   // Search results returned
}
