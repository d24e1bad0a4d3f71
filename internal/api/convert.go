package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/model"
)

// ParseDecimal converts a decimal string from the onchain API to a float64.
// Returns 0 for empty or invalid input.
func ParseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseTimestampMs parses an ISO 8601 timestamp to milliseconds since epoch.
// Returns 0 for empty or invalid input.
func ParseTimestampMs(iso string) int64 {
	if iso == "" {
		return 0
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// ToModel converts a wire trade record to the internal Trade shape.
func (t PoolTrade) ToModel() model.Trade {
	return model.Trade{
		Price:       ParseDecimal(t.Attributes.PriceFromInUSD),
		Value:       ParseDecimal(t.Attributes.VolumeInUSD),
		Amount:      ParseDecimal(t.Attributes.FromTokenAmount),
		TimestampMs: ParseTimestampMs(t.Attributes.BlockTimestamp),
		Kind:        t.Attributes.Kind,
	}
}
