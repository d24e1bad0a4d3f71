package model

import (
	"fmt"
	"strings"
)

// PoolRef identifies an on-chain liquidity pool.
type PoolRef struct {
	Network     string // Network slug (e.g., "eth")
	PoolAddress string // Pool contract address
}

// ParsePoolRef parses a pool id of the form "network_address" or
// "network:address". Any other shape is rejected before a network call is made.
func ParsePoolRef(poolID string) (PoolRef, error) {
	if poolID == "" {
		return PoolRef{}, fmt.Errorf("empty pool id")
	}

	sep := "_"
	if strings.Contains(poolID, ":") {
		sep = ":"
	}

	parts := strings.Split(poolID, sep)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return PoolRef{}, fmt.Errorf("invalid pool id %q: want network%saddress", poolID, sep)
	}

	return PoolRef{Network: parts[0], PoolAddress: parts[1]}, nil
}
