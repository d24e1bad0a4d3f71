package dashboard

import (
	"context"
	"net/http"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/api"
)

// PoolResult identifies the liquidity pool backing a coin's live trade feed.
// PoolID carries the network prefix ("eth_0x...") accepted by the live
// session's pool identity.
type PoolResult struct {
	PoolID  string `json:"pool_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// resolvePool finds the top pool for a coin. With a network and token
// contract it looks the token's pools up directly; otherwise it falls back to
// a free-text pool search. Failures and empty results degrade to a zero
// result so the dashboard can render without a live trade feed.
func (s *Server) resolvePool(ctx context.Context, query, network, contract string) PoolResult {
	if network != "" && contract != "" {
		resp, err := s.client.GetTokenPools(ctx, network, contract)
		if err != nil {
			s.logger.Warn("token pool lookup failed", "network", network, "contract", contract, "err", err)
			return PoolResult{}
		}
		return firstPool(resp.Data)
	}

	resp, err := s.client.SearchPools(ctx, query)
	if err != nil {
		s.logger.Warn("pool search failed", "query", query, "err", err)
		return PoolResult{}
	}
	return firstPool(resp.Data)
}

func firstPool(pools []api.Pool) PoolResult {
	if len(pools) == 0 {
		return PoolResult{}
	}
	p := pools[0]
	return PoolResult{
		PoolID:  p.ID,
		Name:    p.Attributes.Name,
		Address: p.Attributes.Address,
	}
}

// handlePools resolves the pool to stream trades from. Callers pass either
// network+contract (preferred) or a free-text query (usually the coin id).
func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	network := q.Get("network")
	contract := q.Get("contract")

	if query == "" && (network == "" || contract == "") {
		http.Error(w, "query or network+contract is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	s.writeJSON(w, http.StatusOK, s.resolvePool(r.Context(), query, network, contract))
}
