package dashboard

import (
	"context"
	"sort"
	"strings"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/api"
)

// SearchResult is one ranked, price-enriched search hit.
type SearchResult struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Symbol        string           `json:"symbol"`
	MarketCapRank int              `json:"market_cap_rank"`
	Thumb         string           `json:"thumb"`
	Large         string           `json:"large"`
	Data          SearchResultData `json:"data"`
}

// SearchResultData carries the price block attached to a result.
type SearchResultData struct {
	Price                    float64 `json:"price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

// rankCoins orders search hits: exact symbol match first, then exact name
// match, then ascending market-cap rank (unranked coins last). The input is
// not modified.
func rankCoins(coins []api.SearchCoin, query string) []api.SearchCoin {
	ranked := make([]api.SearchCoin, len(coins))
	copy(ranked, coins)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		aExactSymbol := strings.EqualFold(a.Symbol, query)
		bExactSymbol := strings.EqualFold(b.Symbol, query)
		if aExactSymbol != bExactSymbol {
			return aExactSymbol
		}

		aExactName := strings.EqualFold(a.Name, query)
		bExactName := strings.EqualFold(b.Name, query)
		if aExactName != bExactName {
			return aExactName
		}

		return rankOrLast(a.MarketCapRank) < rankOrLast(b.MarketCapRank)
	})

	return ranked
}

// rankOrLast maps the API's "no rank" zero value behind every real rank.
func rankOrLast(rank int) int {
	if rank <= 0 {
		return int(^uint(0) >> 1)
	}
	return rank
}

// searchCoins runs a ranked search and enriches the top hits with spot price
// and 24h change. Upstream failures degrade to an empty result list; the
// search modal never shows an error state.
func (s *Server) searchCoins(ctx context.Context, query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []SearchResult{}
	}

	resp, err := s.client.Search(ctx, query)
	if err != nil {
		s.logger.Warn("coin search failed", "query", query, "err", err)
		return []SearchResult{}
	}
	if len(resp.Coins) == 0 {
		return []SearchResult{}
	}

	ranked := rankCoins(resp.Coins, query)
	if len(ranked) > s.cfg.Dashboard.SearchLimit {
		ranked = ranked[:s.cfg.Dashboard.SearchLimit]
	}

	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.ID)
	}

	prices, err := s.client.GetSimplePriceRetried(ctx, ids, api.SimplePriceOptions{Include24hChange: true})
	if err != nil {
		s.logger.Warn("search price enrichment failed", "query", query, "err", err)
		prices = api.SimplePriceResponse{}
	}

	results := make([]SearchResult, 0, len(ranked))
	for _, c := range ranked {
		p := prices[c.ID]
		results = append(results, SearchResult{
			ID:            c.ID,
			Name:          c.Name,
			Symbol:        c.Symbol,
			MarketCapRank: c.MarketCapRank,
			Thumb:         c.Thumb,
			Large:         c.Large,
			Data: SearchResultData{
				Price:                    p.USD,
				PriceChangePercentage24h: p.USD24hChange,
			},
		})
	}

	return results
}
