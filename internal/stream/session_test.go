package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/api"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/model"
)

func newTestGeneration(coinID, poolID string) *generation {
	g := &generation{coinID: coinID, poolID: poolID}
	g.ctx, g.cancel = context.WithCancel(context.Background())
	return g
}

func priceBody(id string, usd float64, lastUpdated int64) string {
	return fmt.Sprintf(`{%q: {"usd": %v, "usd_24h_change": 1.5, "usd_market_cap": 1e9, "usd_24h_vol": 5e7, "last_updated_at": %d}}`, id, usd, lastUpdated)
}

func TestFetchPrice_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("path = %q, want /simple/price", r.URL.Path)
		}
		if r.URL.Query().Get("ids") != "bitcoin" {
			t.Errorf("ids = %q, want bitcoin", r.URL.Query().Get("ids"))
		}
		w.Write([]byte(priceBody("bitcoin", 50000, 1754000105)))
	}))
	defer server.Close()

	s := New(Config{CoinID: "bitcoin", Timeout: 5 * time.Second, TradeLimit: 7}, api.NewClient(server.URL, ""), nil, nil)
	g := newTestGeneration("bitcoin", "")

	s.fetchPrice(g)

	if g.view.Price == nil {
		t.Fatal("price not published")
	}
	if g.view.Price.USD != 50000 || g.view.Price.Coin != "bitcoin" {
		t.Errorf("sample = %+v, want usd=50000 coin=bitcoin", g.view.Price)
	}
	if g.view.Price.TimestampMs != 1754000105000 {
		t.Errorf("TimestampMs = %d, want 1754000105000 (last_updated_at * 1000)", g.view.Price.TimestampMs)
	}
	if g.view.Candle == nil {
		t.Fatal("candle not published")
	}
	c := *g.view.Candle
	if c.Open != 50000 || c.High != 50000 || c.Low != 50000 || c.Close != 50000 {
		t.Errorf("candle = %+v, want open=high=low=close=50000", c)
	}
	if c.PeriodStart != 1754000105/60*60 {
		t.Errorf("PeriodStart = %d, want minute-aligned %d", c.PeriodStart, 1754000105/60*60)
	}
	if !g.view.Connected {
		t.Error("connected flag not set after first successful fetch")
	}
}

func TestFetchPrice_RateLimit(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(priceBody("bitcoin", 50000, 1754000105)))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.CoinID = "bitcoin"
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)
	g := newTestGeneration("bitcoin", "")

	// First fetch hits the 429 and engages the cooldown; no state change.
	s.fetchPrice(g)
	if g.view.Price != nil || g.view.Candle != nil || g.view.Connected {
		t.Errorf("view mutated by rate-limited fetch: %+v", g.view)
	}

	// Further ticks are suppressed without issuing requests.
	s.fetchPrice(g)
	s.fetchPrice(g)
	if got := requests.Load(); got != 1 {
		t.Errorf("requests during cooldown = %d, want 1", got)
	}

	// Once the window elapses, fetching resumes.
	g.priceCooldown.until = time.Now().Add(-time.Second)
	s.fetchPrice(g)
	if got := requests.Load(); got != 2 {
		t.Errorf("requests after cooldown = %d, want 2", got)
	}
	if g.view.Price == nil || !g.view.Connected {
		t.Error("fetch after cooldown did not publish")
	}
}

func TestFetchPrice_GenericFailure(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := status.Load(); s != http.StatusOK {
			w.WriteHeader(int(s))
			return
		}
		w.Write([]byte(priceBody("bitcoin", 50000, 1754000105)))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.CoinID = "bitcoin"
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)
	g := newTestGeneration("bitcoin", "")

	s.fetchPrice(g)
	if g.view.Price == nil {
		t.Fatal("initial fetch did not publish")
	}

	// A transient failure changes nothing; connected never reverts.
	status.Store(http.StatusInternalServerError)
	s.fetchPrice(g)
	if g.view.Price.USD != 50000 {
		t.Errorf("price changed on failure: %v", g.view.Price.USD)
	}
	if !g.view.Connected {
		t.Error("connected flag reverted on transient failure")
	}
}

func TestFetchPrice_NoDataForID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.CoinID = "unknown-coin"
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)
	g := newTestGeneration("unknown-coin", "")

	s.fetchPrice(g)
	if g.view.Price != nil || g.view.Connected {
		t.Errorf("empty lookup mutated view: %+v", g.view)
	}
}

func tradesBody(entries ...string) string {
	return `{"data": [` + strings.Join(entries, ",") + `]}`
}

func tradeEntry(price, volume, amount, ts, kind string) string {
	return fmt.Sprintf(`{"id": "t", "type": "trade", "attributes": {
		"price_from_in_usd": %q, "volume_in_usd": %q, "from_token_amount": %q,
		"block_timestamp": %q, "kind": %q}}`, price, volume, amount, ts, kind)
}

func TestFetchTrades_Success(t *testing.T) {
	// Ten trades, deliberately out of order, to exercise the defensive sort
	// and the cap.
	var entries []string
	for i := 0; i < 10; i++ {
		ts := time.Date(2026, 1, 2, 12, 0, i*5, 0, time.UTC).Format(time.RFC3339)
		entries = append(entries, tradeEntry(fmt.Sprintf("%d.5", 100+i), "1000", "2.5", ts, "buy"))
	}
	entries[0], entries[9] = entries[9], entries[0]

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/onchain/networks/eth/pools/0xabc/trades"
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		if r.URL.Query().Get("trade_volume_in_usd_greater_than") != "0" {
			t.Error("missing trade_volume_in_usd_greater_than filter")
		}
		w.Write([]byte(tradesBody(entries...)))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)
	g := newTestGeneration("bitcoin", "eth_0xabc")

	s.fetchTrades(g)

	if len(g.view.Trades) != 7 {
		t.Fatalf("len(trades) = %d, want 7", len(g.view.Trades))
	}
	for i := 1; i < len(g.view.Trades); i++ {
		if g.view.Trades[i].TimestampMs > g.view.Trades[i-1].TimestampMs {
			t.Errorf("trades not newest-first at index %d", i)
		}
	}
	newest := g.view.Trades[0]
	if newest.Price != 109.5 || newest.Value != 1000 || newest.Amount != 2.5 || newest.Kind != model.TradeBuy {
		t.Errorf("newest trade = %+v, want price=109.5 value=1000 amount=2.5 kind=buy", newest)
	}
}

func TestFetchTrades_MalformedPoolID(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)

	for _, poolID := range []string{"ethereum", "a:b:c", "eth_"} {
		g := newTestGeneration("bitcoin", poolID)
		prior := []model.Trade{{Price: 1}}
		g.view.Trades = prior

		s.fetchTrades(g)

		if requests.Load() != 0 {
			t.Errorf("poolID %q issued a network call", poolID)
		}
		if len(g.view.Trades) != 1 {
			t.Errorf("poolID %q mutated trades", poolID)
		}
	}
}

func TestFetchTrades_EmptyResponseKeepsPrior(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)
	g := newTestGeneration("bitcoin", "eth_0xabc")
	g.view.Trades = []model.Trade{{Price: 42, Kind: model.TradeSell}}

	s.fetchTrades(g)

	if len(g.view.Trades) != 1 || g.view.Trades[0].Price != 42 {
		t.Errorf("empty response cleared trades: %+v", g.view.Trades)
	}
}

func TestFetchTrades_RateLimit(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)
	g := newTestGeneration("bitcoin", "eth_0xabc")

	s.fetchTrades(g)
	s.fetchTrades(g)
	if got := requests.Load(); got != 1 {
		t.Errorf("requests during cooldown = %d, want 1", got)
	}
	if len(g.view.Trades) != 0 {
		t.Errorf("rate-limited fetch mutated trades: %+v", g.view.Trades)
	}

	// The price cooldown is independent: a trade 429 must not suppress prices.
	if g.priceCooldown.Active(time.Now()) {
		t.Error("trade rate limit engaged the price cooldown")
	}
}

func TestSession_StartStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(priceBody("bitcoin", 50000, 0)))
	}))
	defer server.Close()

	published := make(chan model.StreamView, 16)
	handler := ViewHandlerFunc(func(v model.StreamView) {
		select {
		case published <- v:
		default:
		}
	})

	cfg := DefaultConfig()
	cfg.CoinID = "bitcoin"
	cfg.PriceInterval = 50 * time.Millisecond
	s := New(cfg, api.NewClient(server.URL, ""), handler, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case v := <-published:
		if v.Price == nil || !v.Connected {
			t.Errorf("published view = %+v, want connected with price", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no view published")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if v := s.View(); v.Price != nil || v.Connected {
		t.Errorf("View after Stop = %+v, want empty", v)
	}
}

func TestSession_IdentityChangeDiscardsInFlight(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("ids")
		if id == "oldcoin" {
			// Hold the old identity's response until after the switch.
			<-release
			w.Write([]byte(priceBody("oldcoin", 111, 0)))
			return
		}
		w.Write([]byte(priceBody("newcoin", 222, 0)))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.CoinID = "oldcoin"
	cfg.PriceInterval = time.Hour
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	time.Sleep(50 * time.Millisecond) // let the old fetch get in flight
	s.SetIdentity("newcoin", "")
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v := s.View(); v.Price != nil {
			if v.Price.Coin != "newcoin" || v.Price.USD != 222 {
				t.Fatalf("stale identity leaked into view: %+v", v.Price)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("new identity never published")
}

func TestFetchPrice_DiscardedGenerationNotPublished(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(priceBody("bitcoin", 50000, 1754000105)))
	}))
	defer server.Close()

	var published atomic.Int32
	handler := ViewHandlerFunc(func(model.StreamView) {
		published.Add(1)
	})

	cfg := DefaultConfig()
	cfg.CoinID = "bitcoin"
	s := New(cfg, api.NewClient(server.URL, ""), handler, nil)

	// g is not the session's live generation (an identity switch has replaced
	// it), so a completed fetch may update g but must not notify the handler.
	g := newTestGeneration("bitcoin", "")
	s.fetchPrice(g)

	if published.Load() != 0 {
		t.Errorf("handler notified %d times for a discarded generation, want 0", published.Load())
	}
	if g.view.Price == nil {
		t.Error("fetch result should still land in the discarded generation")
	}
}

func TestFetchTrades_DiscardedGenerationNotPublished(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC).Format(time.RFC3339)
		w.Write([]byte(tradesBody(tradeEntry("100.5", "1000", "2.5", ts, "buy"))))
	}))
	defer server.Close()

	var published atomic.Int32
	handler := ViewHandlerFunc(func(model.StreamView) {
		published.Add(1)
	})

	s := New(DefaultConfig(), api.NewClient(server.URL, ""), handler, nil)
	g := newTestGeneration("bitcoin", "eth_0xabc")
	s.fetchTrades(g)

	if published.Load() != 0 {
		t.Errorf("handler notified %d times for a discarded generation, want 0", published.Load())
	}
}

func TestSession_SetIdentityUnchangedKeepsState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(priceBody("bitcoin", 50000, 0)))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.CoinID = "bitcoin"
	cfg.PoolID = "eth_0xabc"
	cfg.PriceInterval = time.Hour
	s := New(cfg, api.NewClient(server.URL, ""), nil, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	s.mu.Lock()
	before := s.gen
	s.mu.Unlock()

	// Same values: no reset, same generation keeps running.
	s.SetIdentity("bitcoin", "eth_0xabc")

	s.mu.Lock()
	after := s.gen
	s.mu.Unlock()

	if before != after {
		t.Error("unchanged identity triggered a generation reset")
	}
}
