package stream

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/api"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/model"
)

// ViewHandler receives the published view after each state change.
type ViewHandler interface {
	HandleView(view model.StreamView)
}

// ViewHandlerFunc is a function adapter for ViewHandler.
type ViewHandlerFunc func(model.StreamView)

func (f ViewHandlerFunc) HandleView(v model.StreamView) {
	f(v)
}

// Config holds stream session configuration.
type Config struct {
	CoinID string // Coin to stream prices for
	PoolID string // Optional pool ("network_address") to stream trades for

	PriceInterval  time.Duration // Price poll interval (default: 60s, upstream cache)
	TradesInterval time.Duration // Trades poll interval (default: 60s)
	RateLimitPause time.Duration // Cooldown after a 429 (default: 60s)
	Timeout        time.Duration // Per-request timeout (default: 10s)
	TradeLimit     int           // Max trades kept in the view (default: 7)
}

// DefaultConfig returns sensible defaults matching the upstream cache windows.
func DefaultConfig() Config {
	return Config{
		PriceInterval:  60 * time.Second,
		TradesInterval: 60 * time.Second,
		RateLimitPause: 60 * time.Second,
		Timeout:        10 * time.Second,
		TradeLimit:     7,
	}
}

// generation owns all state derived from one (coin, pool) identity. A new
// identity gets a fresh generation; the old one is cancelled and dropped
// wholesale, which is what guarantees a stale in-flight response cannot be
// applied to the new identity.
type generation struct {
	coinID string
	poolID string

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	view           model.StreamView
	candle         liveCandle
	priceCooldown  cooldown
	tradesCooldown cooldown
}

// Session simulates a push-based market-data feed for a single subscriber by
// polling the REST API. It is safe for concurrent use.
type Session struct {
	cfg     Config
	client  *api.Client
	handler ViewHandler
	logger  *slog.Logger

	mu         sync.Mutex
	gen        *generation
	lastCoinID string
	lastPoolID string
	started    bool
	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a stream session. handler may be nil; consumers can also poll
// View directly.
func New(cfg Config, client *api.Client, handler ViewHandler, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		cfg:        cfg,
		client:     client,
		handler:    handler,
		logger:     logger,
		lastCoinID: cfg.CoinID,
		lastPoolID: cfg.PoolID,
	}
}

// Start begins polling: one immediate price fetch (and trade fetch when a
// pool is tracked), then recurring fetches on the configured intervals.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx, s.baseCancel = context.WithCancel(ctx)
	s.started = true
	s.startGenerationLocked(s.lastCoinID, s.lastPoolID)
	s.mu.Unlock()

	s.logger.Info("stream session started",
		"coin", s.lastCoinID,
		"pool", s.lastPoolID,
		"price_interval", s.cfg.PriceInterval,
		"trades_interval", s.cfg.TradesInterval,
	)

	return nil
}

// Stop tears the session down. In-flight fetches are cancelled; any response
// that still completes lands in a discarded generation.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.started = false
	if s.baseCancel != nil {
		s.baseCancel()
	}
	s.gen = nil
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("stream session stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetIdentity switches the session to a new (coin, pool) identity. Values are
// compared against the last-seen identity, not the in-memory derived state; a
// no-op call with unchanged ids keeps everything running. On change, derived
// state is reset and the pollers restart against the new identity.
func (s *Session) SetIdentity(coinID, poolID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if coinID == s.lastCoinID && poolID == s.lastPoolID {
		return
	}

	s.logger.Info("stream identity changed",
		"coin", coinID,
		"pool", poolID,
		"prev_coin", s.lastCoinID,
		"prev_pool", s.lastPoolID,
	)

	if s.gen != nil {
		s.gen.cancel()
		s.gen = nil
	}
	s.lastCoinID = coinID
	s.lastPoolID = poolID

	if s.started {
		s.startGenerationLocked(coinID, poolID)
	}
}

// View returns a copy of the current published state.
func (s *Session) View() model.StreamView {
	s.mu.Lock()
	g := s.gen
	s.mu.Unlock()

	if g == nil {
		return model.StreamView{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	view := g.view
	view.Trades = slices.Clone(g.view.Trades)
	return view
}

// isCurrent reports whether g is still the session's live generation.
func (s *Session) isCurrent(g *generation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == g
}

// startGenerationLocked spins up pollers for a fresh identity. Caller holds s.mu.
func (s *Session) startGenerationLocked(coinID, poolID string) {
	g := &generation{coinID: coinID, poolID: poolID}
	g.ctx, g.cancel = context.WithCancel(s.baseCtx)
	s.gen = g

	s.wg.Add(1)
	go s.runPricePoller(g)

	if poolID != "" {
		s.wg.Add(1)
		go s.runTradePoller(g)
	}
}

// runPricePoller fetches immediately, then on every tick.
func (s *Session) runPricePoller(g *generation) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PriceInterval)
	defer ticker.Stop()

	s.fetchPrice(g)

	for {
		select {
		case <-g.ctx.Done():
			return
		case <-ticker.C:
			s.fetchPrice(g)
		}
	}
}

// runTradePoller fetches immediately, then on every tick.
func (s *Session) runTradePoller(g *generation) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.TradesInterval)
	defer ticker.Stop()

	s.fetchTrades(g)

	for {
		select {
		case <-g.ctx.Done():
			return
		case <-ticker.C:
			s.fetchTrades(g)
		}
	}
}

// fetchPrice performs one price poll: fetch, build the sample, fold it into
// the live candle, publish. Failures are logged and absorbed; the next tick
// retries.
func (s *Session) fetchPrice(g *generation) {
	if g.coinID == "" {
		return
	}

	g.mu.Lock()
	cooling := g.priceCooldown.Active(time.Now())
	g.mu.Unlock()
	if cooling {
		s.logger.Debug("price fetch suppressed by cooldown", "coin", g.coinID)
		return
	}

	ctx, cancel := context.WithTimeout(g.ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.client.GetSimplePrice(ctx, []string{g.coinID}, api.FullSimplePriceOptions())
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
			g.mu.Lock()
			g.priceCooldown.Engage(time.Now(), s.cfg.RateLimitPause)
			g.mu.Unlock()
			s.logger.Warn("rate limited on price, pausing",
				"coin", g.coinID,
				"pause", s.cfg.RateLimitPause,
			)
			return
		}
		if g.ctx.Err() != nil {
			return // torn down mid-flight, expected race
		}
		s.logger.Warn("price fetch failed", "coin", g.coinID, "err", err)
		return
	}

	entry, ok := resp[g.coinID]
	if !ok {
		// Success with no data for the id: not an error, no state change.
		return
	}

	tsMs := entry.LastUpdatedAt * 1000
	if entry.LastUpdatedAt == 0 {
		tsMs = time.Now().UnixMilli()
	}

	sample := model.PriceSample{
		Coin:        g.coinID,
		USD:         entry.USD,
		Price:       entry.USD,
		Change24h:   entry.USD24hChange,
		MarketCap:   entry.USDMarketCap,
		Volume24h:   entry.USD24hVol,
		TimestampMs: tsMs,
	}

	if g.ctx.Err() != nil {
		return
	}

	g.mu.Lock()
	g.view.Price = &sample
	candle := g.candle.update(entry.USD, tsMs)
	g.view.Candle = &candle
	firstConnect := !g.view.Connected
	g.view.Connected = true
	view := g.view
	view.Trades = slices.Clone(g.view.Trades)
	g.mu.Unlock()

	if firstConnect {
		s.logger.Info("stream connected", "coin", g.coinID)
	}

	// An identity switch may have landed while the response was applied; the
	// handler must never see a view from a discarded generation.
	if !s.isCurrent(g) {
		return
	}
	s.publish(view)
}

// fetchTrades performs one trade poll for the tracked pool.
func (s *Session) fetchTrades(g *generation) {
	if g.poolID == "" {
		return
	}

	g.mu.Lock()
	cooling := g.tradesCooldown.Active(time.Now())
	g.mu.Unlock()
	if cooling {
		s.logger.Debug("trade fetch suppressed by cooldown", "pool", g.poolID)
		return
	}

	ref, err := model.ParsePoolRef(g.poolID)
	if err != nil {
		s.logger.Warn("invalid pool id, skipping trade fetch", "pool", g.poolID, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(g.ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.client.GetPoolTrades(ctx, ref)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
			g.mu.Lock()
			g.tradesCooldown.Engage(time.Now(), s.cfg.RateLimitPause)
			g.mu.Unlock()
			s.logger.Warn("rate limited on trades, pausing",
				"pool", g.poolID,
				"pause", s.cfg.RateLimitPause,
			)
			return
		}
		if g.ctx.Err() != nil {
			return
		}
		s.logger.Warn("trade fetch failed", "pool", g.poolID, "err", err)
		return
	}

	if len(resp.Data) == 0 {
		// Stale-but-valid beats empty: keep whatever is displayed.
		return
	}

	trades := make([]model.Trade, 0, len(resp.Data))
	for _, t := range resp.Data {
		trades = append(trades, t.ToModel())
	}

	// The API is assumed to return newest-first, but that is observed rather
	// than documented. Sort before capping.
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].TimestampMs > trades[j].TimestampMs
	})
	if len(trades) > s.cfg.TradeLimit {
		trades = trades[:s.cfg.TradeLimit]
	}

	if g.ctx.Err() != nil {
		return
	}

	g.mu.Lock()
	g.view.Trades = trades
	view := g.view
	view.Trades = slices.Clone(trades)
	g.mu.Unlock()

	if !s.isCurrent(g) {
		return
	}
	s.publish(view)
}

func (s *Session) publish(view model.StreamView) {
	if s.handler != nil {
		s.handler.HandleView(view)
	}
}
