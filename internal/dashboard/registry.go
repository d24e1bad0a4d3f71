package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/api"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/config"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/model"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/stream"
)

// entry tracks one live session and when it was last read.
type entry struct {
	session    *stream.Session
	lastAccess time.Time
}

// Registry owns the live stream sessions, keyed by session id.
type Registry struct {
	cfg    *config.Config
	client *api.Client
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a session registry.
func NewRegistry(cfg *config.Config, client *api.Client, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:      cfg,
		client:   client,
		logger:   logger,
		sessions: make(map[string]*entry),
	}
}

// Start launches the janitor loop that reaps idle sessions.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.janitorLoop()

	r.logger.Info("session registry started", "session_ttl", r.cfg.Dashboard.SessionTTL)
	return nil
}

// Stop tears down every live session and the janitor.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	r.mu.Lock()
	sessions := make([]*stream.Session, 0, len(r.sessions))
	for id, e := range r.sessions {
		sessions = append(sessions, e.session)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		if err := s.Stop(ctx); err != nil {
			r.logger.Warn("session stop timed out", "err", err)
		}
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("session registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Create starts a new live session for the given identity and returns its id.
func (r *Registry) Create(coinID, poolID string) (string, error) {
	cfg := stream.Config{
		CoinID:         coinID,
		PoolID:         poolID,
		PriceInterval:  r.cfg.Stream.PriceInterval,
		TradesInterval: r.cfg.Stream.TradesInterval,
		RateLimitPause: r.cfg.Stream.RateLimitPause,
		Timeout:        r.cfg.API.Timeout,
		TradeLimit:     r.cfg.Stream.TradeLimit,
	}

	s := stream.New(cfg, r.client, nil, r.logger)
	if err := s.Start(r.ctx); err != nil {
		return "", err
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &entry{session: s, lastAccess: time.Now()}
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("live session created", "sid", id, "coin", coinID, "pool", poolID, "sessions", count)
	return id, nil
}

// View returns the current view of a session, refreshing its idle timer.
func (r *Registry) View(id string) (model.StreamView, bool) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		e.lastAccess = time.Now()
	}
	r.mu.Unlock()

	if !ok {
		return model.StreamView{}, false
	}
	return e.session.View(), true
}

// SetIdentity switches a session to a new (coin, pool) identity.
func (r *Registry) SetIdentity(id, coinID, poolID string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		e.lastAccess = time.Now()
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.session.SetIdentity(coinID, poolID)
	return true
}

// Delete stops and removes a session.
func (r *Registry) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return false
	}

	if err := e.session.Stop(ctx); err != nil {
		r.logger.Warn("session stop timed out", "sid", id, "err", err)
	}
	r.logger.Info("live session deleted", "sid", id)
	return true
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// janitorLoop periodically reaps sessions that have not been read within the TTL.
func (r *Registry) janitorLoop() {
	defer r.wg.Done()

	interval := r.cfg.Dashboard.SessionTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.reapIdle()
		}
	}
}

// reapIdle stops sessions whose last read is older than the TTL.
func (r *Registry) reapIdle() {
	cutoff := time.Now().Add(-r.cfg.Dashboard.SessionTTL)

	r.mu.Lock()
	var stale []*stream.Session
	for id, e := range r.sessions {
		if e.lastAccess.Before(cutoff) {
			stale = append(stale, e.session)
			delete(r.sessions, id)
			r.logger.Info("reaping idle live session", "sid", id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.Stop(ctx); err != nil {
			r.logger.Warn("idle session stop timed out", "err", err)
		}
		cancel()
	}
}
