package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/api"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/config"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/model"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/version"
)

// Server handles dashboard HTTP requests.
type Server struct {
	cfg      *config.Config
	client   *api.Client
	registry *Registry
	logger   *slog.Logger
	mux      *http.ServeMux
}

// NewServer creates the dashboard HTTP server.
func NewServer(cfg *config.Config, client *api.Client, registry *Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		client:   client,
		registry: registry,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/coins/{id}", s.handleCoin)
	s.mux.HandleFunc("GET /api/trending", s.handleTrending)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/pools", s.handlePools)
	s.mux.HandleFunc("POST /api/live", s.handleLiveCreate)
	s.mux.HandleFunc("GET /api/live/{sid}", s.handleLiveView)
	s.mux.HandleFunc("PUT /api/live/{sid}", s.handleLiveIdentity)
	s.mux.HandleFunc("DELETE /api/live/{sid}", s.handleLiveDelete)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response failed", "err", err)
	}
}

// CoinResponse bundles coin detail with its recent candle history.
type CoinResponse struct {
	Coin *api.CoinDetail `json:"coin"`
	OHLC []model.Candle  `json:"ohlc"`
}

// handleCoin serves coin detail plus 1-day OHLC history for the overview chart.
func (s *Server) handleCoin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	coin, err := s.client.GetCoin(r.Context(), id)
	if err != nil {
		s.logger.Warn("coin fetch failed", "coin", id, "err", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}

	ohlc, err := s.client.GetCoinOHLC(r.Context(), id, 1)
	if err != nil {
		s.logger.Warn("ohlc fetch failed", "coin", id, "err", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}

	// Upstream caches this data for 60s; let browsers do the same.
	w.Header().Set("Cache-Control", "public, max-age=60")
	s.writeJSON(w, http.StatusOK, CoinResponse{Coin: coin, OHLC: ohlc})
}

// handleTrending serves the trending-coins table data.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	resp, err := s.client.GetTrending(r.Context())
	if err != nil {
		s.logger.Warn("trending fetch failed", "err", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}

	coins := resp.Coins
	if len(coins) > s.cfg.Dashboard.TrendingLimit {
		coins = coins[:s.cfg.Dashboard.TrendingLimit]
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	s.writeJSON(w, http.StatusOK, coins)
}

// handleSearch serves ranked coin search. Errors degrade to an empty list so
// the search modal never breaks.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	s.writeJSON(w, http.StatusOK, s.searchCoins(r.Context(), query))
}

type liveCreateRequest struct {
	CoinID string `json:"coin_id"`
	PoolID string `json:"pool_id"`
}

type liveCreateResponse struct {
	SessionID string `json:"session_id"`
}

// handleLiveCreate starts a live stream session.
func (s *Server) handleLiveCreate(w http.ResponseWriter, r *http.Request) {
	var req liveCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CoinID == "" {
		http.Error(w, "coin_id is required", http.StatusBadRequest)
		return
	}

	sid, err := s.registry.Create(req.CoinID, req.PoolID)
	if err != nil {
		s.logger.Error("session create failed", "coin", req.CoinID, "err", err)
		http.Error(w, "session create failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, liveCreateResponse{SessionID: sid})
}

// handleLiveView serves the current view snapshot of a session.
func (s *Server) handleLiveView(w http.ResponseWriter, r *http.Request) {
	view, ok := s.registry.View(r.PathValue("sid"))
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	// Live data: never cache.
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, view)
}

// handleLiveIdentity switches a session's (coin, pool) identity.
func (s *Server) handleLiveIdentity(w http.ResponseWriter, r *http.Request) {
	var req liveCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CoinID == "" {
		http.Error(w, "coin_id is required", http.StatusBadRequest)
		return
	}

	if !s.registry.SetIdentity(r.PathValue("sid"), req.CoinID, req.PoolID) {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleLiveDelete tears a session down.
func (s *Server) handleLiveDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !s.registry.Delete(ctx, r.PathValue("sid")) {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth reports component health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status     string         `json:"status"`
		Version    string         `json:"version"`
		Components map[string]any `json:"components"`
	}{
		Status:  "healthy",
		Version: version.String(),
		Components: map[string]any{
			"upstream": map[string]string{
				"base_url": s.cfg.API.BaseURL,
			},
			"live_sessions": s.registry.Count(),
		},
	}

	s.writeJSON(w, http.StatusOK, health)
}
