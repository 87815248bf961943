package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"PerpMarket/internal/core"
	"PerpMarket/internal/fixed"
	"PerpMarket/internal/ledger"
	"PerpMarket/internal/observability"
	"PerpMarket/internal/query"
)

// Server is the HTTP API: state-changing calls delegate to the settlement
// engine, reads to the query service.
type Server struct {
	market  *core.Market
	query   *query.Service
	health  *observability.HealthChecker
	log     zerolog.Logger
	metrics *observability.Metrics
}

func New(market *core.Market, q *query.Service, health *observability.HealthChecker, log zerolog.Logger, metrics *observability.Metrics) *Server {
	return &Server{
		market:  market,
		query:   q,
		health:  health,
		log:     log,
		metrics: metrics,
	}
}

// Router builds the chi router with the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.observe)

	r.Get("/healthz", s.health.LivenessHandler)
	r.Get("/readyz", s.health.ReadinessHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/settle", s.handleSettle)
		r.Get("/market", s.handleMarket)
		r.Get("/funding", s.handleFundingHistory)
		r.Get("/events", s.handleEvents)
		r.Get("/checkpoints/{version}", s.handleCheckpoint)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleAccounts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleAccount)
				r.Post("/settle", s.handleAccountSettle)
				r.Post("/update", s.handleUpdate)
				r.Post("/liquidate", s.handleLiquidate)
				r.Post("/rewards/claim", s.handleRewardClaim)
			})
		})

		r.Post("/fees/protocol/claim", s.handleFeeClaim(s.market.ClaimProtocolFee))
		r.Post("/fees/market/claim", s.handleFeeClaim(s.market.ClaimMarketFee))
	})

	return r
}

// observe records per-route request counts and latency.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		s.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ----------------------------------------------------------------------------
// handlers
// ----------------------------------------------------------------------------

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	if err := s.market.Settle(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.query.Market(r.Context()))
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.query.Market(r.Context()))
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.query.Accounts(r.Context()))
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}
	snap, err := s.query.Account(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAccountSettle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}
	if err := s.market.SettleAccount(id); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.query.Account(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// updateRequest carries a full replacement position plus a signed collateral
// delta. Amounts are decimal strings.
type updateRequest struct {
	Maker           fixed.UDec6 `json:"maker"`
	Long            fixed.UDec6 `json:"long"`
	Short           fixed.UDec6 `json:"short"`
	CollateralDelta fixed.Dec6  `json:"collateral_delta"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}

	err := s.market.Update(r.Context(), id, req.Maker, req.Long, req.Short, req.CollateralDelta)
	if err != nil {
		s.writeError(w, err)
		return
	}

	snap, err := s.query.Account(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

type liquidateRequest struct {
	Liquidator uuid.UUID `json:"liquidator"`
}

func (s *Server) handleLiquidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}

	var req liquidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}
	if req.Liquidator == uuid.Nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("liquidator is required"))
		return
	}

	if err := s.market.Liquidate(r.Context(), id, req.Liquidator); err != nil {
		s.writeError(w, err)
		return
	}

	snap, err := s.query.Account(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRewardClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}
	amount, err := s.market.ClaimReward(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"amount": amount})
}

type feeClaimRequest struct {
	Recipient uuid.UUID `json:"recipient"`
}

func (s *Server) handleFeeClaim(claim func(context.Context, uuid.UUID) (fixed.UDec6, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feeClaimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
			return
		}
		if req.Recipient == uuid.Nil {
			s.writeJSON(w, http.StatusBadRequest, errorBody("recipient is required"))
			return
		}

		amount, err := claim(r.Context(), req.Recipient)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"amount": amount})
	}
}

func (s *Server) handleCheckpoint(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.ParseUint(chi.URLParam(r, "version"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid version"))
		return
	}
	resp, ok := s.query.Checkpoint(r.Context(), version)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorBody("version not settled"))
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFundingHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	s.writeJSON(w, http.StatusOK, s.query.FundingHistory(r.Context(), limit))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	from := int64(queryInt(r, "from", 1))
	limit := queryInt(r, "limit", 100)
	if limit > 1000 {
		limit = 1000
	}

	events, err := s.query.Events(r.Context(), from, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}

// ----------------------------------------------------------------------------
// plumbing
// ----------------------------------------------------------------------------

func (s *Server) accountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid account id"))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps engine errors onto HTTP statuses. Precondition failures are
// client errors; arithmetic faults and everything unexpected are 500s.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrUnknownAccount):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrPaused),
		errors.Is(err, core.ErrClosed),
		errors.Is(err, core.ErrInLiquidation),
		errors.Is(err, core.ErrNotLiquidatable):
		status = http.StatusConflict
	case errors.Is(err, core.ErrMakerOverLimit),
		errors.Is(err, core.ErrInsufficientLiquidity),
		errors.Is(err, core.ErrInsufficientCollateral),
		errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, errorBody(err.Error()))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}
