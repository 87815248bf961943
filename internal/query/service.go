package query

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"

	"PerpMarket/internal/core"
	"PerpMarket/internal/oracle"
	"PerpMarket/internal/persistence"
	"PerpMarket/internal/projection"
	"PerpMarket/internal/state"
)

// Service is the read side: live engine state straight from the market,
// funding history from the projection, and the audit trail from Postgres.
// The log reader may be nil when running without a database.
type Service struct {
	market  *core.Market
	oracle  oracle.Oracle
	funding *projection.FundingHistory
	logRead *persistence.MarketLogWriter
}

func NewService(market *core.Market, o oracle.Oracle, funding *projection.FundingHistory, logRead *persistence.MarketLogWriter) *Service {
	return &Service{
		market:  market,
		oracle:  o,
		funding: funding,
		logRead: logRead,
	}
}

// MarketResponse is the aggregate market view.
type MarketResponse struct {
	Position      state.Position     `json:"position"`
	Pending       state.PendingOrder `json:"pending"`
	LatestVersion uint64             `json:"latest_version"`
	Fee           state.FeeTotals    `json:"fee"`
	Closed        bool               `json:"closed"`
	Paused        bool               `json:"paused"`
	Oracle        oracle.Version     `json:"oracle"`
}

func (s *Service) Market(_ context.Context) MarketResponse {
	g := s.market.GlobalSnapshot()
	return MarketResponse{
		Position:      g.Position,
		Pending:       g.Pending,
		LatestVersion: g.LatestVersion,
		Fee:           g.Fee,
		Closed:        g.Closed,
		Paused:        g.Paused,
		Oracle:        s.oracle.Current(),
	}
}

func (s *Service) Account(_ context.Context, id uuid.UUID) (core.AccountSnapshot, error) {
	return s.market.AccountSnapshot(id)
}

func (s *Service) Accounts(_ context.Context) []core.AccountSnapshot {
	return s.market.Accounts()
}

// CheckpointResponse is one version accumulator entry.
type CheckpointResponse struct {
	Version    uint64           `json:"version"`
	Checkpoint state.Checkpoint `json:"checkpoint"`
}

func (s *Service) Checkpoint(_ context.Context, version uint64) (CheckpointResponse, bool) {
	ck, ok := s.market.CheckpointAt(version)
	if !ok {
		return CheckpointResponse{}, false
	}
	return CheckpointResponse{Version: version, Checkpoint: ck}, true
}

func (s *Service) FundingHistory(_ context.Context, limit int) []projection.FundingEntry {
	return s.funding.Recent(limit)
}

// EventResponse is one audit-log event with hex-encoded hashes.
type EventResponse struct {
	Sequence  int64           `json:"sequence"`
	Type      string          `json:"type"`
	Version   uint64          `json:"version"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
	StateHash string          `json:"state_hash"`
	PrevHash  string          `json:"prev_hash"`
}

// Events reads the persisted audit log from a sequence forward. Returns an
// empty slice when no database is configured.
func (s *Service) Events(ctx context.Context, fromSequence int64, limit int) ([]EventResponse, error) {
	if s.logRead == nil {
		return nil, nil
	}
	rows, err := s.logRead.LoadEventsFrom(ctx, fromSequence, limit)
	if err != nil {
		return nil, err
	}

	out := make([]EventResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, EventResponse{
			Sequence:  r.Sequence,
			Type:      r.EventType,
			Version:   r.Version,
			Timestamp: r.Timestamp,
			Payload:   json.RawMessage(r.Payload),
			StateHash: hex.EncodeToString(r.StateHash),
			PrevHash:  hex.EncodeToString(r.PrevHash),
		})
	}
	return out, nil
}
