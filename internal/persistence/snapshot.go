package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"PerpMarket/internal/core"
	"PerpMarket/internal/oracle"
	"PerpMarket/internal/state"
)

// SnapshotManager stores periodic full-state snapshots so a restart can skip
// most of the event log: load the latest verified snapshot, restore the
// engine from it, and resume the durable consumers.
type SnapshotManager struct {
	db *sql.DB
}

// SnapshotData is the full engine state at one event sequence, plus the
// oracle history the engine needs to keep settling after a restore.
type SnapshotData struct {
	Sequence    int64                       `json:"sequence"`
	StateHash   []byte                      `json:"state_hash"`
	Global      core.GlobalSnapshot         `json:"global"`
	Checkpoints map[uint64]state.Checkpoint `json:"checkpoints"`
	Accounts    []core.AccountSnapshot      `json:"accounts"`
	Oracle      []oracle.Version            `json:"oracle"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// NewSnapshotData packages an engine capture and the oracle history.
func NewSnapshotData(rs core.RestoreState, history []oracle.Version) *SnapshotData {
	hash := make([]byte, len(rs.StateHash))
	copy(hash, rs.StateHash[:])

	return &SnapshotData{
		Sequence:    rs.Sequence,
		StateHash:   hash,
		Global:      rs.Global,
		Checkpoints: rs.Checkpoints,
		Accounts:    rs.Accounts,
		Oracle:      history,
		CreatedAt:   time.Now().UTC(),
	}
}

// RestoreState converts back into the engine's restore form.
func (s *SnapshotData) RestoreState() core.RestoreState {
	rs := core.RestoreState{
		Sequence:    s.Sequence,
		Global:      s.Global,
		Checkpoints: s.Checkpoints,
		Accounts:    s.Accounts,
	}
	copy(rs.StateHash[:], s.StateHash)
	return rs
}

func NewSnapshotManager(db *sql.DB) *SnapshotManager {
	return &SnapshotManager{db: db}
}

// SaveSnapshot persists a snapshot. Re-snapshotting the same sequence
// overwrites in place.
func (sm *SnapshotManager) SaveSnapshot(ctx context.Context, snap *SnapshotData) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = sm.db.ExecContext(ctx, `
		INSERT INTO market_log.snapshots
			(snapshot_id, sequence, data, state_hash, size_bytes, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		ON CONFLICT (sequence) DO UPDATE SET data = $3, state_hash = $4, size_bytes = $5
	`, uuid.New(), snap.Sequence, data, snap.StateHash, len(data), snap.CreatedAt)

	return err
}

// LoadLatestSnapshot returns the most recent verified snapshot, or nil on a
// cold start.
func (sm *SnapshotManager) LoadLatestSnapshot(ctx context.Context) (*SnapshotData, error) {
	row := sm.db.QueryRowContext(ctx, `
		SELECT data FROM market_log.snapshots
		WHERE verified = TRUE
		ORDER BY sequence DESC
		LIMIT 1
	`)

	var data []byte
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap SnapshotData
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// MarkVerified flags a snapshot after its state hash has been checked against
// the event log.
func (sm *SnapshotManager) MarkVerified(ctx context.Context, sequence int64) error {
	_, err := sm.db.ExecContext(ctx, `
		UPDATE market_log.snapshots SET verified = TRUE WHERE sequence = $1
	`, sequence)
	return err
}
