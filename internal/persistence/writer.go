package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EventRow is one row of market_log.events, the durable form of an engine
// event envelope.
type EventRow struct {
	Sequence  int64
	EventType string
	Version   uint64
	Payload   []byte // JSON-encoded payload
	StateHash []byte
	PrevHash  []byte
	Timestamp int64 // oracle timestamp, seconds
}

// CheckpointRow is one row of market_log.checkpoints: the cumulative
// accumulator entry at a settled oracle version. Values are stored as text to
// keep the full decimal precision.
type CheckpointRow struct {
	Version     uint64
	Price       string
	MakerValue  string
	LongValue   string
	ShortValue  string
	MakerReward string
	LongReward  string
	ShortReward string
}

// MarketLogWriter batch-writes events and checkpoints using multi-row
// INSERT. Both tables conflict on their natural key and DO NOTHING, so
// replayed batches are idempotent.
type MarketLogWriter struct {
	db *sql.DB
}

func NewMarketLogWriter(db *sql.DB) *MarketLogWriter {
	return &MarketLogWriter{db: db}
}

func (w *MarketLogWriter) WriteEventBatch(ctx context.Context, ex execer, events []EventRow) error {
	if len(events) == 0 {
		return nil
	}

	query := `INSERT INTO market_log.events
		(sequence, event_type, version, payload, state_hash, prev_hash, timestamp)
		VALUES `

	values := make([]string, 0, len(events))
	args := make([]any, 0, len(events)*7)

	for i, e := range events {
		base := i * 7
		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args,
			e.Sequence, e.EventType, e.Version, e.Payload,
			e.StateHash, e.PrevHash, e.Timestamp,
		)
	}

	query += strings.Join(values, ", ")
	query += " ON CONFLICT (sequence) DO NOTHING"

	_, err := ex.ExecContext(ctx, query, args...)
	return err
}

func (w *MarketLogWriter) WriteCheckpointBatch(ctx context.Context, ex execer, checkpoints []CheckpointRow) error {
	if len(checkpoints) == 0 {
		return nil
	}

	query := `INSERT INTO market_log.checkpoints
		(version, price, maker_value, long_value, short_value, maker_reward, long_reward, short_reward)
		VALUES `

	values := make([]string, 0, len(checkpoints))
	args := make([]any, 0, len(checkpoints)*8)

	for i, c := range checkpoints {
		base := i * 8
		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args,
			c.Version, c.Price, c.MakerValue, c.LongValue, c.ShortValue,
			c.MakerReward, c.LongReward, c.ShortReward,
		)
	}

	query += strings.Join(values, ", ")
	query += " ON CONFLICT (version) DO NOTHING"

	_, err := ex.ExecContext(ctx, query, args...)
	return err
}

// LoadEventsFrom returns events at or after a sequence, in order. Used for
// replay on restart and by the history API.
func (w *MarketLogWriter) LoadEventsFrom(ctx context.Context, fromSequence int64, limit int) ([]EventRow, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT sequence, event_type, version, payload, state_hash, prev_hash, timestamp
		FROM market_log.events
		WHERE sequence >= $1
		ORDER BY sequence ASC
		LIMIT $2
	`, fromSequence, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []EventRow
	for rows.Next() {
		var e EventRow
		if err := rows.Scan(
			&e.Sequence, &e.EventType, &e.Version, &e.Payload,
			&e.StateHash, &e.PrevHash, &e.Timestamp,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// LatestSequence returns the highest persisted event sequence, 0 for an
// empty log.
func (w *MarketLogWriter) LatestSequence(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := w.db.QueryRowContext(ctx, `SELECT MAX(sequence) FROM market_log.events`).Scan(&seq)
	if err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}
