package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"PerpMarket/internal/event"
	"PerpMarket/internal/observability"
)

// Record is one unit of durable output: the event row plus, for settlement
// events, the checkpoint written at that version.
type Record struct {
	Event      EventRow
	Checkpoint *CheckpointRow
}

// RecordFromEnvelope converts an engine envelope into its durable form.
func RecordFromEnvelope(env event.Envelope) (Record, error) {
	payload, err := json.Marshal(env.Payload)
	if err != nil {
		return Record{}, fmt.Errorf("marshal payload seq=%d: %w", env.Sequence, err)
	}
	return Record{
		Event: EventRow{
			Sequence:  env.Sequence,
			EventType: env.Type.String(),
			Version:   env.Version,
			Payload:   payload,
			StateHash: env.StateHash[:],
			PrevHash:  env.PrevHash[:],
			Timestamp: env.Timestamp,
		},
	}, nil
}

// Worker drains the record channel and batch-writes to Postgres. The engine
// sends on this channel with blocking semantics: if the worker falls behind,
// settlement stalls rather than losing audit history.
type Worker struct {
	writer       *MarketLogWriter
	input        <-chan Record
	batchSize    int
	flushTimeout time.Duration

	log     zerolog.Logger
	metrics *observability.Metrics
}

func NewWorker(db *sql.DB, input <-chan Record, batchSize int, flushTimeout time.Duration, log zerolog.Logger, metrics *observability.Metrics) *Worker {
	return &Worker{
		writer:       NewMarketLogWriter(db),
		input:        input,
		batchSize:    batchSize,
		flushTimeout: flushTimeout,
		log:          log,
		metrics:      metrics,
	}
}

// Run batches incoming records and flushes when the batch fills or the flush
// timeout expires. Blocks until the context is cancelled or the input channel
// closes.
func (w *Worker) Run(ctx context.Context) error {
	events := make([]EventRow, 0, w.batchSize)
	checkpoints := make([]CheckpointRow, 0, w.batchSize)

	timer := time.NewTimer(w.flushTimeout)
	defer timer.Stop()

	flushAll := func(ctx context.Context) {
		if len(events) == 0 && len(checkpoints) == 0 {
			return
		}
		if err := w.flushWithRetry(ctx, events, checkpoints); err != nil {
			w.log.Error().Err(err).Msg("flush failed")
		}
		events = events[:0]
		checkpoints = checkpoints[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flushAll(context.Background())
			return ctx.Err()

		case rec, ok := <-w.input:
			if !ok {
				flushAll(context.Background())
				return nil
			}

			events = append(events, rec.Event)
			if rec.Checkpoint != nil {
				checkpoints = append(checkpoints, *rec.Checkpoint)
			}

			if len(events) >= w.batchSize {
				flushAll(ctx)
				timer.Reset(w.flushTimeout)
			}

		case <-timer.C:
			flushAll(ctx)
			timer.Reset(w.flushTimeout)
		}
	}
}

// flushWithRetry retries with exponential backoff. The worker never drops a
// batch: it keeps retrying until the write lands or, on shutdown, attempts
// one final flush on a background context.
func (w *Worker) flushWithRetry(ctx context.Context, events []EventRow, checkpoints []CheckpointRow) error {
	backoff := 100 * time.Millisecond
	const maxBackoff = 30 * time.Second

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			w.log.Warn().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Int("events", len(events)).
				Msg("persistence retry")
			select {
			case <-ctx.Done():
				if err := w.flush(context.Background(), events, checkpoints); err != nil {
					return fmt.Errorf("final flush on shutdown: %w", err)
				}
				return nil
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		err := w.flush(ctx, events, checkpoints)
		if err == nil {
			if attempt > 0 {
				w.log.Info().Int("attempts", attempt).Msg("persistence flush recovered")
			}
			return nil
		}

		if w.metrics != nil {
			w.metrics.PersistErrors.WithLabelValues("retry").Inc()
		}
	}
}

func (w *Worker) flush(ctx context.Context, events []EventRow, checkpoints []CheckpointRow) error {
	tx, err := w.writer.db.BeginTx(ctx, nil)
	if err != nil {
		w.countError("tx_begin")
		return err
	}
	defer tx.Rollback()

	if err := w.writer.WriteEventBatch(ctx, tx, events); err != nil {
		w.countError("write_events")
		return err
	}
	if err := w.writer.WriteCheckpointBatch(ctx, tx, checkpoints); err != nil {
		w.countError("write_checkpoints")
		return err
	}
	if err := tx.Commit(); err != nil {
		w.countError("tx_commit")
		return err
	}

	if w.metrics != nil {
		w.metrics.PersistBatchSize.Observe(float64(len(events)))
		w.metrics.PersistEventsWritten.Add(float64(len(events)))
	}
	return nil
}

func (w *Worker) countError(kind string) {
	if w.metrics != nil {
		w.metrics.PersistErrors.WithLabelValues(kind).Inc()
	}
}

// Writer exposes the underlying writer for replay queries.
func (w *Worker) Writer() *MarketLogWriter {
	return w.writer
}
