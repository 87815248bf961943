package projection

import (
	"context"

	"github.com/rs/zerolog"

	"PerpMarket/internal/event"
)

// Worker folds engine events into the in-memory views. The input channel is
// fed best-effort: views are eventually consistent and can always be rebuilt
// from the event log, so a dropped update is harmless.
type Worker struct {
	input   <-chan event.Envelope
	funding *FundingHistory
	lastSeq int64
	log     zerolog.Logger
}

func NewWorker(input <-chan event.Envelope, funding *FundingHistory, log zerolog.Logger) *Worker {
	return &Worker{
		input:   input,
		funding: funding,
		log:     log,
	}
}

// Run consumes events until the context ends or the channel closes.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case env, ok := <-w.input:
			if !ok {
				return nil
			}
			w.apply(env)
			w.lastSeq = env.Sequence
		}
	}
}

func (w *Worker) apply(env event.Envelope) {
	switch payload := env.Payload.(type) {
	case event.VersionSettled:
		w.funding.Add(FundingEntry{
			Version:   payload.Version,
			Timestamp: env.Timestamp,
			Price:     payload.Price,
			Transfer:  payload.FundingTransfer,
			Fee:       payload.Fee,
			Maker:     payload.Maker,
			Long:      payload.Long,
			Short:     payload.Short,
		})
	}
}

// LastSequence returns the sequence of the last applied event.
func (w *Worker) LastSequence() int64 {
	return w.lastSeq
}
