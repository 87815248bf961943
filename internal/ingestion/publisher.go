package ingestion

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"PerpMarket/internal/event"
)

const (
	outboundStream        = "PERP_MARKET_EVENTS"
	outboundSubjectPrefix = "perp.market.events"
)

// OutboundPublisher relays engine events to NATS for downstream consumers.
// Subjects follow perp.market.events.{type}.{market}. Publish failures are
// non-fatal: consumers can always replay from the Postgres event log.
type OutboundPublisher struct {
	js     jetstream.JetStream
	market string
	input  <-chan event.Envelope
	log    zerolog.Logger
}

// outboundJSON is the published wire format. Hashes are hex-encoded so
// consumers in any language can verify the chain.
type outboundJSON struct {
	Sequence  int64  `json:"sequence"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Version   uint64 `json:"version"`
	Payload   any    `json:"payload"`
	StateHash string `json:"state_hash"`
	PrevHash  string `json:"prev_hash"`
}

func NewOutboundPublisher(js jetstream.JetStream, market string, input <-chan event.Envelope, log zerolog.Logger) *OutboundPublisher {
	return &OutboundPublisher{
		js:     js,
		market: market,
		input:  input,
		log:    log,
	}
}

// Run publishes events until the input channel closes or the context ends.
func (p *OutboundPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case env, ok := <-p.input:
			if !ok {
				return nil
			}
			if err := p.publish(ctx, env); err != nil {
				p.log.Warn().Err(err).Int64("sequence", env.Sequence).Msg("outbound publish failed")
			}
		}
	}
}

func (p *OutboundPublisher) publish(ctx context.Context, env event.Envelope) error {
	data, err := json.Marshal(outboundJSON{
		Sequence:  env.Sequence,
		Type:      env.Type.String(),
		Timestamp: env.Timestamp,
		Version:   env.Version,
		Payload:   env.Payload,
		StateHash: hex.EncodeToString(env.StateHash[:]),
		PrevHash:  hex.EncodeToString(env.PrevHash[:]),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s.%s", outboundSubjectPrefix, env.Type, p.market)
	_, err = p.js.Publish(ctx, subject, data)
	return err
}

// EnsureOutboundStream creates the outbound events stream.
func EnsureOutboundStream(ctx context.Context, js jetstream.JetStream) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      outboundStream,
		Subjects:  []string{outboundSubjectPrefix + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    72 * time.Hour,
		Replicas:  1,
	})
	if err != nil {
		return fmt.Errorf("create outbound stream: %w", err)
	}
	return nil
}
