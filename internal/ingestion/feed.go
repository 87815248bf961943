package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"PerpMarket/internal/observability"
	"PerpMarket/internal/oracle"
)

const (
	priceStream  = "PERP_PRICES"
	priceSubject = "perp.prices"
)

// PriceFeed consumes the JetStream price subject for one market and publishes
// each point as the next oracle version. Versions are assigned in delivery
// order; the oracle rejects backwards timestamps so a redelivered message
// cannot rewrite history.
type PriceFeed struct {
	js       jetstream.JetStream
	store    *oracle.Store
	market   string
	consumer jetstream.ConsumeContext

	// onVersion fires after each successful append, typically to trigger
	// settlement. Nil is fine.
	onVersion func(oracle.Version)

	log     zerolog.Logger
	metrics *observability.Metrics
}

func NewPriceFeed(js jetstream.JetStream, store *oracle.Store, market string, onVersion func(oracle.Version), log zerolog.Logger, metrics *observability.Metrics) *PriceFeed {
	return &PriceFeed{
		js:        js,
		store:     store,
		market:    market,
		onVersion: onVersion,
		log:       log,
		metrics:   metrics,
	}
}

// Subscribe creates the durable consumer and starts delivery. Explicit ACK,
// max_deliver=5, ack_wait=30s.
func (f *PriceFeed) Subscribe(ctx context.Context) error {
	consumer, err := f.js.CreateOrUpdateConsumer(ctx, priceStream, jetstream.ConsumerConfig{
		Durable:       "market-prices-" + f.market,
		FilterSubject: fmt.Sprintf("%s.%s", priceSubject, f.market),
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("create price consumer: %w", err)
	}

	cc, err := consumer.Consume(f.handle)
	if err != nil {
		return fmt.Errorf("consume prices: %w", err)
	}
	f.consumer = cc

	f.log.Info().Str("market", f.market).Str("stream", priceStream).Msg("price feed subscribed")
	return nil
}

func (f *PriceFeed) handle(msg jetstream.Msg) {
	point, err := ParsePricePoint(msg.Data())
	if err != nil {
		// Malformed payloads never become valid on redelivery.
		f.log.Warn().Err(err).Str("subject", msg.Subject()).Msg("dropping bad price message")
		f.feedError("parse")
		msg.Ack()
		return
	}

	v, err := f.store.Append(point.TimestampUs/1_000_000, point.Price)
	if err != nil {
		// Stale or replayed point: the history already moved past it.
		f.log.Warn().Err(err).Uint64("sequence", point.Sequence).Msg("dropping stale price point")
		f.feedError("stale")
		msg.Ack()
		return
	}

	if f.metrics != nil {
		f.metrics.OracleVersions.Inc()
		f.metrics.OracleLatest.Set(float64(v.Version))
	}
	f.log.Debug().
		Uint64("version", v.Version).
		Str("price", v.Price.String()).
		Msg("oracle version published")

	if f.onVersion != nil {
		f.onVersion(v)
	}
	msg.Ack()
}

func (f *PriceFeed) feedError(reason string) {
	if f.metrics != nil {
		f.metrics.OracleFeedErrors.WithLabelValues(reason).Inc()
	}
}

// Stop halts delivery. Safe to call before Subscribe.
func (f *PriceFeed) Stop() {
	if f.consumer != nil {
		f.consumer.Stop()
	}
	f.log.Info().Msg("price feed stopped")
}

// EnsurePriceStream creates the price stream if it does not exist.
// FileStorage, retention by limits, 72h max age.
func EnsurePriceStream(ctx context.Context, js jetstream.JetStream) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      priceStream,
		Subjects:  []string{priceSubject + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    72 * time.Hour,
		Replicas:  1,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", priceStream, err)
	}
	return nil
}

// ConnectNATS establishes a NATS connection and returns a JetStream context.
func ConnectNATS(url string, log zerolog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info().Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}

	return nc, js, nil
}
