package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the market engine.
type Metrics struct {
	// --- Settlement ---
	VersionsSettled    prometheus.Counter
	GlobalVersion      prometheus.Gauge
	SettleDuration     prometheus.Histogram
	AccountsSettled    prometheus.Counter
	FundingTransferred prometheus.Counter
	FeesAccrued        prometheus.Counter

	// --- Updates & liquidation ---
	UpdatesApplied prometheus.Counter
	CallsRejected  *prometheus.CounterVec
	Liquidations   prometheus.Counter
	ShortfallTotal prometheus.Counter

	// --- Events ---
	EventsEmitted *prometheus.CounterVec

	// --- Oracle feed ---
	OracleVersions   prometheus.Counter
	OracleFeedErrors *prometheus.CounterVec
	OracleLatest     prometheus.Gauge

	// --- Persistence ---
	PersistEventsWritten prometheus.Counter
	PersistErrors        *prometheus.CounterVec
	PersistBatchSize     prometheus.Histogram
	SnapshotsTaken       prometheus.Counter

	// --- HTTP API ---
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics on the default registry.
func NewMetrics() *Metrics {
	latencyBuckets := []float64{
		0.000005, 0.00001, 0.000025, 0.00005, 0.0001,
		0.00025, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.05,
	}

	return &Metrics{
		VersionsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_versions_settled_total",
			Help: "Oracle versions folded into the global accumulator",
		}),
		GlobalVersion: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "perp_global_version",
			Help: "Latest globally settled oracle version",
		}),
		SettleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "perp_settle_duration_seconds",
			Help:    "Time to run one settlement call",
			Buckets: latencyBuckets,
		}),
		AccountsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_accounts_settled_total",
			Help: "Account settlement passes completed",
		}),
		FundingTransferred: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_funding_transferred_total",
			Help: "Gross funding moved between taker and maker sides",
		}),
		FeesAccrued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_fees_accrued_total",
			Help: "Fees collected into the protocol/market buckets",
		}),

		UpdatesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_updates_applied_total",
			Help: "Position updates accepted",
		}),
		CallsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "perp_calls_rejected_total",
			Help: "State-changing calls rejected by precondition",
		}, []string{"op", "reason"}),
		Liquidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_liquidations_total",
			Help: "Liquidating updates executed",
		}),
		ShortfallTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_shortfall_total",
			Help: "Cumulative bad debt left after liquidations",
		}),

		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "perp_events_emitted_total",
			Help: "Events emitted to the audit log",
		}, []string{"type"}),

		OracleVersions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_oracle_versions_total",
			Help: "Oracle versions published by the price feed",
		}),
		OracleFeedErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "perp_oracle_feed_errors_total",
			Help: "Price feed messages rejected",
		}, []string{"reason"}),
		OracleLatest: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "perp_oracle_latest_version",
			Help: "Latest published oracle version",
		}),

		PersistEventsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_persist_events_written_total",
			Help: "Event rows written to Postgres",
		}),
		PersistErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "perp_persist_errors_total",
			Help: "Persistence failures",
		}, []string{"kind"}),
		PersistBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "perp_persist_batch_size",
			Help:    "Rows per persistence flush",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),
		SnapshotsTaken: promauto.NewCounter(prometheus.CounterOpts{
			Name: "perp_snapshots_taken_total",
			Help: "State snapshots written",
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "perp_http_requests_total",
			Help: "HTTP API requests",
		}, []string{"route", "code"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "perp_http_request_duration_seconds",
			Help:    "HTTP API request latency",
			Buckets: latencyBuckets,
		}, []string{"route"}),
	}
}
