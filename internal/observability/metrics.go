// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Campaign lifecycle metrics
	CampaignsInitialized prometheus.Counter
	SupplyDeposits       prometheus.Counter
	CampaignsClosed      *prometheus.CounterVec

	// Sale metrics
	ParticipantsJoined prometheus.Counter
	AllocationsSold    prometheus.Counter
	TokensSold         prometheus.Counter
	LamportsEscrowed   prometheus.Counter

	// Vesting and settlement metrics
	TokensClaimed    prometheus.Counter
	RefundsPaid      prometheus.Counter
	LamportsRefunded prometheus.Counter
	TokensReclaimed  prometheus.Counter
	FundsWithdrawn   prometheus.Counter
	PlatformFeesPaid prometheus.Counter

	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationErrors   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Feed metrics
	FeedSubscribers    prometheus.Gauge
	FeedEventsFanned   prometheus.Counter
	FeedDroppedClients prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_ido"
	}

	return &Metrics{
		// Campaign lifecycle metrics
		CampaignsInitialized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "campaign",
			Name:      "initialized_total",
			Help:      "Total number of campaigns initialized",
		}),
		SupplyDeposits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "campaign",
			Name:      "supply_deposits_total",
			Help:      "Total number of token supply deposits",
		}),
		CampaignsClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "campaign",
			Name:      "closed_total",
			Help:      "Total number of campaigns closed by settlement branch",
		}, []string{"settlement"}),

		// Sale metrics
		ParticipantsJoined: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "participants_joined_total",
			Help:      "Total number of participants admitted",
		}),
		AllocationsSold: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "allocations_sold_total",
			Help:      "Total number of allocations sold",
		}),
		TokensSold: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "tokens_sold_total",
			Help:      "Total token entitlements granted",
		}),
		LamportsEscrowed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "lamports_escrowed_total",
			Help:      "Total lamports taken into the funds treasury",
		}),

		// Vesting and settlement metrics
		TokensClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vesting",
			Name:      "tokens_claimed_total",
			Help:      "Total tokens released to participants",
		}),
		RefundsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "refunds_total",
			Help:      "Total number of refunds paid out",
		}),
		LamportsRefunded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "lamports_refunded_total",
			Help:      "Total lamports returned to participants",
		}),
		TokensReclaimed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "tokens_reclaimed_total",
			Help:      "Total tokens returned to owners after failed sales",
		}),
		FundsWithdrawn: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "funds_withdrawn_total",
			Help:      "Total lamports withdrawn by owners",
		}),
		PlatformFeesPaid: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "platform_fees_total",
			Help:      "Total lamports collected as platform fees",
		}),

		// Operation metrics
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Total number of service operations by status",
		}, []string{"operation", "status"}),
		OperationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operation_errors_total",
			Help:      "Total number of rejected operations by reason",
		}, []string{"operation", "reason"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Service operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Feed metrics
		FeedSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "subscribers",
			Help:      "Current number of WebSocket feed subscribers",
		}),
		FeedEventsFanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "events_fanned_total",
			Help:      "Total events fanned out to feed subscribers",
		}),
		FeedDroppedClients: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "dropped_clients_total",
			Help:      "Total feed clients dropped for slow consumption",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordOperation records a completed service operation.
func RecordOperation(operation string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.OperationsTotal.WithLabelValues(operation, status).Inc()
	DefaultMetrics.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordOperationError records a rejected operation with its reason.
func RecordOperationError(operation, reason string) {
	DefaultMetrics.OperationErrors.WithLabelValues(operation, reason).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordJoin records one admitted participant.
func RecordJoin(allocations, tokens, lamports uint64) {
	DefaultMetrics.ParticipantsJoined.Inc()
	DefaultMetrics.AllocationsSold.Add(float64(allocations))
	DefaultMetrics.TokensSold.Add(float64(tokens))
	DefaultMetrics.LamportsEscrowed.Add(float64(lamports))
}

// RecordClaim records tokens released through vesting.
func RecordClaim(tokens uint64) {
	DefaultMetrics.TokensClaimed.Add(float64(tokens))
}

// RecordRefund records one refund payout.
func RecordRefund(lamports uint64) {
	DefaultMetrics.RefundsPaid.Inc()
	DefaultMetrics.LamportsRefunded.Add(float64(lamports))
}

// RecordClose records a campaign close on the given settlement branch.
func RecordClose(settlement string) {
	DefaultMetrics.CampaignsClosed.WithLabelValues(settlement).Inc()
}

// RecordWithdrawal records a successful owner withdrawal.
func RecordWithdrawal(ownerProceeds, platformFee uint64) {
	DefaultMetrics.FundsWithdrawn.Add(float64(ownerProceeds))
	DefaultMetrics.PlatformFeesPaid.Add(float64(platformFee))
}
