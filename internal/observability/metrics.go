package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_cache_lookups_total",
		Help: "Cache-aside lookups by result",
	}, []string{"result"})

	// SignupsTotal counts signups by outcome.
	SignupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_signups_total",
		Help: "Total signup attempts by outcome",
	}, []string{"outcome"})

	// LoginAttempts counts authentication attempts by internal reason.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_login_attempts_total",
		Help: "Total authentication attempts by reason",
	}, []string{"reason"})

	// MessageEvents counts message creations and deletions.
	MessageEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_message_events_total",
		Help: "Message lifecycle events",
	}, []string{"event"})

	// FollowEvents counts follow and unfollow operations.
	FollowEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_follow_events_total",
		Help: "Follow graph mutations",
	}, []string{"action"})

	// AuthorizationDenials counts requests turned away by an authorization gate.
	AuthorizationDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_authorization_denials_total",
		Help: "Requests rejected by an authorization gate",
	}, []string{"gate"})

	// FeedSize records how many messages each assembled feed contained.
	FeedSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warbler_feed_size_messages",
		Help:    "Number of messages in an assembled home feed",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})
)
