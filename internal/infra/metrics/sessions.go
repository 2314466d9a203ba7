package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		sessionsStarted,
		sessionsClosed,
		sessionDurationSec,
		turnsTotal,
		fragmentsForwarded,
		storeErrors,
	)
}

var (
	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_started_total",
			Help: "Count of websocket sessions accepted.",
		},
	)

	sessionsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_closed_total",
			Help: "Count of sessions closed with end_time and summary written.",
		},
	)

	sessionDurationSec = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "session_duration_seconds",
			Help:    "Wall-clock session duration from connect to close.",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600, 14400},
		},
	)

	turnsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_turns_total",
			Help: "Count of completed user/assistant turns.",
		},
	)

	fragmentsForwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_fragments_forwarded_total",
			Help: "Count of streamed reply fragments forwarded to connections.",
		},
	)

	storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_errors_total",
			Help: "Count of record store failures per operation.",
		},
		[]string{"op"},
	)
)

func IncSessionStarted() { sessionsStarted.Inc() }

func ObserveSessionClosed(d time.Duration) {
	sessionsClosed.Inc()
	sessionDurationSec.Observe(d.Seconds())
}

func IncTurn() { turnsTotal.Inc() }

func AddFragments(n int) { fragmentsForwarded.Add(float64(n)) }

func IncStoreError(op string) { storeErrors.WithLabelValues(op).Inc() }
