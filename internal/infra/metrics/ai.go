package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiCallsLatencyMs,
		aiFallbacks,
		aiTokensOut,
	)
}

var (
	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "AI call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 15000},
		},
		[]string{"kind", "success"},
	)

	aiFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_fallbacks_total",
			Help: "Count of backend failures replaced by fixed fallback text.",
		},
		[]string{"kind"}, // "reply" | "summary"
	)

	aiTokensOut = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Best-effort sum of completion tokens persisted on events.",
		},
	)
)

// ObserveAICall records latency for one backend call.
// kind is "stream" or "summarize".
func ObserveAICall(kind string, d time.Duration, success bool) {
	aiCallsLatencyMs.WithLabelValues(kind, strconv.FormatBool(success)).Observe(float64(d.Milliseconds()))
}

func IncFallback(kind string) { aiFallbacks.WithLabelValues(kind).Inc() }

func AddTokensOut(n int) { aiTokensOut.Add(float64(n)) }
