package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ChatTurns = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "appointly",
		Subsystem: "assistant",
		Name:      "chat_turns_total",
		Help:      "Chat turns by resulting conversation status",
	},
	[]string{"status"},
)

var Decisions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "appointly",
		Subsystem: "assistant",
		Name:      "decisions_total",
		Help:      "Reviewer decisions by outcome",
	},
	[]string{"decision"},
)

var ExternalLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "appointly",
		Subsystem: "external",
		Name:      "call_seconds",
		Help:      "Latency of calls to the model, calendar and spreadsheet",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
	},
	[]string{"target", "status"},
)

func init() {
	prometheus.MustRegister(ChatTurns, Decisions, ExternalLatency)
}

// ObserveExternal records one outbound call. target is e.g. "gemini" or "calendar.insert".
func ObserveExternal(target string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ExternalLatency.WithLabelValues(target, status).Observe(time.Since(start).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
