package a2a

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clientRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supportdesk",
		Subsystem: "a2a",
		Name:      "client_requests_total",
		Help:      "Outbound A2A requests by operation and outcome.",
	}, []string{"op", "outcome"})

	clientDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "supportdesk",
		Subsystem: "a2a",
		Name:      "client_request_duration_seconds",
		Help:      "Latency of outbound A2A requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	serverRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supportdesk",
		Subsystem: "a2a",
		Name:      "server_requests_total",
		Help:      "Inbound JSON-RPC requests by agent and outcome.",
	}, []string{"agent", "outcome"})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
