package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_ingested_total",
			Help: "Audit events successfully persisted",
		},
		[]string{"source"}, // api|kafka
	)
	EventsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_rejected_total",
			Help: "Audit events rejected before persistence",
		},
		[]string{"source", "reason"}, // reason: malformed|validation|store
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(EventsIngested)
	prometheus.MustRegister(EventsRejected)
	prometheus.MustRegister(WorkerQueueDepth)
}
