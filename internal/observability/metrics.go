package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nemt", Name: "assignments_total", Help: "Trip assignments persisted, by method"},
		[]string{"method"},
	)
	AssignmentConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "nemt", Name: "assignment_conflicts_total", Help: "Assignments rejected by the schedule conflict check"},
	)
	DistanceFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "nemt", Name: "distance_fallbacks_total", Help: "Ranking passes downgraded from the distance service to the geometric fallback"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nemt", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nemt",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
