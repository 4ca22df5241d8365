// Package metrics defines the Prometheus collectors exported by the service.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairshop_http_requests_total",
			Help: "Total HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repairshop_http_request_duration_seconds",
			Help:    "HTTP request latency distribution.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Workflow metrics
var (
	// WorkflowTransitionsTotal counts committed service request transitions.
	WorkflowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairshop_workflow_transitions_total",
			Help: "Committed service request status transitions.",
		},
		[]string{"action", "from", "to"},
	)

	// WorkflowRejectionsTotal counts rejected workflow operations by reason code.
	WorkflowRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairshop_workflow_rejections_total",
			Help: "Workflow operations rejected by a business rule.",
		},
		[]string{"operation", "code"},
	)

	// ActivitiesCreatedTotal counts ledger entries by activity type.
	ActivitiesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairshop_activities_created_total",
			Help: "Employee activities appended to the ledger.",
		},
		[]string{"activity_type"},
	)

	// NotificationsEnqueuedTotal counts notification tasks handed to the queue.
	NotificationsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairshop_notifications_enqueued_total",
			Help: "Notification tasks enqueued, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

// GinMiddleware records request count and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
