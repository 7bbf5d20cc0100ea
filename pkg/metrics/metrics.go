// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ConversationsStarted tracks total conversations created.
	ConversationsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_started_total",
			Help: "Total conversations created",
		},
	)

	// MessagesSent tracks total messages appended.
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total messages sent",
		},
	)

	// ProfileViewsTracked tracks profile view outcomes by result
	// (recorded or skipped).
	ProfileViewsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_views_tracked_total",
			Help: "Profile view tracking outcomes",
		},
		[]string{"result"},
	)

	// DashboardRequests tracks dashboard stat computations by role.
	DashboardRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Dashboard stat computations by role",
		},
		[]string{"role"},
	)

	// NotificationsPublished tracks outbound notification payloads.
	NotificationsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Outbound notification payloads published",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}
