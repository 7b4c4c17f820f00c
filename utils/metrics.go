package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	SignalingRooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "signaling_rooms",
		Help: "Number of call rooms with at least one local member",
	})

	SignalingConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "signaling_connections",
		Help: "Number of open signaling websocket connections",
	})

	SignalingRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signaling_events_relayed_total",
			Help: "Events delivered to room members",
		},
		[]string{"event"},
	)

	SignalingDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signaling_events_dropped_total",
			Help: "Events dropped because a member's outbound queue was full or the room was gone",
		},
		[]string{"reason"},
	)

	AppointmentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_transitions_total",
			Help: "Appointment status changes",
		},
		[]string{"status"},
	)

	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Rejected and accepted authentications by method",
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SignalingRooms,
		SignalingConnections,
		SignalingRelayed,
		SignalingDropped,
		AppointmentTransitions,
		AuthAttemptsTotal,
	)
}

// MetricsHandler exposes the default registry for GET /metrics.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
