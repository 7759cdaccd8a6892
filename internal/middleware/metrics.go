package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideabox_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikeToggles counts like/unlike transitions.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideabox_like_toggles_total",
		Help: "Total number of like toggles by resulting state",
	}, []string{"state"})

	// SessionsIssued counts session cookies issued per flow.
	SessionsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideabox_sessions_issued_total",
		Help: "Total number of session tokens issued",
	}, []string{"flow"})
)

// InitMetrics creates the Prometheus middleware for HTTP request metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler recording request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
