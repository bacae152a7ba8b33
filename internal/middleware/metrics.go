package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adotapet_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// NotificationsPublished counts adoption-request notifications by outcome.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adotapet_notifications_published_total",
		Help: "Total adoption-request notifications published, by outcome",
	}, []string{"outcome"})

	// CommentCounterFixes counts comment-counter reconciliation runs.
	CommentCounterFixes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adotapet_comment_counter_fixes_total",
		Help: "Total comment-counter reconciliation runs",
	})
)

// InitMetrics creates the Prometheus middleware for HTTP request metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
