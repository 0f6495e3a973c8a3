package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis errors by operation type.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "portfolio_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// NotificationFailures counts dropped best-effort notification emails by kind.
var NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "portfolio_notification_failures_total",
	Help: "Total number of failed engagement notification emails",
}, []string{"kind"})

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// Collectors register against the default registry, so the instance is
// created at most once per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware wraps the Prometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
