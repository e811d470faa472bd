// Package httptransport exposes the process's observability surface:
// liveness, readiness, and Prometheus scrape endpoints. It carries no
// job or schedule CRUD API; this core has no end-user-facing accounts
// or front-end for one to serve.
package httptransport

import (
	"net/http"

	"github.com/arrowkit/flowcore/internal/health"
	"github.com/arrowkit/flowcore/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires request-ID tagging, security headers, and HTTP metrics
// around /healthz, /readyz and /metrics.
func NewRouter(checker *health.Checker) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.Metrics())

	r.GET("/healthz", func(c *gin.Context) {
		result := checker.Liveness(c.Request.Context())
		c.JSON(http.StatusOK, result)
	})

	r.GET("/readyz", func(c *gin.Context) {
		result := checker.Readiness(c.Request.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, result)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
