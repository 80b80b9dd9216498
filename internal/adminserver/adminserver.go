// Package adminserver runs a small gin-based HTTP sidecar the supervisor
// starts alongside the core dispatch fabric. It exposes health and metrics
// endpoints and is intentionally separate from the raw TCP listener the
// workers share: none of spec.md's core-path non-goals (no full HTTP
// semantics, no TLS, no streaming) apply here because this listener never
// touches a client connection accepted by a worker.
package adminserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mblayman/nibiru/internal/procpool"
)

// Server wraps an http.Server running a gin engine.
type Server struct {
	httpSrv *http.Server
}

// New builds the admin sidecar. pool is consulted by /debug/pool to report
// live worker pid/role assignments.
func New(addr string, reg *prometheus.Registry, pool *procpool.Pool) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	engine.GET("/debug/pool", func(c *gin.Context) {
		c.JSON(http.StatusOK, pool.Snapshot())
	})

	return &Server{
		httpSrv: &http.Server{
			Addr:    addr,
			Handler: engine,
		},
	}
}

// Start begins serving in the background. Errors other than a clean
// shutdown are sent to errCh.
func (s *Server) Start(errCh chan<- error) {
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
}

// Shutdown gracefully stops the admin sidecar.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
