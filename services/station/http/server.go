package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zerotwo/vakula/internal/model"
	"github.com/zerotwo/vakula/services/station/config"
	"github.com/zerotwo/vakula/services/station/report"
	"github.com/zerotwo/vakula/services/station/sim"
)

// Server bundles router and dependencies for the station API.
type Server struct {
	cfg      config.Config
	station  *sim.Station
	reporter *report.Reporter
	engine   *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, st *sim.Station, rep *report.Reporter) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	server := &Server{cfg: cfg, station: st, reporter: rep, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/state", s.handleState)
	s.engine.POST("/adjust", s.handleAdjust)
	s.engine.POST("/bootstrap", s.handleBootstrap)
}

// GET /state
func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.station.State())
}

// handleAdjust applies a degrade/repair command and pushes the new state to
// the broker before acknowledging.
// POST /adjust
func (s *Server) handleAdjust(c *gin.Context) {
	var cmd model.AdjustCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := s.station.Adjust(cmd)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	s.reporter.NotifyBroker(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "health": m.Health, "failed": m.Failed})
}

// handleBootstrap force-sets module values, typically at provisioning time.
// POST /bootstrap
func (s *Server) handleBootstrap(c *gin.Context) {
	var req struct {
		Modules   map[string]model.BootstrapModule `json:"modules"`
		LastEvent string                           `json:"last_event,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.station.Bootstrap(req.Modules, req.LastEvent); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	s.reporter.NotifyBroker(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
