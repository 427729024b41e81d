package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zerotwo/vakula/internal/model"
	"github.com/zerotwo/vakula/services/gateway/config"
	"github.com/zerotwo/vakula/services/gateway/registry"
)

// Server bundles router and dependencies for the gateway API.
type Server struct {
	cfg      config.Config
	registry *registry.Registry
	client   *http.Client
	engine   *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, reg *registry.Registry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	server := &Server{
		cfg:      cfg,
		registry: reg,
		client:   &http.Client{Timeout: cfg.ForwardTimeout},
		engine:   engine,
	}
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

	s.engine.POST("/api/register", s.handleRegister)
	s.engine.GET("/api/stations", s.handleListStations)
	s.engine.GET("/api/stations/:station_id", s.handleGetStation)
	s.engine.POST("/api/stations/:station_id/heartbeat", s.handleHeartbeat)
	s.engine.POST("/api/stations/:station_id/adjust", s.handleAdjust)
}

func stationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("station_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station id"})
		return 0, false
	}
	return id, true
}

// handleRegister creates or refreshes a registry entry.
// POST /api/register
func (s *Server) handleRegister(c *gin.Context) {
	var req model.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info := s.registry.Register(req)
	log.Printf("registered station %d: %s @ %s", info.ID, info.Name, info.BaseURL)
	c.JSON(http.StatusOK, info)
}

// handleListStations returns only the stations with a live heartbeat.
// GET /api/stations
func (s *Server) handleListStations(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.Alive(s.cfg.HeartbeatTimeout))
}

// GET /api/stations/:station_id
func (s *Server) handleGetStation(c *gin.Context) {
	id, ok := stationID(c)
	if !ok {
		return
	}
	info, ok := s.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown station id"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// POST /api/stations/:station_id/heartbeat
func (s *Server) handleHeartbeat(c *gin.Context) {
	id, ok := stationID(c)
	if !ok {
		return
	}
	if !s.registry.Heartbeat(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown station id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleAdjust forwards a degrade/repair command to the station itself.
// POST /api/stations/:station_id/adjust
func (s *Server) handleAdjust(c *gin.Context) {
	id, ok := stationID(c)
	if !ok {
		return
	}
	info, ok := s.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown station id"})
		return
	}

	var cmd model.AdjustCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	direction := "repair"
	if cmd.Amount < 0 {
		direction = "degrade"
	}
	log.Printf("forwarding %s to station %d (%s): %s %+.1f%%", direction, id, info.Name, cmd.Module, cmd.Amount)

	result, err := s.forwardAdjust(c.Request.Context(), info, cmd)
	if err != nil {
		log.Printf("failed to forward adjust to station %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "station unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "station_id": id, "station_response": result})
}

func (s *Server) forwardAdjust(ctx context.Context, info model.StationInfo, cmd model.AdjustCommand) (map[string]any, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(info.BaseURL, "/") + "/adjust"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward adjust: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode station response: %w", err)
	}
	return result, nil
}
