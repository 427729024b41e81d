package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/zerotwo/vakula/internal/model"
)

// handleStationUpdate ingests one station report. Malformed JSON is the only
// rejection; a well-formed update is always acknowledged.
// POST /api/station-update
func (s *Server) handleStationUpdate(c *gin.Context) {
	var update model.StationUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.fleet.ApplyUpdate(c.Request.Context(), update)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleState returns the full world state with no side effects.
// GET /api/state
func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.fleet.Snapshot())
}

// handleStation returns the snapshot of a single station.
// GET /api/stations/:station_id
func (s *Server) handleStation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("station_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station id"})
		return
	}

	snapshot, ok := s.fleet.Station(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown station id"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// handleStream serves the live world-state feed as server-sent events. The
// subscriber receives one snapshot immediately and one per broadcast until it
// disconnects or falls too far behind.
// GET /api/stream
func (s *Server) handleStream(c *gin.Context) {
	sub := s.fleet.Subscribe()
	defer s.fleet.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case payload, ok := <-sub.Events():
			if !ok {
				return false
			}
			sse.Encode(w, sse.Event{Event: "state", Data: string(payload)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
