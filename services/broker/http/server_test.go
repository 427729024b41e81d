package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerotwo/vakula/internal/model"
	"github.com/zerotwo/vakula/services/broker/config"
	"github.com/zerotwo/vakula/services/broker/fleet"
)

func newTestServer() *Server {
	agg := fleet.NewAggregator(
		2*time.Minute,
		nil,
		fleet.NewRelayNotifier("", time.Second),
		fleet.NewHub(),
	)
	return New(config.Config{Port: 0, StaleAfter: 2 * time.Minute}, agg)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateThenState(t *testing.T) {
	srv := newTestServer()

	body := `{"station_id": 1, "name": "Zagreb", "modules": {"temperature": {"health": 15, "failed": false}}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/station-update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var state model.WorldState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.Len(t, state.Stations, 1)
	assert.Equal(t, int64(1), state.Stations[0].ID)
	assert.Equal(t, "critical", state.Stations[0].Status)
	assert.Equal(t, 15.0, state.Stations[0].OverallHealth)
}

func TestMalformedUpdateRejected(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/station-update", strings.NewReader(`{"station_id": "not a number"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSingleStationLookup(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stations/42", nil)
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := `{"station_id": 42, "name": "Split", "modules": {}}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/station-update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/stations/42", nil)
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var snap model.StationSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "Split", snap.Name)
	assert.Equal(t, "ok", snap.Status)
}

func TestInvalidStationID(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stations/abc", nil)
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
