package wear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerotwo/vakula/internal/model"
)

type fakeGateway struct {
	mu       sync.Mutex
	stations []model.StationInfo
	adjusts  []model.AdjustCommand
	paths    []string
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stations", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		json.NewEncoder(w).Encode(g.stations)
	})
	mux.HandleFunc("POST /api/stations/", func(w http.ResponseWriter, r *http.Request) {
		var cmd model.AdjustCommand
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		g.mu.Lock()
		g.adjusts = append(g.adjusts, cmd)
		g.paths = append(g.paths, r.URL.Path)
		g.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	return mux
}

func TestTickDegradesOneStation(t *testing.T) {
	gw := &fakeGateway{stations: []model.StationInfo{
		{ID: 7, Name: "Zagreb", BaseURL: "http://zagreb:9000"},
	}}
	srv := httptest.NewServer(gw.handler())
	defer srv.Close()

	d := New(srv.URL, time.Second)
	require.NoError(t, d.Tick(context.Background()))

	gw.mu.Lock()
	defer gw.mu.Unlock()
	require.Len(t, gw.adjusts, 1)
	cmd := gw.adjusts[0]

	assert.Equal(t, "/api/stations/7/adjust", gw.paths[0])
	assert.Contains(t, Modules, cmd.Module)
	assert.Less(t, cmd.Amount, 0.0)
	assert.GreaterOrEqual(t, -cmd.Amount, 2.0)
	assert.LessOrEqual(t, -cmd.Amount, 8.0)
	assert.Contains(t, cmd.Reason, cmd.Module)
	assert.Contains(t, cmd.Reason, "wear")
}

func TestTickEmptyFleetIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	srv := httptest.NewServer(gw.handler())
	defer srv.Close()

	d := New(srv.URL, time.Second)
	require.NoError(t, d.Tick(context.Background()))

	gw.mu.Lock()
	defer gw.mu.Unlock()
	assert.Empty(t, gw.adjusts)
}

func TestTickGatewayDownIsError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	d := New(srv.URL, time.Second)
	assert.Error(t, d.Tick(context.Background()))
}
