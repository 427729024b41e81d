package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zerotwo/vakula/internal/model"
	"github.com/zerotwo/vakula/services/station/config"
	"github.com/zerotwo/vakula/services/station/sim"
)

// Reporter keeps the station registered with the gateway and pushes its state
// to the broker. All outbound calls are best-effort: failures are logged and
// retried on the next cycle, never surfaced to the station's own handlers.
type Reporter struct {
	cfg        config.Config
	station    *sim.Station
	client     *http.Client
	registered atomic.Bool
}

// New builds a reporter for the given station.
func New(cfg config.Config, st *sim.Station) *Reporter {
	return &Reporter{
		cfg:     cfg,
		station: st,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// NotifyBroker pushes the current station state to the broker. Failures are
// logged, not returned: the broker marks silent stations offline on its own.
func (r *Reporter) NotifyBroker(ctx context.Context) {
	payload := r.station.State()
	if err := r.postJSON(ctx, r.cfg.BrokerURL+"/api/station-update", payload, nil); err != nil {
		log.Printf("failed to notify broker: %v", err)
	}
}

// Run registers with the gateway, retrying until it succeeds, then heartbeats
// on a fixed cadence and pushes state to the broker after each beat. It
// returns when the context is cancelled.
func (r *Reporter) Run(ctx context.Context) {
	// The broker should see the station before the gateway does.
	r.NotifyBroker(ctx)

	if !r.registerLoop(ctx) {
		return
	}
	r.heartbeatLoop(ctx)
}

func (r *Reporter) registerLoop(ctx context.Context) bool {
	for {
		if err := r.register(ctx); err == nil {
			r.registered.Store(true)
			return true
		} else {
			log.Printf("gateway registration failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(r.cfg.RegisterRetry):
		}
	}
}

func (r *Reporter) register(ctx context.Context) error {
	id := r.cfg.StationID
	req := model.Registration{
		StationID: &id,
		Name:      r.cfg.Name,
		BaseURL:   r.cfg.PublicBaseURL,
		Tags:      []string{},
	}

	var info model.StationInfo
	if err := r.postJSON(ctx, r.cfg.GatewayURL+"/api/register", req, &info); err != nil {
		return err
	}
	if info.ID != id {
		log.Printf("gateway assigned different station id %d (local %d)", info.ID, id)
	}
	return nil
}

func (r *Reporter) heartbeatLoop(ctx context.Context) {
	// Stagger startup so a fleet brought up together does not heartbeat in
	// one burst.
	jitter := time.Duration(1+rand.Intn(14)) * time.Second
	select {
	case <-ctx.Done():
		return
	case <-time.After(jitter):
	}

	ticker := time.NewTicker(r.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.heartbeat(ctx)
			r.NotifyBroker(ctx)
		}
	}
}

func (r *Reporter) heartbeat(ctx context.Context) {
	url := fmt.Sprintf("%s/api/stations/%d/heartbeat", strings.TrimRight(r.cfg.GatewayURL, "/"), r.cfg.StationID)
	err := r.postJSON(ctx, url, struct{}{}, nil)
	if err == nil {
		return
	}

	log.Printf("heartbeat failed: %v", err)
	if strings.Contains(err.Error(), "404") {
		// Gateway lost the registration; put it back.
		if regErr := r.register(ctx); regErr != nil {
			log.Printf("gateway re-registration failed: %v", regErr)
		}
	}
}

func (r *Reporter) postJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
