package wear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/zerotwo/vakula/internal/model"
)

// Modules eligible for random wear. Matches the station's default set.
var Modules = []string{"temperature", "wind", "rain", "snow"}

const (
	minWear = 2.0
	maxWear = 8.0
)

// Degrader periodically picks a live station and wears down one of its
// modules through the gateway's adjust endpoint.
type Degrader struct {
	gatewayURL string
	client     *http.Client
	rng        *rand.Rand
}

// New constructs a degrader targeting the given gateway.
func New(gatewayURL string, timeout time.Duration) *Degrader {
	return &Degrader{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: timeout},
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run ticks until the context is cancelled. Errors are logged and the
// loop keeps going; a fleet with no live stations is not an error.
func (d *Degrader) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				log.Printf("tick failed: %v", err)
			}
		}
	}
}

// Tick performs one round of wear: list stations, pick one at random,
// and degrade a random module by a random amount.
func (d *Degrader) Tick(ctx context.Context) error {
	stations, err := d.listStations(ctx)
	if err != nil {
		return fmt.Errorf("list stations: %w", err)
	}
	if len(stations) == 0 {
		log.Printf("no live stations, skipping tick")
		return nil
	}

	target := stations[d.rng.Intn(len(stations))]
	module := Modules[d.rng.Intn(len(Modules))]
	amount := minWear + d.rng.Float64()*(maxWear-minWear)

	cmd := model.AdjustCommand{
		Module: module,
		Amount: -amount,
		Reason: fmt.Sprintf("%s wear -%.1f%%", module, amount),
	}
	if err := d.adjust(ctx, target.ID, cmd); err != nil {
		return fmt.Errorf("adjust station %d: %w", target.ID, err)
	}

	log.Printf("degraded %s#%d %s by %.1f%%", target.Name, target.ID, module, amount)
	return nil
}

func (d *Degrader) listStations(ctx context.Context) ([]model.StationInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.gatewayURL+"/api/stations", nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var stations []model.StationInfo
	if err := json.NewDecoder(resp.Body).Decode(&stations); err != nil {
		return nil, err
	}
	return stations, nil
}

func (d *Degrader) adjust(ctx context.Context, stationID int64, cmd model.AdjustCommand) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/stations/%d/adjust", d.gatewayURL, stationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
