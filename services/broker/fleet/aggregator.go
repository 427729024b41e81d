package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zerotwo/vakula/internal/model"
)

// Notifier delivers an alert message to an operator channel. Implementations
// must be best-effort: they log failures and never return them.
type Notifier interface {
	Send(ctx context.Context, message string)
}

// Aggregator owns the station records. Every read-modify-write of the record
// map happens under its mutex; notification and broadcast always happen after
// the mutex is released so slow I/O cannot stall ingestion.
type Aggregator struct {
	mu       sync.Mutex
	stations map[int64]*station

	staleAfter time.Duration
	meta       map[string]Coordinates
	notifier   Notifier
	hub        *Hub
	now        func() time.Time
}

// NewAggregator constructs the aggregator around an empty record store.
func NewAggregator(staleAfter time.Duration, meta map[string]Coordinates, notifier Notifier, hub *Hub) *Aggregator {
	return &Aggregator{
		stations:   make(map[int64]*station),
		staleAfter: staleAfter,
		meta:       meta,
		notifier:   notifier,
		hub:        hub,
		now:        time.Now,
	}
}

// ApplyUpdate merges an inbound station report, re-evaluates the station and
// fires the notification/broadcast side effects. There is no rejection path:
// a well-formed update is always accepted, racing updates are both applied in
// lock-acquisition order.
func (a *Aggregator) ApplyUpdate(ctx context.Context, u model.StationUpdate) {
	a.mu.Lock()
	now := a.now()

	st, ok := a.stations[u.StationID]
	if !ok {
		st = &station{id: u.StationID, modules: make(map[string]model.ModuleState)}
		if c, ok := a.meta[u.Name]; ok {
			lat, lon := c.Lat, c.Lon
			st.lat, st.lon = &lat, &lon
		}
		a.stations[u.StationID] = st
		stationsTracked.Set(float64(len(a.stations)))
	}

	st.name = u.Name
	st.lastUpdate = now
	if u.Lat != nil {
		v := *u.Lat
		st.lat = &v
	}
	if u.Lon != nil {
		v := *u.Lon
		st.lon = &v
	}
	for name, m := range u.Modules {
		m.Health = clampHealth(m.Health)
		st.modules[name] = m
	}
	if u.LastEvent != "" {
		st.lastEvent = u.LastEvent
	}

	ev := evaluate(st, now, a.staleAfter)
	msg, alerted := a.transition(st, ev)
	a.mu.Unlock()

	updatesTotal.Inc()
	if alerted {
		a.notifier.Send(ctx, msg)
	}
	a.Broadcast()
}

// transition caches the new status on the record and applies the alert-dedup
// rule: alert only when the status is alertable, differs from the previous
// one, and differs from the last status already notified. The caller must
// hold the mutex; a returned message is sent after it is released.
func (a *Aggregator) transition(st *station, ev evaluation) (string, bool) {
	prev := st.status
	st.status = ev.status
	if !ev.status.Alertable() || ev.status == prev || ev.status == st.lastNotified {
		return "", false
	}
	st.lastNotified = ev.status
	alertsTotal.WithLabelValues(string(ev.status)).Inc()
	return a.alertMessage(st, ev), true
}

func (a *Aggregator) alertMessage(st *station, ev evaluation) string {
	info := "no module data"
	switch {
	case ev.status == StatusOffline:
		info = fmt.Sprintf("no updates for %ds", int(a.staleAfter.Seconds()))
	case ev.worstModule != "":
		info = fmt.Sprintf("%s %.1f%%", ev.worstModule, ev.worstHealth)
	}
	return fmt.Sprintf("%s: %s (%s)", st.name, strings.ToUpper(string(ev.status)), info)
}

// Sweep re-evaluates every station on elapsed time alone. This is the only
// path that can take a silent station to offline. Alerts accumulated during
// the pass are sent after the mutex is released, followed by one broadcast.
func (a *Aggregator) Sweep(ctx context.Context) {
	a.mu.Lock()
	now := a.now()
	var msgs []string
	for _, st := range a.stations {
		ev := evaluate(st, now, a.staleAfter)
		if msg, alerted := a.transition(st, ev); alerted {
			msgs = append(msgs, msg)
		}
	}
	a.mu.Unlock()

	for _, msg := range msgs {
		a.notifier.Send(ctx, msg)
	}
	a.Broadcast()
}

// Run drives the staleness sweeper until the context is cancelled.
func (a *Aggregator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sweep(ctx)
		}
	}
}

// Snapshot builds the full world state, re-evaluating each station at the
// current time without mutating any record. Stations are ordered by id.
func (a *Aggregator) Snapshot() model.WorldState {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	stations := make([]model.StationSnapshot, 0, len(a.stations))
	for _, st := range a.stations {
		stations = append(stations, a.snapshotStation(st, now))
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].ID < stations[j].ID })
	return model.WorldState{Stations: stations}
}

// Station returns the snapshot of a single station, or false when the id has
// never reported.
func (a *Aggregator) Station(id int64) (model.StationSnapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, ok := a.stations[id]
	if !ok {
		return model.StationSnapshot{}, false
	}
	return a.snapshotStation(st, a.now()), true
}

func (a *Aggregator) snapshotStation(st *station, now time.Time) model.StationSnapshot {
	ev := evaluate(st, now, a.staleAfter)
	overall := ev.worstHealth
	if ev.stale {
		overall = 0
	}

	lat, lon := st.lat, st.lon
	if lat == nil || lon == nil {
		if c, ok := a.meta[st.name]; ok {
			if lat == nil {
				v := c.Lat
				lat = &v
			}
			if lon == nil {
				v := c.Lon
				lon = &v
			}
		}
	}

	modules := make(map[string]model.ModuleState, len(st.modules))
	for name, m := range st.modules {
		modules[name] = m
	}

	return model.StationSnapshot{
		ID:            st.id,
		Name:          st.name,
		Lat:           lat,
		Lon:           lon,
		Modules:       modules,
		LastEvent:     st.lastEvent,
		OverallHealth: overall,
		Status:        string(ev.status),
	}
}

// Subscribe registers a streaming client primed with the current world state.
func (a *Aggregator) Subscribe() *Subscriber {
	return a.hub.Subscribe(a.marshalState())
}

// Unsubscribe detaches a streaming client. Idempotent.
func (a *Aggregator) Unsubscribe(sub *Subscriber) {
	a.hub.Unsubscribe(sub)
}

// Broadcast pushes the current world state to every streaming subscriber.
func (a *Aggregator) Broadcast() {
	a.hub.Broadcast(a.marshalState())
	broadcastsTotal.Inc()
}

func (a *Aggregator) marshalState() []byte {
	payload, err := json.Marshal(a.Snapshot())
	if err != nil {
		log.Printf("marshal world state: %v", err)
		return []byte(`{"stations":[]}`)
	}
	return payload
}
