package sim

import (
	"fmt"
	"log"
	"sync"

	"github.com/zerotwo/vakula/internal/model"
)

// DefaultModules is the module complement every station starts with, each at
// full health.
var DefaultModules = []string{"temperature", "wind", "rain", "snow"}

// Station holds one agent's own module-health bookkeeping. The broker derives
// status from what this reports; the station itself only tracks raw values.
type Station struct {
	mu        sync.Mutex
	id        int64
	name      string
	lat       *float64
	lon       *float64
	modules   map[string]model.ModuleState
	lastEvent string
}

// New builds a station with the default module set at 100% health.
func New(id int64, name string, lat, lon *float64) *Station {
	modules := make(map[string]model.ModuleState, len(DefaultModules))
	for _, name := range DefaultModules {
		modules[name] = model.ModuleState{Health: 100}
	}
	return &Station{id: id, name: name, lat: lat, lon: lon, modules: modules}
}

// Adjust applies a degrade (negative) or repair (positive) amount to one
// module, clamping health to [0, 100] and flagging failure at zero. The
// event text records the command's reason, or a generated description.
func (s *Station) Adjust(cmd model.AdjustCommand) (model.ModuleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.modules[cmd.Module]
	if !ok {
		return model.ModuleState{}, fmt.Errorf("unknown module %s", cmd.Module)
	}

	old := m.Health
	m.Health = clamp(m.Health + cmd.Amount)
	m.Failed = m.Health <= 0
	s.modules[cmd.Module] = m

	switch {
	case cmd.Reason != "":
		s.lastEvent = cmd.Reason
	case cmd.Amount < 0:
		s.lastEvent = fmt.Sprintf("%s degraded by %.1f%%", cmd.Module, -cmd.Amount)
	default:
		s.lastEvent = fmt.Sprintf("%s repaired by %.1f%%", cmd.Module, cmd.Amount)
	}
	log.Printf("%s (health %.1f -> %.1f)", s.lastEvent, old, m.Health)

	return m, nil
}

// Bootstrap force-sets module values, typically once at provisioning time.
// Nil fields leave the current value alone; setting health without a failed
// flag recomputes it from the new health.
func (s *Station) Bootstrap(modules map[string]model.BootstrapModule, lastEvent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, incoming := range modules {
		m, ok := s.modules[name]
		if !ok {
			return fmt.Errorf("unknown module %s", name)
		}
		if incoming.Health != nil {
			m.Health = clamp(*incoming.Health)
			if incoming.Failed == nil {
				m.Failed = m.Health <= 0
			}
		}
		if incoming.Failed != nil {
			m.Failed = *incoming.Failed
		}
		s.modules[name] = m
	}

	if lastEvent != "" {
		s.lastEvent = lastEvent
	}
	return nil
}

// State returns the update payload the station reports to the broker.
func (s *Station) State() model.StationUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	modules := make(map[string]model.ModuleState, len(s.modules))
	for name, m := range s.modules {
		modules[name] = m
	}
	return model.StationUpdate{
		StationID: s.id,
		Name:      s.name,
		Lat:       s.lat,
		Lon:       s.lon,
		Modules:   modules,
		LastEvent: s.lastEvent,
	}
}

func clamp(h float64) float64 {
	if h < 0 {
		return 0
	}
	if h > 100 {
		return 100
	}
	return h
}
