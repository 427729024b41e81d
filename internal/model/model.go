package model

import "time"

// ModuleState is the reported condition of one station module.
type ModuleState struct {
	Health float64 `json:"health"`
	Failed bool    `json:"failed"`
}

// BootstrapModule carries optional initial values for one module; nil fields
// leave the current value untouched.
type BootstrapModule struct {
	Health *float64 `json:"health,omitempty"`
	Failed *bool    `json:"failed,omitempty"`
}

// StationUpdate is the payload a station pushes to the broker. Lat/Lon are
// pointers so an absent coordinate can be told apart from zero.
type StationUpdate struct {
	StationID int64                  `json:"station_id"`
	Name      string                 `json:"name"`
	Lat       *float64               `json:"lat,omitempty"`
	Lon       *float64               `json:"lon,omitempty"`
	Modules   map[string]ModuleState `json:"modules"`
	LastEvent string                 `json:"last_event,omitempty"`
}

// AdjustCommand asks a station to degrade (negative amount) or repair
// (positive amount) one of its modules.
type AdjustCommand struct {
	Module string  `json:"module"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason,omitempty"`
}

// Registration is a station's request to appear in the gateway registry.
type Registration struct {
	StationID *int64   `json:"station_id,omitempty"`
	Name      string   `json:"name"`
	BaseURL   string   `json:"base_url"`
	Tags      []string `json:"tags"`
}

// StationInfo is one gateway registry entry.
type StationInfo struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	BaseURL       string    `json:"base_url"`
	Tags          []string  `json:"tags"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// StationSnapshot is one station as exposed in the broker's world state.
// OverallHealth is the worst module health, forced to 0 while the station is
// offline.
type StationSnapshot struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Lat           *float64               `json:"lat"`
	Lon           *float64               `json:"lon"`
	Modules       map[string]ModuleState `json:"modules"`
	LastEvent     string                 `json:"last_event,omitempty"`
	OverallHealth float64                `json:"overall_health"`
	Status        string                 `json:"status"`
}

// WorldState is the full snapshot served to dashboards and pushed to
// streaming subscribers on every broadcast.
type WorldState struct {
	Stations []StationSnapshot `json:"stations"`
}
