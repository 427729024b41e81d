package fleet

import (
	"sort"
	"time"

	"github.com/zerotwo/vakula/internal/model"
)

// Status classifies a station's overall condition.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarn     Status = "warn"
	StatusBad      Status = "bad"
	StatusCritical Status = "critical"
	StatusOffline  Status = "offline"
)

// Alertable reports whether entering this status warrants a notification.
// Returning to ok never alerts.
func (s Status) Alertable() bool {
	switch s {
	case StatusWarn, StatusBad, StatusCritical, StatusOffline:
		return true
	}
	return false
}

// station is the broker's record of one reporting agent. Records are created
// on first update and never deleted; a silent station goes offline instead.
type station struct {
	id         int64
	name       string
	lat        *float64
	lon        *float64
	modules    map[string]model.ModuleState
	lastUpdate time.Time // zero until the first update arrives
	lastEvent  string

	status       Status
	lastNotified Status // dedup only, never exposed
}

// evaluation is the outcome of one status derivation.
type evaluation struct {
	status      Status
	worstModule string // empty when the station has no modules
	worstHealth float64
	stale       bool
}

// evaluate derives a station's status from its module health and the elapsed
// time since its last update. It is pure: the update path and the sweeper call
// it and must get identical answers for identical input. Modules are scanned
// in name order so ties on the minimum health resolve deterministically. A
// station that has never reported is not stale, no matter how old it is.
func evaluate(st *station, now time.Time, staleAfter time.Duration) evaluation {
	ev := evaluation{status: StatusOK, worstHealth: 100}

	names := make([]string, 0, len(st.modules))
	for name := range st.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if h := st.modules[name].Health; h < ev.worstHealth {
			ev.worstHealth = h
			ev.worstModule = name
		}
	}

	if !st.lastUpdate.IsZero() && now.Sub(st.lastUpdate) > staleAfter {
		ev.stale = true
	}

	switch {
	case ev.stale:
		ev.status = StatusOffline
	case ev.worstHealth <= 20:
		ev.status = StatusCritical
	case ev.worstHealth <= 50:
		ev.status = StatusBad
	case ev.worstHealth <= 80:
		ev.status = StatusWarn
	}
	return ev
}

func clampHealth(h float64) float64 {
	if h < 0 {
		return 0
	}
	if h > 100 {
		return 100
	}
	return h
}
