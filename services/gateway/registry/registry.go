package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/zerotwo/vakula/internal/model"
)

// Registry tracks registered stations and their heartbeat liveness. It is the
// gateway's only state; stations that stop heartbeating simply fall out of
// the alive set without being deleted.
type Registry struct {
	mu       sync.RWMutex
	stations map[int64]model.StationInfo
	nextID   int64
	now      func() time.Time
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		stations: make(map[int64]model.StationInfo),
		now:      time.Now,
	}
}

// Register creates or refreshes a station entry. A request without an id gets
// the next free one assigned; a request with an id upserts that entry and
// bumps the id allocator past it so assigned ids never collide.
func (r *Registry) Register(req model.Registration) model.StationInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	now := r.now()

	var id int64
	if req.StationID == nil {
		id = r.nextID
		r.nextID++
	} else {
		id = *req.StationID
		if existing, ok := r.stations[id]; ok {
			existing.Name = req.Name
			existing.BaseURL = req.BaseURL
			existing.Tags = tags
			existing.LastHeartbeat = now
			r.stations[id] = existing
			return existing
		}
		if id >= r.nextID {
			r.nextID = id + 1
		}
	}

	info := model.StationInfo{
		ID:            id,
		Name:          req.Name,
		BaseURL:       req.BaseURL,
		Tags:          tags,
		LastHeartbeat: now,
	}
	r.stations[id] = info
	return info
}

// Heartbeat refreshes a station's liveness; false when the id is unknown.
func (r *Registry) Heartbeat(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stations[id]
	if !ok {
		return false
	}
	st.LastHeartbeat = r.now()
	r.stations[id] = st
	return true
}

// Get returns one registry entry.
func (r *Registry) Get(id int64) (model.StationInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.stations[id]
	return st, ok
}

// Alive returns the stations whose last heartbeat falls within the timeout,
// sorted by id.
func (r *Registry) Alive(timeout time.Duration) []model.StationInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	alive := make([]model.StationInfo, 0, len(r.stations))
	for _, st := range r.stations {
		if now.Sub(st.LastHeartbeat) <= timeout {
			alive = append(alive, st)
		}
	}
	sort.Slice(alive, func(i, j int) bool { return alive[i].ID < alive[j].ID })
	return alive
}
