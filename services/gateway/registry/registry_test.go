package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerotwo/vakula/internal/model"
)

func newTestRegistry() (*Registry, *time.Time) {
	reg := New()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	reg.now = func() time.Time { return *clock }
	return reg, clock
}

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	reg, _ := newTestRegistry()

	first := reg.Register(model.Registration{Name: "Zagreb", BaseURL: "http://station-a:9000"})
	second := reg.Register(model.Registration{Name: "Split", BaseURL: "http://station-b:9000"})

	assert.Equal(t, int64(0), first.ID)
	assert.Equal(t, int64(1), second.ID)
}

func TestRegisterWithExplicitIDUpserts(t *testing.T) {
	reg, _ := newTestRegistry()

	id := int64(7)
	reg.Register(model.Registration{StationID: &id, Name: "Osijek", BaseURL: "http://a:9000"})
	updated := reg.Register(model.Registration{StationID: &id, Name: "Osijek East", BaseURL: "http://b:9000"})

	assert.Equal(t, int64(7), updated.ID)
	assert.Equal(t, "Osijek East", updated.Name)
	assert.Equal(t, "http://b:9000", updated.BaseURL)

	// The allocator must skip past explicit ids.
	next := reg.Register(model.Registration{Name: "Rijeka", BaseURL: "http://c:9000"})
	assert.Equal(t, int64(8), next.ID)
}

func TestHeartbeatUnknownID(t *testing.T) {
	reg, _ := newTestRegistry()
	assert.False(t, reg.Heartbeat(99))
}

func TestAliveFiltersOnHeartbeatAge(t *testing.T) {
	reg, clock := newTestRegistry()

	stale := reg.Register(model.Registration{Name: "Zagreb", BaseURL: "http://a:9000"})
	*clock = clock.Add(45 * time.Second)
	fresh := reg.Register(model.Registration{Name: "Split", BaseURL: "http://b:9000"})

	alive := reg.Alive(30 * time.Second)
	require.Len(t, alive, 1)
	assert.Equal(t, fresh.ID, alive[0].ID)

	require.True(t, reg.Heartbeat(stale.ID))
	alive = reg.Alive(30 * time.Second)
	assert.Len(t, alive, 2)
}

func TestAliveSortedByID(t *testing.T) {
	reg, _ := newTestRegistry()

	three := int64(3)
	one := int64(1)
	reg.Register(model.Registration{StationID: &three, Name: "C", BaseURL: "http://c:9000"})
	reg.Register(model.Registration{StationID: &one, Name: "A", BaseURL: "http://a:9000"})

	alive := reg.Alive(time.Minute)
	require.Len(t, alive, 2)
	assert.Equal(t, int64(1), alive[0].ID)
	assert.Equal(t, int64(3), alive[1].ID)
}

func TestRegisterNormalizesNilTags(t *testing.T) {
	reg, _ := newTestRegistry()
	info := reg.Register(model.Registration{Name: "Zadar", BaseURL: "http://a:9000"})
	assert.NotNil(t, info.Tags)
	assert.Empty(t, info.Tags)
}
