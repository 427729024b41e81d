package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesInitialSnapshot(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe([]byte(`{"stations":[]}`))

	select {
	case payload := <-sub.Events():
		assert.JSONEq(t, `{"stations":[]}`, string(payload))
	default:
		t.Fatal("no initial snapshot queued")
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe(nil)
	second := hub.Subscribe(nil)
	<-first.Events()
	<-second.Events()

	hub.Broadcast([]byte("state"))

	assert.Equal(t, "state", string(<-first.Events()))
	assert.Equal(t, "state", string(<-second.Events()))
}

func TestStuckSubscriberIsDropped(t *testing.T) {
	hub := NewHub()
	stuck := hub.Subscribe(nil)
	healthy := hub.Subscribe(nil)
	<-healthy.Events()

	// The stuck subscriber never drains; once its buffer is full the next
	// push drops it, and the healthy one still receives every broadcast.
	for i := 0; i < subscriberBuffer+1; i++ {
		hub.Broadcast([]byte("state"))
		<-healthy.Events()
	}

	hub.mu.Lock()
	_, stillThere := hub.subs[stuck]
	hub.mu.Unlock()
	assert.False(t, stillThere)

	hub.Broadcast([]byte("final"))
	assert.Equal(t, "final", string(<-healthy.Events()))

	// Drain the stuck subscriber's buffer; the closed channel marks the drop.
	for i := 0; i < subscriberBuffer; i++ {
		_, ok := <-stuck.Events()
		require.True(t, ok)
	}
	_, ok := <-stuck.Events()
	assert.False(t, ok)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(nil)

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	hub.Broadcast([]byte("state"))
	<-sub.Events() // initial snapshot still buffered
	_, ok := <-sub.Events()
	assert.False(t, ok)
}
