package fleet

import "sync"

// subscriberBuffer is how many snapshots a subscriber may fall behind before
// it is treated as disconnected.
const subscriberBuffer = 8

// Subscriber receives serialized world-state snapshots until the hub drops it.
type Subscriber struct {
	ch chan []byte
}

// Events returns the snapshot channel. It is closed when the subscriber is
// unsubscribed or dropped.
func (s *Subscriber) Events() <-chan []byte {
	return s.ch
}

// Hub tracks the live streaming subscribers. It guards its set with its own
// mutex, independent of the station-record mutex, so a slow subscriber never
// contends with update ingestion.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber and queues the given snapshot so the
// client never waits for the next broadcast.
func (h *Hub) Subscribe(initial []byte) *Subscriber {
	sub := &Subscriber{ch: make(chan []byte, subscriberBuffer)}
	sub.ch <- initial

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	streamSubscribers.Set(float64(len(h.subs)))
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber. Safe to call for one already removed.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
	streamSubscribers.Set(float64(len(h.subs)))
}

// Broadcast pushes the payload to every subscriber. One that cannot accept
// the push is assumed disconnected and silently dropped; it is not retried.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.ch <- payload:
		default:
			delete(h.subs, sub)
			close(sub.ch)
		}
	}
	streamSubscribers.Set(float64(len(h.subs)))
}
