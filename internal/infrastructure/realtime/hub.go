package realtime

import (
	"sync"
	"sync/atomic"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

const defaultBuffer = 64

type subscription struct {
	table   string
	storeID string
	ch      chan domain.ChangeEvent
	// lagged is set when an event was dropped; the next delivery becomes a resync.
	lagged atomic.Bool
}

func (s *subscription) matches(evt domain.ChangeEvent) bool {
	if s.table != "" && s.table != evt.Table {
		return false
	}
	return s.storeID == "" || s.storeID == evt.StoreID
}

// Hub fans change events out to in-process subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{subs: make(map[uint64]*subscription), buffer: buffer}
}

// Subscribe registers interest in a table and store; empty values match everything.
// The returned func removes the subscription and closes the channel. It is safe to call twice.
func (h *Hub) Subscribe(table, storeID string) (<-chan domain.ChangeEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscription{table: table, storeID: storeID, ch: make(chan domain.ChangeEvent, h.buffer)}
	if h.closed {
		close(sub.ch)
		return sub.ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if s, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(s.ch)
			}
		})
	}
}

// Publish delivers evt to every matching subscriber without blocking. A subscriber whose
// buffer is full misses the event and receives a resync event on its next delivery.
func (h *Hub) Publish(evt domain.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !evt.IsResync() && !sub.matches(evt) {
			continue
		}
		deliver(sub, evt)
	}
}

// Resync asks every subscriber to refetch its local state.
func (h *Hub) Resync() {
	h.Publish(domain.ResyncEvent())
}

func deliver(sub *subscription, evt domain.ChangeEvent) {
	if sub.lagged.Load() {
		evt = domain.ResyncEvent()
	}
	select {
	case sub.ch <- evt:
		if evt.IsResync() {
			sub.lagged.Store(false)
		}
	default:
		if !sub.lagged.Swap(true) {
			logger.Get().Warn().
				Str("table", evt.Table).
				Str("store_id", evt.StoreID).
				Msg("[Realtime] Subscriber buffer full, event dropped")
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close releases every subscription. Later subscriptions receive an already closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
	h.closed = true
}
