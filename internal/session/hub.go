package session

import (
	"sort"
	"sync"

	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// Hub delivers "instrument fired" notifications to subscribed entities.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[sequencer.Instrument]map[int]func()
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[sequencer.Instrument]map[int]func())}
}

// Subscribe registers fn for inst. The returned function removes it and
// may be called more than once.
func (h *Hub) Subscribe(inst sequencer.Instrument, fn func()) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	if h.subs[inst] == nil {
		h.subs[inst] = make(map[int]func())
	}
	h.subs[inst][id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[inst], id)
	}
}

// Fire calls every subscriber of inst in subscription order.
func (h *Hub) Fire(inst sequencer.Instrument) {
	h.mu.RLock()
	ids := make([]int, 0, len(h.subs[inst]))
	for id := range h.subs[inst] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.subs[inst][id])
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// Subscribers returns the number of live subscriptions for inst.
func (h *Hub) Subscribers(inst sequencer.Instrument) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[inst])
}
