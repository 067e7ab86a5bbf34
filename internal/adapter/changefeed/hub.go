// Package changefeed fans store change events out to in-process
// subscribers keyed by student.
package changefeed

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/domain"
)

// Hub delivers ChangeEvents to the callbacks registered for the event's
// student. Callbacks run synchronously on the publishing goroutine and
// must not block.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uuid.UUID]map[uint64]func(domain.ChangeEvent)
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[uint64]func(domain.ChangeEvent))}
}

// Subscribe registers fn for studentID. The returned cancel is idempotent.
func (h *Hub) Subscribe(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[studentID] == nil {
		h.subs[studentID] = make(map[uint64]func(domain.ChangeEvent))
	}
	h.subs[studentID][id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[studentID], id)
			if len(h.subs[studentID]) == 0 {
				delete(h.subs, studentID)
			}
		})
	}
}

// Publish delivers ev to every subscriber of ev.StudentID.
func (h *Hub) Publish(ev domain.ChangeEvent) {
	h.mu.RLock()
	fns := make([]func(domain.ChangeEvent), 0, len(h.subs[ev.StudentID]))
	for _, fn := range h.subs[ev.StudentID] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Broadcast delivers an event of kind to every subscribed student. Feeds use
// it after losing their connection, when individual events may be missing.
func (h *Hub) Broadcast(kind domain.ChangeKind, at time.Time) {
	h.mu.RLock()
	students := make([]uuid.UUID, 0, len(h.subs))
	for id := range h.subs {
		students = append(students, id)
	}
	h.mu.RUnlock()

	for _, id := range students {
		h.Publish(domain.ChangeEvent{StudentID: id, Kind: kind, At: at})
	}
}

// Subscribers returns the number of callbacks registered for studentID.
func (h *Hub) Subscribers(studentID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[studentID])
}
