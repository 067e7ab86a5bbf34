package study

import (
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// progressCache keeps the last known progress of each student in memory.
// Writes land in the cache optimistically before the store confirms them and
// are reverted when the store rejects the write. A change notification from
// the store drops the student's entry so the next read goes to the store.
type progressCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]map[uuid.UUID]domain.WordProgress
	gens    map[uuid.UUID]uint64
}

func newProgressCache() *progressCache {
	return &progressCache{
		entries: make(map[uuid.UUID]map[uuid.UUID]domain.WordProgress),
		gens:    make(map[uuid.UUID]uint64),
	}
}

// get returns a copy of the cached progress of studentID.
func (c *progressCache) get(studentID uuid.UUID) (map[uuid.UUID]domain.WordProgress, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	words, ok := c.entries[studentID]
	if !ok {
		return nil, c.gens[studentID], false
	}
	return maps.Clone(words), c.gens[studentID], true
}

// fill stores a freshly loaded snapshot unless the entry was invalidated
// after the load started.
func (c *progressCache) fill(studentID uuid.UUID, gen uint64, ps []domain.WordProgress) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[studentID] != gen {
		return
	}
	words := make(map[uuid.UUID]domain.WordProgress, len(ps))
	for _, p := range ps {
		words[p.WordID] = p
	}
	c.entries[studentID] = words
}

// apply writes ps into a cached entry and returns a func that restores the
// previous values. It is a no-op when the student is not cached.
func (c *progressCache) apply(studentID uuid.UUID, ps ...domain.WordProgress) (rollback func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	words, ok := c.entries[studentID]
	if !ok {
		return func() {}
	}

	type prior struct {
		p       domain.WordProgress
		existed bool
	}
	saved := make(map[uuid.UUID]prior, len(ps))
	for _, p := range ps {
		if _, seen := saved[p.WordID]; !seen {
			old, existed := words[p.WordID]
			saved[p.WordID] = prior{p: old, existed: existed}
		}
		words[p.WordID] = p
	}
	gen := c.gens[studentID]

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		words, ok := c.entries[studentID]
		if !ok || c.gens[studentID] != gen {
			return
		}
		for id, old := range saved {
			if old.existed {
				words[id] = old.p
			} else {
				delete(words, id)
			}
		}
	}
}

// invalidate drops the cached entry of studentID.
func (c *progressCache) invalidate(studentID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, studentID)
	c.gens[studentID]++
}
