// Package memory provides in-process stores for tests and single-process
// deployments without persistence.
package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// ProgressStore keeps progress in a map per student.
type ProgressStore struct {
	mu   sync.RWMutex
	data map[uuid.UUID]map[uuid.UUID]domain.WordProgress
	hub  *changefeed.Hub
	now  func() time.Time
}

var _ domain.ProgressStore = (*ProgressStore)(nil)

// NewProgressStore creates an empty store publishing to hub.
func NewProgressStore(hub *changefeed.Hub) *ProgressStore {
	return &ProgressStore{
		data: make(map[uuid.UUID]map[uuid.UUID]domain.WordProgress),
		hub:  hub,
		now:  time.Now,
	}
}

func (s *ProgressStore) Get(ctx context.Context, studentID uuid.UUID) ([]domain.WordProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewPersistenceError("get progress", err, true)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.WordProgress, 0, len(s.data[studentID]))
	for _, p := range s.data[studentID] {
		out = append(out, clone(p))
	}
	slices.SortFunc(out, func(a, b domain.WordProgress) int {
		return bytes.Compare(a.WordID[:], b.WordID[:])
	})
	return out, nil
}

func (s *ProgressStore) Put(ctx context.Context, studentID uuid.UUID, p domain.WordProgress) error {
	return s.PutAll(ctx, studentID, []domain.WordProgress{p})
}

// PutAll validates every record before storing any of them.
func (s *ProgressStore) PutAll(ctx context.Context, studentID uuid.UUID, ps []domain.WordProgress) error {
	if len(ps) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return domain.NewPersistenceError("put progress", err, true)
	}
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	now := s.now().UTC()
	ids := make([]uuid.UUID, 0, len(ps))

	s.mu.Lock()
	words := s.data[studentID]
	if words == nil {
		words = make(map[uuid.UUID]domain.WordProgress)
		s.data[studentID] = words
	}
	for _, p := range ps {
		p = clone(p)
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		p.UpdatedAt = p.UpdatedAt.UTC().Truncate(time.Microsecond)
		if !slices.Contains(ids, p.WordID) {
			ids = append(ids, p.WordID)
		}
		words[p.WordID] = p
	}
	s.mu.Unlock()

	s.hub.Publish(domain.ChangeEvent{StudentID: studentID, Kind: domain.ChangeKindProgress, WordIDs: ids, At: now})
	return nil
}

func (s *ProgressStore) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return s.hub.Subscribe(studentID, fn)
}

func clone(p domain.WordProgress) domain.WordProgress {
	if p.NextReview != nil {
		t := p.NextReview.UTC().Truncate(time.Microsecond)
		p.NextReview = &t
	}
	return p
}
