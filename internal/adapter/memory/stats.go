package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// StatsStore keeps one LearningStats per student.
type StatsStore struct {
	mu   sync.RWMutex
	data map[uuid.UUID]domain.LearningStats
	hub  *changefeed.Hub
	now  func() time.Time
}

var _ domain.StatsStore = (*StatsStore)(nil)

// NewStatsStore creates an empty store publishing to hub.
func NewStatsStore(hub *changefeed.Hub) *StatsStore {
	return &StatsStore{
		data: make(map[uuid.UUID]domain.LearningStats),
		hub:  hub,
		now:  time.Now,
	}
}

func (s *StatsStore) GetStats(ctx context.Context, studentID uuid.UUID) (domain.LearningStats, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.LearningStats{}, false, domain.NewPersistenceError("get stats", err, true)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.data[studentID]
	if !ok {
		return domain.LearningStats{}, false, nil
	}
	return cloneStats(st), true, nil
}

func (s *StatsStore) PutStats(ctx context.Context, st domain.LearningStats) error {
	if err := ctx.Err(); err != nil {
		return domain.NewPersistenceError("put stats", err, true)
	}
	if st.StudentID == uuid.Nil {
		return domain.NewValidationError("student_id", "required")
	}
	now := s.now().UTC()
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = now
	}

	s.mu.Lock()
	s.data[st.StudentID] = cloneStats(st)
	s.mu.Unlock()

	s.hub.Publish(domain.ChangeEvent{StudentID: st.StudentID, Kind: domain.ChangeKindStats, At: now})
	return nil
}

func (s *StatsStore) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return s.hub.Subscribe(studentID, fn)
}

func cloneStats(st domain.LearningStats) domain.LearningStats {
	st.ActivityLog = slices.Clone(st.ActivityLog)
	st.ReviewedToday.CompletedTests = slices.Clone(st.ReviewedToday.CompletedTests)
	return st
}
