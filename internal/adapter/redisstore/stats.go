package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/wordclass/internal/domain"
)

// StatsRepo keeps one JSON string per student.
type StatsRepo struct {
	store *Store
	now   func() time.Time
}

var _ domain.StatsStore = (*StatsRepo)(nil)

// GetStats returns the student's stats; ok is false when none were stored.
func (r *StatsRepo) GetStats(ctx context.Context, studentID uuid.UUID) (domain.LearningStats, bool, error) {
	raw, err := r.store.rdb.Get(ctx, r.store.statsKey(studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.LearningStats{}, false, nil
	}
	if err != nil {
		return domain.LearningStats{}, false, mapError(err, "get stats")
	}

	var doc domain.StatsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.LearningStats{}, false, mapError(fmt.Errorf("decode stats: %w", err), "get stats")
	}
	s, err := doc.LearningStats(studentID)
	if err != nil {
		return domain.LearningStats{}, false, fmt.Errorf("get stats: %w", err)
	}
	return s, true, nil
}

// PutStats replaces the student's stats document.
func (r *StatsRepo) PutStats(ctx context.Context, s domain.LearningStats) error {
	if s.StudentID == uuid.Nil {
		return fmt.Errorf("put stats: %w", domain.NewValidationError("student_id", "required"))
	}
	now := r.now().UTC()
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	s.UpdatedAt = s.UpdatedAt.UTC().Truncate(time.Microsecond)

	raw, err := json.Marshal(s.ToDocument())
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if limit := r.store.cfg.MaxDocumentBytes; limit > 0 && len(raw) > limit {
		return fmt.Errorf("put stats: %d bytes exceeds %d: %w", len(raw), limit, domain.ErrPayloadTooLarge)
	}

	ev := domain.ChangeEvent{StudentID: s.StudentID, Kind: domain.ChangeKindStats, At: now}
	notice, err := r.store.notice(ev)
	if err != nil {
		return fmt.Errorf("put stats: %w", err)
	}

	_, err = r.store.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.store.statsKey(s.StudentID), raw, 0)
		pipe.Publish(ctx, r.store.channel(), notice)
		return nil
	})
	if err != nil {
		return mapError(err, "put stats")
	}

	r.store.hub.Publish(ev)
	return nil
}

// OnChange subscribes fn to the student's change events.
func (r *StatsRepo) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return r.store.hub.Subscribe(studentID, fn)
}
