package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// StatsRepo stores each student's LearningStats as a JSON document.
type StatsRepo struct {
	db  *sql.DB
	hub *changefeed.Hub
	now func() time.Time
}

var _ domain.StatsStore = (*StatsRepo)(nil)

// GetStats returns the student's stats; ok is false when none were stored.
func (r *StatsRepo) GetStats(ctx context.Context, studentID uuid.UUID) (domain.LearningStats, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM learning_stats WHERE student_id = ?`, studentID.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LearningStats{}, false, nil
	}
	if err != nil {
		return domain.LearningStats{}, false, mapError(err, "get stats")
	}

	var doc domain.StatsDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
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

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO learning_stats (student_id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (student_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		s.StudentID.String(), string(raw), s.UpdatedAt.UnixMicro(),
	)
	if err != nil {
		return mapError(err, "put stats")
	}

	r.hub.Publish(domain.ChangeEvent{StudentID: s.StudentID, Kind: domain.ChangeKindStats, At: now})
	return nil
}

// OnChange subscribes fn to the student's change events.
func (r *StatsRepo) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return r.hub.Subscribe(studentID, fn)
}
