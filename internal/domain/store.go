package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProgressStore persists per-student word progress. Implementations return
// an empty slice for unknown students, report failures as *PersistenceError
// and notify OnChange subscribers after every successful write.
type ProgressStore interface {
	Get(ctx context.Context, studentID uuid.UUID) ([]WordProgress, error)
	Put(ctx context.Context, studentID uuid.UUID, p WordProgress) error
	// PutAll writes every record or none.
	PutAll(ctx context.Context, studentID uuid.UUID, ps []WordProgress) error
	OnChange(studentID uuid.UUID, fn func(ChangeEvent)) (cancel func())
}

// StatsStore persists one LearningStats record per student. Get returns
// ok=false for a student with no recorded stats.
type StatsStore interface {
	GetStats(ctx context.Context, studentID uuid.UUID) (LearningStats, bool, error)
	PutStats(ctx context.Context, s LearningStats) error
	OnChange(studentID uuid.UUID, fn func(ChangeEvent)) (cancel func())
}
