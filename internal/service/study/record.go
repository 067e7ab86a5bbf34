package study

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// RecordOutcome applies one answer to the word's progress, persists it and
// emits a stats event. Nothing is reported as applied when the write fails.
func (s *Service) RecordOutcome(ctx context.Context, input RecordOutcomeInput) (domain.WordProgress, error) {
	if err := input.Validate(); err != nil {
		return domain.WordProgress{}, err
	}

	unlock := s.locks.lock(input.StudentID)
	defer unlock()

	if _, err := s.resolveWord(ctx, input.StudentID, input.WordID); err != nil {
		return domain.WordProgress{}, err
	}

	progress, err := s.snapshot(ctx, input.StudentID)
	if err != nil {
		return domain.WordProgress{}, err
	}

	now := s.now()
	current, ok := progress[input.WordID]
	if !ok {
		current = domain.NewWordProgress(input.WordID, now)
	}
	updated := s.scheduler.ApplyOutcome(current, input.Outcome, now)
	updated.UpdatedAt = now

	if err := s.persist(ctx, input.StudentID, []domain.WordProgress{updated}); err != nil {
		return domain.WordProgress{}, err
	}

	s.emitStats(ctx, domain.StatsEvent{
		StudentID:       input.StudentID,
		ReviewedCount:   1,
		DurationSeconds: input.DurationSeconds,
	})

	s.log.InfoContext(ctx, "outcome recorded",
		slog.String("student_id", input.StudentID.String()),
		slog.String("word_id", input.WordID.String()),
		slog.String("outcome", input.Outcome.String()),
		slog.Int("strength", updated.Strength),
	)

	return updated, nil
}

// RecordSession applies the answers of a completed quiz strictly in order,
// so repeated answers for one word build on each other, then persists all
// resulting states in one atomic batch and emits one stats event.
func (s *Service) RecordSession(ctx context.Context, input RecordSessionInput) ([]domain.WordProgress, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(input.StudentID)
	defer unlock()

	words, err := s.visibleWords(ctx, input.StudentID, nil, nil)
	if err != nil {
		return nil, err
	}
	visible := make(map[uuid.UUID]struct{}, len(words))
	for _, w := range words {
		visible[w.ID] = struct{}{}
	}
	for _, a := range input.Answers {
		if _, ok := visible[a.WordID]; !ok {
			return nil, fmt.Errorf("word %s: %w", a.WordID, domain.ErrNotFound)
		}
	}

	progress, err := s.snapshot(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := make([]uuid.UUID, 0, len(input.Answers))
	for _, a := range input.Answers {
		current, ok := progress[a.WordID]
		if !ok {
			current = domain.NewWordProgress(a.WordID, now)
		}
		if !slices.Contains(order, a.WordID) {
			order = append(order, a.WordID)
		}
		next := s.scheduler.ApplyOutcome(current, a.Outcome, now)
		next.UpdatedAt = now
		progress[a.WordID] = next
	}

	batch := make([]domain.WordProgress, 0, len(order))
	for _, id := range order {
		batch = append(batch, progress[id])
	}

	if err := s.persist(ctx, input.StudentID, batch); err != nil {
		return nil, err
	}

	s.emitStats(ctx, domain.StatsEvent{
		StudentID:       input.StudentID,
		ReviewedCount:   len(input.Answers),
		DurationSeconds: input.DurationSeconds,
		TestName:        input.TestName,
	})

	s.log.InfoContext(ctx, "session recorded",
		slog.String("student_id", input.StudentID.String()),
		slog.Int("answers", len(input.Answers)),
		slog.Int("words", len(batch)),
		slog.String("test_name", input.TestName),
	)

	return batch, nil
}
