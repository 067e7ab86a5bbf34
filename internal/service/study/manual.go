package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// ResetWord puts a word back at strength 0, due immediately.
func (s *Service) ResetWord(ctx context.Context, input WordActionInput) (domain.WordProgress, error) {
	if err := input.Validate(); err != nil {
		return domain.WordProgress{}, err
	}
	return s.manualAction(ctx, input.StudentID, input.WordID, "reset",
		func(p domain.WordProgress, now time.Time) (domain.WordProgress, error) {
			return ResetProgress(p, now), nil
		})
}

// MarkWordKnown removes a word from the review rotation until it is reset.
func (s *Service) MarkWordKnown(ctx context.Context, input WordActionInput) (domain.WordProgress, error) {
	if err := input.Validate(); err != nil {
		return domain.WordProgress{}, err
	}
	return s.manualAction(ctx, input.StudentID, input.WordID, "mark_known",
		func(p domain.WordProgress, now time.Time) (domain.WordProgress, error) {
			return MarkKnown(p, now), nil
		})
}

// RescheduleWord moves a word's next review without touching its strength.
func (s *Service) RescheduleWord(ctx context.Context, input RescheduleInput) (domain.WordProgress, error) {
	if err := input.Validate(); err != nil {
		return domain.WordProgress{}, err
	}
	delay := input.delay()
	return s.manualAction(ctx, input.StudentID, input.WordID, "reschedule",
		func(p domain.WordProgress, now time.Time) (domain.WordProgress, error) {
			return Reschedule(p, delay, now)
		})
}

func (s *Service) manualAction(
	ctx context.Context,
	studentID, wordID uuid.UUID,
	action string,
	apply func(domain.WordProgress, time.Time) (domain.WordProgress, error),
) (domain.WordProgress, error) {
	unlock := s.locks.lock(studentID)
	defer unlock()

	if _, err := s.resolveWord(ctx, studentID, wordID); err != nil {
		return domain.WordProgress{}, err
	}

	progress, err := s.snapshot(ctx, studentID)
	if err != nil {
		return domain.WordProgress{}, err
	}

	now := s.now()
	current, ok := progress[wordID]
	if !ok {
		current = domain.NewWordProgress(wordID, now)
	}

	updated, err := apply(current, now)
	if err != nil {
		return domain.WordProgress{}, err
	}

	if err := s.persist(ctx, studentID, []domain.WordProgress{updated}); err != nil {
		return domain.WordProgress{}, err
	}

	s.log.InfoContext(ctx, "word progress adjusted",
		slog.String("student_id", studentID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("action", action),
		slog.String("state", updated.State.String()),
	)
	return updated, nil
}
