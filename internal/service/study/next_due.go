package study

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// DueWord is a catalog word together with the progress that made it due.
type DueWord struct {
	Word     domain.Word
	Progress domain.WordProgress
	// IsNew is set for words the student has never answered.
	IsNew bool
}

// NextDueWord returns the earliest due word visible to the student, or
// ok=false when nothing is due. Words the student has never seen count as
// due now with strength 0; mastered words and progress whose word no
// longer resolves are skipped.
func (s *Service) NextDueWord(ctx context.Context, input NextDueInput) (DueWord, bool, error) {
	if err := input.Validate(); err != nil {
		return DueWord{}, false, err
	}

	words, err := s.visibleWords(ctx, input.StudentID, input.Unit, input.Lesson)
	if err != nil {
		return DueWord{}, false, err
	}
	progress, err := s.snapshot(ctx, input.StudentID)
	if err != nil {
		return DueWord{}, false, err
	}

	due := collectDue(words, progress, s.now())
	if len(due) == 0 {
		return DueWord{}, false, nil
	}

	s.log.DebugContext(ctx, "next due word",
		slog.String("student_id", input.StudentID.String()),
		slog.String("word_id", due[0].Word.ID.String()),
		slog.Int("due", len(due)),
	)
	return due[0], true, nil
}

// collectDue returns every due word ordered by next review, then word id.
func collectDue(words []domain.Word, progress map[uuid.UUID]domain.WordProgress, now time.Time) []DueWord {
	due := make([]DueWord, 0, len(words))
	for _, w := range words {
		p, seen := progress[w.ID]
		if !seen {
			due = append(due, DueWord{Word: w, Progress: domain.NewWordProgress(w.ID, now), IsNew: true})
			continue
		}
		if p.IsDue(now) {
			due = append(due, DueWord{Word: w, Progress: p})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := *due[i].Progress.NextReview, *due[j].Progress.NextReview
		if !a.Equal(b) {
			return a.Before(b)
		}
		return bytes.Compare(due[i].Word.ID[:], due[j].Word.ID[:]) < 0
	})
	return due
}
