package study

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// ProgressEntry joins a catalog word with the student's progress on it.
type ProgressEntry struct {
	Word     domain.Word
	Progress domain.WordProgress
}

// ProgressOverview summarizes a student's standing on the visible catalog.
type ProgressOverview struct {
	Entries  []ProgressEntry
	Total    int
	Unseen   int
	Due      int
	Learned  int
	Mastered int
}

// Progress returns the student's progress joined with the catalog. Progress
// for words that no longer resolve is left out.
func (s *Service) Progress(ctx context.Context, studentID uuid.UUID) (ProgressOverview, error) {
	if studentID == uuid.Nil {
		return ProgressOverview{}, domain.NewValidationError("student_id", "required")
	}

	words, err := s.visibleWords(ctx, studentID, nil, nil)
	if err != nil {
		return ProgressOverview{}, err
	}
	progress, err := s.snapshot(ctx, studentID)
	if err != nil {
		return ProgressOverview{}, err
	}

	now := s.now()
	out := ProgressOverview{Total: len(words), Entries: make([]ProgressEntry, 0, len(progress))}
	for _, w := range words {
		p, seen := progress[w.ID]
		if !seen {
			out.Unseen++
			out.Due++
			continue
		}
		out.Entries = append(out.Entries, ProgressEntry{Word: w, Progress: p})
		switch {
		case p.IsMastered():
			out.Mastered++
		case p.IsDue(now):
			out.Due++
		}
		if p.IsLearned(s.cfg.LearnedThreshold) {
			out.Learned++
		}
	}

	sort.SliceStable(out.Entries, func(i, j int) bool {
		a, b := out.Entries[i].Word, out.Entries[j].Word
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		if a.Lesson != b.Lesson {
			return a.Lesson < b.Lesson
		}
		return a.Word < b.Word
	})
	return out, nil
}
