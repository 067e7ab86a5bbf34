package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordclass/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedStudent creates a student assigned to supervisorID.
func SeedStudent(t *testing.T, pool *pgxpool.Pool, supervisorID uuid.UUID) domain.Student {
	t.Helper()

	s := domain.Student{
		ID:           uuid.New(),
		SupervisorID: supervisorID,
		DisplayName:  "Student " + uniqueSuffix(),
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO students (id, supervisor_id, display_name) VALUES ($1, $2, $3)`,
		s.ID, s.SupervisorID, s.DisplayName,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedStudent: %v", err)
	}
	return s
}

// SeedWord creates a four-option word owned by supervisorID in unit/lesson.
func SeedWord(t *testing.T, pool *pgxpool.Pool, supervisorID uuid.UUID, unit, lesson string) domain.Word {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	text := "word-" + suffix
	w := domain.Word{
		ID:            uuid.New(),
		SupervisorID:  supervisorID,
		Word:          text,
		Definition:    "definition of " + text,
		ImageURL:      "https://img.example/" + suffix + ".png",
		Options:       []string{text, "alpha-" + suffix, "beta-" + suffix, "gamma-" + suffix},
		CorrectOption: text,
		Unit:          unit,
		Lesson:        lesson,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO words (id, supervisor_id, word, definition, image_url, options, correct_option, unit, lesson, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		w.ID, w.SupervisorID, w.Word, w.Definition, w.ImageURL, w.Options, w.CorrectOption, w.Unit, w.Lesson, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWord: %v", err)
	}
	return w
}
