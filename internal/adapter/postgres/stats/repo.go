// Package stats implements the learning stats store on PostgreSQL.
package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/wordclass/internal/adapter/postgres"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// Repo stores one learning_stats row per student.
type Repo struct {
	db   postgres.DB
	tx   *postgres.TxManager
	feed *postgres.Feed
	now  func() time.Time
}

// New creates a stats repository.
func New(db postgres.DB, feed *postgres.Feed) *Repo {
	return &Repo{
		db:   db,
		tx:   postgres.NewTxManager(db),
		feed: feed,
		now:  time.Now,
	}
}

var _ domain.StatsStore = (*Repo)(nil)

const getSQL = `
SELECT time_spent_seconds, total_words_reviewed, today_date, today_count,
       today_time_spent, today_completed_tests, activity_log, updated_at
FROM learning_stats
WHERE student_id = $1`

const upsertSQL = `
INSERT INTO learning_stats (student_id, time_spent_seconds, total_words_reviewed, today_date,
                            today_count, today_time_spent, today_completed_tests, activity_log, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (student_id) DO UPDATE SET
    time_spent_seconds    = EXCLUDED.time_spent_seconds,
    total_words_reviewed  = EXCLUDED.total_words_reviewed,
    today_date            = EXCLUDED.today_date,
    today_count           = EXCLUDED.today_count,
    today_time_spent      = EXCLUDED.today_time_spent,
    today_completed_tests = EXCLUDED.today_completed_tests,
    activity_log          = EXCLUDED.activity_log,
    updated_at            = EXCLUDED.updated_at`

// GetStats returns the student's stats; ok is false when none were stored.
func (r *Repo) GetStats(ctx context.Context, studentID uuid.UUID) (domain.LearningStats, bool, error) {
	s := domain.LearningStats{StudentID: studentID}
	var (
		spent, total int64
		tests, log   []string
	)

	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, getSQL, studentID).Scan(
		&spent, &total, &s.ReviewedToday.Date, &s.ReviewedToday.Count,
		&s.ReviewedToday.TimeSpentSeconds, &tests, &log, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LearningStats{}, false, nil
	}
	if err != nil {
		return domain.LearningStats{}, false, postgres.MapError(err, "get stats")
	}

	s.TimeSpentSeconds = int(spent)
	s.TotalWordsReviewed = int(total)
	s.ReviewedToday.CompletedTests = tests
	s.ActivityLog = log
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, true, nil
}

// PutStats replaces the student's stats record.
func (r *Repo) PutStats(ctx context.Context, s domain.LearningStats) error {
	if s.StudentID == uuid.Nil {
		return fmt.Errorf("put stats: %w", domain.NewValidationError("student_id", "required"))
	}
	now := r.now().UTC().Truncate(time.Microsecond)
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	tests := s.ReviewedToday.CompletedTests
	if tests == nil {
		tests = []string{}
	}
	log := s.ActivityLog
	if log == nil {
		log = []string{}
	}

	ev := domain.ChangeEvent{StudentID: s.StudentID, Kind: domain.ChangeKindStats, At: now}

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)
		if _, err := q.Exec(ctx, upsertSQL,
			s.StudentID, int64(s.TimeSpentSeconds), int64(s.TotalWordsReviewed), s.ReviewedToday.Date,
			int32(s.ReviewedToday.Count), int32(s.ReviewedToday.TimeSpentSeconds), tests, log,
			s.UpdatedAt.UTC().Truncate(time.Microsecond),
		); err != nil {
			return err
		}
		return r.feed.Notify(ctx, q, ev)
	})
	if err != nil {
		return postgres.MapError(err, "put stats")
	}

	r.feed.Publish(ev)
	return nil
}

// OnChange subscribes fn to the student's change events.
func (r *Repo) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return r.feed.Subscribe(studentID, fn)
}
