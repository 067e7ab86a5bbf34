package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

type statsStore interface {
	GetStats(ctx context.Context, studentID uuid.UUID) (domain.LearningStats, bool, error)
	PutStats(ctx context.Context, s domain.LearningStats) error
	OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func())
}

// Config holds the stats aggregation settings.
type Config struct {
	Timezone     string
	StoreTimeout time.Duration
}

// Service aggregates review events into per-student learning stats.
// Concurrent writers for one student resolve as last write wins.
type Service struct {
	store   statsStore
	log     *slog.Logger
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time
}

// NewService creates a new Stats service.
func NewService(log *slog.Logger, store statsStore, cfg Config) *Service {
	return &Service{
		store:   store,
		log:     log.With("service", "stats"),
		loc:     ParseTimezone(cfg.Timezone),
		timeout: cfg.StoreTimeout,
		now:     time.Now,
	}
}

// Summary is the read view of a student's stats.
type Summary struct {
	Stats  domain.LearningStats
	Streak int
	// ResetsAt is when today's counters roll over.
	ResetsAt time.Time
}

// RecordEvent adds one review event to the student's stats and persists
// the result.
func (s *Service) RecordEvent(ctx context.Context, event domain.StatsEvent) (domain.LearningStats, error) {
	if err := validateEvent(event); err != nil {
		return domain.LearningStats{}, err
	}

	now := s.now()
	today := Today(now, s.loc)

	current, err := s.load(ctx, event.StudentID, today)
	if err != nil {
		return domain.LearningStats{}, err
	}

	updated := current.Apply(event, today)
	updated.UpdatedAt = now.UTC()

	tctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.PutStats(tctx, updated); err != nil {
		return domain.LearningStats{}, fmt.Errorf("save stats: %w", err)
	}

	s.log.DebugContext(ctx, "stats event recorded",
		slog.String("student_id", event.StudentID.String()),
		slog.Int("reviewed", event.ReviewedCount),
		slog.Int("reviewed_today", updated.ReviewedToday.Count),
	)
	return updated, nil
}

// Get returns the student's stats as of today. A stale daily record is
// shown as reset; the stored record is left untouched.
func (s *Service) Get(ctx context.Context, studentID uuid.UUID) (Summary, error) {
	if studentID == uuid.Nil {
		return Summary{}, domain.NewValidationError("student_id", "required")
	}

	now := s.now()
	today := Today(now, s.loc)

	st, err := s.load(ctx, studentID, today)
	if err != nil {
		return Summary{}, err
	}
	st = st.RolledOver(today)

	return Summary{
		Stats:    st,
		Streak:   st.Streak(today),
		ResetsAt: NextDayStart(now, s.loc),
	}, nil
}

// Subscribe registers fn for change notifications of the student's stats.
func (s *Service) Subscribe(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return s.store.OnChange(studentID, func(ev domain.ChangeEvent) {
		if ev.Kind != domain.ChangeKindStats {
			return
		}
		fn(ev)
	})
}

func (s *Service) load(ctx context.Context, studentID uuid.UUID, today string) (domain.LearningStats, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	st, ok, err := s.store.GetStats(tctx, studentID)
	if err != nil {
		return domain.LearningStats{}, fmt.Errorf("get stats: %w", err)
	}
	if !ok {
		return domain.NewLearningStats(studentID, today), nil
	}
	return st, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func validateEvent(e domain.StatsEvent) error {
	var errs []domain.FieldError

	if e.StudentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "student_id", Message: "required"})
	}
	if e.ReviewedCount < 0 {
		errs = append(errs, domain.FieldError{Field: "reviewed_count", Message: "must be non-negative"})
	}
	if e.DurationSeconds < 0 {
		errs = append(errs, domain.FieldError{Field: "duration_seconds", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
