package study

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type progressStore interface {
	Get(ctx context.Context, studentID uuid.UUID) ([]domain.WordProgress, error)
	Put(ctx context.Context, studentID uuid.UUID, p domain.WordProgress) error
	PutAll(ctx context.Context, studentID uuid.UUID, ps []domain.WordProgress) error
	OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func())
}

type wordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)
}

type rosterRepo interface {
	SupervisorOf(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error)
}

type statsRecorder interface {
	RecordEvent(ctx context.Context, event domain.StatsEvent) (domain.LearningStats, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds the tunables of the review flow.
type Config struct {
	LearnedThreshold int
	IncorrectDelay   time.Duration
	StoreTimeout     time.Duration
}

// Service drives review sessions: it picks due words, applies answers
// through the Scheduler and persists the result.
type Service struct {
	progress  progressStore
	words     wordRepo
	roster    rosterRepo
	stats     statsRecorder
	log       *slog.Logger
	scheduler Scheduler
	cfg       Config
	now       func() time.Time

	locks *studentLocks
	cache *progressCache

	subsMu sync.Mutex
	subs   map[uuid.UUID]func()
}

// NewService creates a new Study service.
func NewService(
	log *slog.Logger,
	progress progressStore,
	words wordRepo,
	roster rosterRepo,
	stats statsRecorder,
	cfg Config,
) *Service {
	if cfg.LearnedThreshold <= 0 {
		cfg.LearnedThreshold = 7
	}
	return &Service{
		progress:  progress,
		words:     words,
		roster:    roster,
		stats:     stats,
		log:       log.With("service", "study"),
		scheduler: NewScheduler(cfg.IncorrectDelay),
		cfg:       cfg,
		now:       time.Now,
		locks:     newStudentLocks(),
		cache:     newProgressCache(),
		subs:      make(map[uuid.UUID]func()),
	}
}

// Close cancels every change subscription held by the service.
func (s *Service) Close() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for id, cancel := range s.subs {
		cancel()
		delete(s.subs, id)
	}
}

// Subscribe registers fn for progress changes of the student, including
// writes made by other processes sharing the store.
func (s *Service) Subscribe(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return s.progress.OnChange(studentID, func(ev domain.ChangeEvent) {
		if ev.Kind == domain.ChangeKindStats {
			return
		}
		fn(ev)
	})
}

// withTimeout bounds a single store call.
func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// watch subscribes once per student to store notifications.
func (s *Service) watch(studentID uuid.UUID) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	if _, ok := s.subs[studentID]; ok {
		return
	}
	s.subs[studentID] = s.progress.OnChange(studentID, func(ev domain.ChangeEvent) {
		// Stores may share one feed for progress and stats.
		if ev.Kind == domain.ChangeKindStats {
			return
		}
		s.cache.invalidate(ev.StudentID)
	})
}

// snapshot returns the progress of studentID keyed by word, from the cache
// when possible.
func (s *Service) snapshot(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]domain.WordProgress, error) {
	if words, _, ok := s.cache.get(studentID); ok {
		return words, nil
	}
	s.watch(studentID)
	_, gen, _ := s.cache.get(studentID)

	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.progress.Get(tctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	s.cache.fill(studentID, gen, list)

	out := make(map[uuid.UUID]domain.WordProgress, len(list))
	for _, p := range list {
		out[p.WordID] = p
	}
	return out, nil
}

// visibleWords lists the catalog entries of the student's supervisor.
func (s *Service) visibleWords(ctx context.Context, studentID uuid.UUID, unit, lesson *string) ([]domain.Word, error) {
	supervisorID, err := s.roster.SupervisorOf(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get supervisor: %w", err)
	}
	words, err := s.words.List(ctx, domain.WordFilter{
		SupervisorID: &supervisorID,
		Unit:         unit,
		Lesson:       lesson,
	})
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

// resolveWord loads a word and checks that the student may study it.
func (s *Service) resolveWord(ctx context.Context, studentID, wordID uuid.UUID) (*domain.Word, error) {
	supervisorID, err := s.roster.SupervisorOf(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get supervisor: %w", err)
	}
	word, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}
	if word.SupervisorID != supervisorID {
		return nil, fmt.Errorf("word %s: %w", wordID, domain.ErrNotFound)
	}
	return word, nil
}

// persist writes ps optimistically to the cache and then to the store,
// reverting the cache when the store fails.
func (s *Service) persist(ctx context.Context, studentID uuid.UUID, ps []domain.WordProgress) error {
	rollback := s.cache.apply(studentID, ps...)

	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var err error
	if len(ps) == 1 {
		err = s.progress.Put(tctx, studentID, ps[0])
	} else {
		err = s.progress.PutAll(tctx, studentID, ps)
	}
	if err != nil {
		rollback()
		s.log.WarnContext(ctx, "progress write failed, optimistic state reverted",
			slog.String("student_id", studentID.String()),
			slog.Int("records", len(ps)),
			slog.Bool("retryable", domain.IsRetryable(err)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// emitStats forwards a review event. Progress is already durable at this
// point, so a failure is logged rather than returned.
func (s *Service) emitStats(ctx context.Context, event domain.StatsEvent) {
	if s.stats == nil {
		return
	}
	if _, err := s.stats.RecordEvent(ctx, event); err != nil {
		s.log.ErrorContext(ctx, "record stats event",
			slog.String("student_id", event.StudentID.String()),
			slog.Int("reviewed", event.ReviewedCount),
			slog.String("error", err.Error()),
		)
	}
}
