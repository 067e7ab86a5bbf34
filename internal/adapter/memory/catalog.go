package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/domain"
)

// WordRepo is an in-memory word catalog.
type WordRepo struct {
	mu    sync.RWMutex
	words map[uuid.UUID]domain.Word
	now   func() time.Time
}

// NewWordRepo creates an empty catalog.
func NewWordRepo() *WordRepo {
	return &WordRepo{words: make(map[uuid.UUID]domain.Word), now: time.Now}
}

func (r *WordRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.words[id]
	if !ok {
		return nil, fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
	}
	w.Options = slices.Clone(w.Options)
	return &w, nil
}

// List returns the matching words ordered by unit, lesson, word and id.
func (r *WordRepo) List(_ context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Word, 0)
	for _, w := range r.words {
		if filter.Matches(w) {
			w.Options = slices.Clone(w.Options)
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b domain.Word) int {
		if c := strings.Compare(a.Unit, b.Unit); c != 0 {
			return c
		}
		if c := strings.Compare(a.Lesson, b.Lesson); c != 0 {
			return c
		}
		if c := strings.Compare(a.Word, b.Word); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (r *WordRepo) Create(_ context.Context, w *domain.Word) (*domain.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *w
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if _, exists := r.words[created.ID]; exists {
		return nil, domain.NewValidationError("id", "already exists")
	}
	now := r.now().UTC().Truncate(time.Microsecond)
	created.CreatedAt, created.UpdatedAt = now, now
	created.Options = slices.Clone(w.Options)
	r.words[created.ID] = created

	out := created
	out.Options = slices.Clone(created.Options)
	return &out, nil
}

func (r *WordRepo) Update(_ context.Context, w *domain.Word) (*domain.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.words[w.ID]
	if !ok {
		return nil, fmt.Errorf("word %s: %w", w.ID, domain.ErrNotFound)
	}
	updated := *w
	updated.SupervisorID = existing.SupervisorID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.now().UTC().Truncate(time.Microsecond)
	updated.Options = slices.Clone(w.Options)
	r.words[w.ID] = updated

	out := updated
	out.Options = slices.Clone(updated.Options)
	return &out, nil
}

func (r *WordRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.words[id]; !ok {
		return fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
	}
	delete(r.words, id)
	return nil
}

// Roster maps students to supervisors.
type Roster struct {
	mu       sync.RWMutex
	students map[uuid.UUID]domain.Student
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{students: make(map[uuid.UUID]domain.Student)}
}

func (r *Roster) SupervisorOf(_ context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[studentID]
	if !ok {
		return uuid.Nil, fmt.Errorf("student %s: %w", studentID, domain.ErrNotFound)
	}
	return s.SupervisorID, nil
}

func (r *Roster) Create(_ context.Context, s domain.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students[s.ID] = s
	return nil
}

func (r *Roster) ListBySupervisor(_ context.Context, supervisorID uuid.UUID) ([]domain.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Student, 0)
	for _, s := range r.students {
		if s.SupervisorID == supervisorID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b domain.Student) int {
		if c := strings.Compare(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}
