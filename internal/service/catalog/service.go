package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

type wordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)
	Create(ctx context.Context, w *domain.Word) (*domain.Word, error)
	Update(ctx context.Context, w *domain.Word) (*domain.Word, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type distractorGenerator interface {
	GenerateDistractors(ctx context.Context, word, definition, imageURL string) ([]string, error)
}

// Service implements the supervisor-owned word catalog.
type Service struct {
	words     wordRepo
	generator distractorGenerator
	log       *slog.Logger
}

// NewService creates a new Catalog service. generator may be nil, in which
// case distractors must always be supplied.
func NewService(log *slog.Logger, words wordRepo, generator distractorGenerator) *Service {
	return &Service{
		words:     words,
		generator: generator,
		log:       log.With("service", "catalog"),
	}
}

// Create validates and stores a new word. Nothing is stored when validation
// or distractor generation fails.
func (s *Service) Create(ctx context.Context, input CreateWordInput) (*domain.Word, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	wordText := strings.TrimSpace(input.Word)
	correct := strings.TrimSpace(input.CorrectOption)
	if correct == "" {
		correct = wordText
	}

	distractors := trimAll(input.Distractors)
	if len(distractors) == 0 && s.generator != nil {
		generated, err := s.generator.GenerateDistractors(ctx, wordText, input.Definition, input.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("generate distractors: %w", err)
		}
		distractors = trimAll(generated)
	}

	if errs := validateOptions(correct, distractors); len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	w := &domain.Word{
		ID:            uuid.New(),
		SupervisorID:  input.SupervisorID,
		Word:          wordText,
		Definition:    strings.TrimSpace(input.Definition),
		ImageURL:      strings.TrimSpace(input.ImageURL),
		Options:       append([]string{correct}, distractors...),
		CorrectOption: correct,
		Unit:          strings.TrimSpace(input.Unit),
		Lesson:        strings.TrimSpace(input.Lesson),
	}

	created, err := s.words.Create(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("create word: %w", err)
	}

	s.log.InfoContext(ctx, "word created",
		slog.String("word_id", created.ID.String()),
		slog.String("supervisor_id", created.SupervisorID.String()),
		slog.Bool("generated_distractors", len(input.Distractors) == 0 && s.generator != nil),
	)
	return created, nil
}

// Update replaces the editable fields of a word owned by the supervisor.
func (s *Service) Update(ctx context.Context, input UpdateWordInput) (*domain.Word, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.owned(ctx, input.SupervisorID, input.ID)
	if err != nil {
		return nil, err
	}

	wordText := strings.TrimSpace(input.Word)
	correct := strings.TrimSpace(input.CorrectOption)
	if correct == "" {
		correct = wordText
	}

	distractors := trimAll(input.Distractors)
	if len(distractors) == 0 {
		for _, d := range existing.Distractors() {
			if d != correct {
				distractors = append(distractors, d)
			}
		}
	}

	if errs := validateOptions(correct, distractors); len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	existing.Word = wordText
	existing.Definition = strings.TrimSpace(input.Definition)
	existing.ImageURL = strings.TrimSpace(input.ImageURL)
	existing.Options = append([]string{correct}, distractors...)
	existing.CorrectOption = correct
	existing.Unit = strings.TrimSpace(input.Unit)
	existing.Lesson = strings.TrimSpace(input.Lesson)

	updated, err := s.words.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update word: %w", err)
	}

	s.log.InfoContext(ctx, "word updated", slog.String("word_id", updated.ID.String()))
	return updated, nil
}

// Delete removes a word from the catalog. Student progress that references
// it is left in place.
func (s *Service) Delete(ctx context.Context, supervisorID, id uuid.UUID) error {
	if _, err := s.owned(ctx, supervisorID, id); err != nil {
		return err
	}
	if err := s.words.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete word: %w", err)
	}

	s.log.InfoContext(ctx, "word deleted", slog.String("word_id", id.String()))
	return nil
}

// Get returns a single word.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	w, err := s.words.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}
	return w, nil
}

// List returns the words matching every set predicate of filter, ordered by
// unit, lesson, word and id.
func (s *Service) List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	words, err := s.words.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	sort.SliceStable(words, func(i, j int) bool {
		a, b := words[i], words[j]
		switch {
		case a.Unit != b.Unit:
			return a.Unit < b.Unit
		case a.Lesson != b.Lesson:
			return a.Lesson < b.Lesson
		case a.Word != b.Word:
			return a.Word < b.Word
		default:
			return a.ID.String() < b.ID.String()
		}
	})
	return words, nil
}

// ListBySupervisor returns every word owned by the supervisor.
func (s *Service) ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]domain.Word, error) {
	return s.List(ctx, domain.WordFilter{SupervisorID: &supervisorID})
}

// ListByUnit returns the supervisor's words in unit.
func (s *Service) ListByUnit(ctx context.Context, supervisorID uuid.UUID, unit string) ([]domain.Word, error) {
	return s.List(ctx, domain.WordFilter{SupervisorID: &supervisorID, Unit: &unit})
}

// ListByLesson returns the supervisor's words in one lesson of unit.
func (s *Service) ListByLesson(ctx context.Context, supervisorID uuid.UUID, unit, lesson string) ([]domain.Word, error) {
	return s.List(ctx, domain.WordFilter{SupervisorID: &supervisorID, Unit: &unit, Lesson: &lesson})
}

// ImportWords creates a word per row. Rows rejected by validation or
// generation are reported and skipped; any other failure aborts the run.
func (s *Service) ImportWords(ctx context.Context, supervisorID uuid.UUID, rows []ImportRow) (ImportResult, error) {
	var result ImportResult

	for _, row := range rows {
		_, err := s.Create(ctx, CreateWordInput{
			SupervisorID:  supervisorID,
			Word:          row.Word,
			Definition:    row.Definition,
			ImageURL:      row.ImageURL,
			Distractors:   row.Distractors,
			CorrectOption: row.CorrectOption,
			Unit:          row.Unit,
			Lesson:        row.Lesson,
		})
		if err == nil {
			result.Created++
			continue
		}

		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			result.Errors = append(result.Errors, ImportError{Line: row.Line, Reason: ve.Error(), Fields: ve.Fields()})
		case errors.Is(err, domain.ErrGeneration):
			result.Errors = append(result.Errors, ImportError{Line: row.Line, Reason: err.Error()})
		default:
			return result, fmt.Errorf("import line %d: %w", row.Line, err)
		}
	}

	s.log.InfoContext(ctx, "words imported",
		slog.String("supervisor_id", supervisorID.String()),
		slog.Int("created", result.Created),
		slog.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

// owned loads a word and hides it from supervisors who do not own it.
func (s *Service) owned(ctx context.Context, supervisorID, id uuid.UUID) (*domain.Word, error) {
	w, err := s.words.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}
	if w.SupervisorID != supervisorID {
		return nil, fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
	}
	return w, nil
}
