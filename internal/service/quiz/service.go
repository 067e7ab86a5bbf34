package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/heartmarshall/wordclass/internal/adapter/provider/llm"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// ErrNotConfigured is wrapped in a GenerationError when no provider is set.
var ErrNotConfigured = errors.New("no text generation provider configured")

const (
	purposeDistractors = "distractors"
	purposeTenseQuiz   = "tense_quiz"

	defaultQuestionCount = 5
	maxQuestionCount     = 20
)

const systemPrompt = `You write exercises for learners of English. ` +
	`Answer only with JSON matching the requested schema.`

// Config holds generation limits.
type Config struct {
	MaxTokens int
}

// Service turns catalog words and tense names into generated quiz content.
// Failures are returned as *domain.GenerationError and never retried.
type Service struct {
	provider  llm.Provider
	maxTokens int
	log       *slog.Logger
}

// NewService creates a quiz service. provider may be nil; every call then
// fails with a GenerationError.
func NewService(log *slog.Logger, provider llm.Provider, cfg Config) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Service{
		provider:  provider,
		maxTokens: cfg.MaxTokens,
		log:       log.With("service", "quiz"),
	}
}

// GenerateDistractors returns exactly three distinct wrong answers for word.
func (s *Service) GenerateDistractors(ctx context.Context, word, definition, imageURL string) ([]string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, domain.NewValidationError("word", "required")
	}

	prompt := fmt.Sprintf(
		"Word: %q\nDefinition: %q\nExplanatory image: %s\n\n"+
			"Give %d other English words a learner could confuse with this one. "+
			"They must be wrong answers for the definition and must differ from the word itself.",
		word, definition, imageURL, distractorCount,
	)

	var payload distractorPayload
	if err := s.generate(ctx, purposeDistractors, prompt, distractorSchema, &payload); err != nil {
		return nil, err
	}

	options := make([]string, 0, len(payload.Options))
	for _, o := range payload.Options {
		o = strings.TrimSpace(o)
		if o == "" || strings.EqualFold(o, word) || slices.Contains(options, o) {
			return nil, malformed(purposeDistractors, "options must be distinct and differ from the word")
		}
		options = append(options, o)
	}
	return options, nil
}

// TenseQuizInput asks for Count questions on Tense.
type TenseQuizInput struct {
	Tense string
	Count int
}

// Validate checks the input and collects all errors.
func (i *TenseQuizInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Tense) == "" {
		errs = append(errs, domain.FieldError{Field: "tense", Message: "required"})
	}
	if i.Count < 0 || i.Count > maxQuestionCount {
		errs = append(errs, domain.FieldError{Field: "count", Message: fmt.Sprintf("must be between 1 and %d", maxQuestionCount)})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// TenseQuiz generates multiple choice questions with four options each.
// Count zero means the default of five.
func (s *Service) TenseQuiz(ctx context.Context, input TenseQuizInput) ([]domain.TenseQuestion, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	count := input.Count
	if count == 0 {
		count = defaultQuestionCount
	}

	prompt := fmt.Sprintf(
		"Write %d fill-in-the-blank questions practising the %s tense. "+
			"Each question has %d options and exactly one of them, repeated verbatim in correctOption, is right.",
		count, strings.TrimSpace(input.Tense), tenseOptions,
	)

	var payload tenseQuizPayload
	if err := s.generate(ctx, purposeTenseQuiz, prompt, tenseQuizSchema, &payload); err != nil {
		return nil, err
	}

	questions := make([]domain.TenseQuestion, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		if !slices.Contains(q.Options, q.CorrectOption) {
			return nil, malformed(purposeTenseQuiz, fmt.Sprintf("question %d: correct option is not among the options", i))
		}
		questions = append(questions, domain.TenseQuestion{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
		})
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// generate runs one provider call and decodes the validated JSON into out.
func (s *Service) generate(ctx context.Context, purpose, prompt string, schema *llm.Schema, out any) error {
	if s.provider == nil {
		return &domain.GenerationError{Purpose: purpose, Err: ErrNotConfigured}
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, purpose), llm.UserPrompt(systemPrompt, prompt, schema, s.maxTokens))
	if err != nil {
		s.log.WarnContext(ctx, "generation failed", slog.String("purpose", purpose), slog.String("error", err.Error()))
		return &domain.GenerationError{Purpose: purpose, Err: err}
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return &domain.GenerationError{Purpose: purpose, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func malformed(purpose, reason string) error {
	return &domain.GenerationError{Purpose: purpose, Err: errors.New(reason)}
}
