package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
	"github.com/heartmarshall/wordclass/internal/service/catalog"
	"github.com/heartmarshall/wordclass/internal/service/quiz"
	"github.com/heartmarshall/wordclass/internal/service/roster"
	"github.com/heartmarshall/wordclass/internal/service/stats"
	"github.com/heartmarshall/wordclass/internal/service/study"
)

// ---------------------------------------------------------------------------
// studyServiceMock
// ---------------------------------------------------------------------------

var _ studyService = &studyServiceMock{}

type studyServiceMock struct {
	NextDueWordFunc    func(ctx context.Context, input study.NextDueInput) (study.DueWord, bool, error)
	RecordOutcomeFunc  func(ctx context.Context, input study.RecordOutcomeInput) (domain.WordProgress, error)
	RecordSessionFunc  func(ctx context.Context, input study.RecordSessionInput) ([]domain.WordProgress, error)
	ResetWordFunc      func(ctx context.Context, input study.WordActionInput) (domain.WordProgress, error)
	MarkWordKnownFunc  func(ctx context.Context, input study.WordActionInput) (domain.WordProgress, error)
	RescheduleWordFunc func(ctx context.Context, input study.RescheduleInput) (domain.WordProgress, error)
	ProgressFunc       func(ctx context.Context, studentID uuid.UUID) (study.ProgressOverview, error)
	SubscribeFunc      func(studentID uuid.UUID, fn func(domain.ChangeEvent)) func()

	mu    sync.Mutex
	calls []string
}

func (m *studyServiceMock) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

// Calls returns the names of the methods called so far.
func (m *studyServiceMock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *studyServiceMock) NextDueWord(ctx context.Context, input study.NextDueInput) (study.DueWord, bool, error) {
	if m.NextDueWordFunc == nil {
		panic("studyServiceMock.NextDueWordFunc: method is nil but studyService.NextDueWord was just called")
	}
	m.record("NextDueWord")
	return m.NextDueWordFunc(ctx, input)
}

func (m *studyServiceMock) RecordOutcome(ctx context.Context, input study.RecordOutcomeInput) (domain.WordProgress, error) {
	if m.RecordOutcomeFunc == nil {
		panic("studyServiceMock.RecordOutcomeFunc: method is nil but studyService.RecordOutcome was just called")
	}
	m.record("RecordOutcome")
	return m.RecordOutcomeFunc(ctx, input)
}

func (m *studyServiceMock) RecordSession(ctx context.Context, input study.RecordSessionInput) ([]domain.WordProgress, error) {
	if m.RecordSessionFunc == nil {
		panic("studyServiceMock.RecordSessionFunc: method is nil but studyService.RecordSession was just called")
	}
	m.record("RecordSession")
	return m.RecordSessionFunc(ctx, input)
}

func (m *studyServiceMock) ResetWord(ctx context.Context, input study.WordActionInput) (domain.WordProgress, error) {
	if m.ResetWordFunc == nil {
		panic("studyServiceMock.ResetWordFunc: method is nil but studyService.ResetWord was just called")
	}
	m.record("ResetWord")
	return m.ResetWordFunc(ctx, input)
}

func (m *studyServiceMock) MarkWordKnown(ctx context.Context, input study.WordActionInput) (domain.WordProgress, error) {
	if m.MarkWordKnownFunc == nil {
		panic("studyServiceMock.MarkWordKnownFunc: method is nil but studyService.MarkWordKnown was just called")
	}
	m.record("MarkWordKnown")
	return m.MarkWordKnownFunc(ctx, input)
}

func (m *studyServiceMock) RescheduleWord(ctx context.Context, input study.RescheduleInput) (domain.WordProgress, error) {
	if m.RescheduleWordFunc == nil {
		panic("studyServiceMock.RescheduleWordFunc: method is nil but studyService.RescheduleWord was just called")
	}
	m.record("RescheduleWord")
	return m.RescheduleWordFunc(ctx, input)
}

func (m *studyServiceMock) Progress(ctx context.Context, studentID uuid.UUID) (study.ProgressOverview, error) {
	if m.ProgressFunc == nil {
		panic("studyServiceMock.ProgressFunc: method is nil but studyService.Progress was just called")
	}
	m.record("Progress")
	return m.ProgressFunc(ctx, studentID)
}

func (m *studyServiceMock) Subscribe(studentID uuid.UUID, fn func(domain.ChangeEvent)) func() {
	m.record("Subscribe")
	if m.SubscribeFunc == nil {
		return func() {}
	}
	return m.SubscribeFunc(studentID, fn)
}

// ---------------------------------------------------------------------------
// statsServiceMock
// ---------------------------------------------------------------------------

var _ statsService = &statsServiceMock{}

type statsServiceMock struct {
	GetFunc       func(ctx context.Context, studentID uuid.UUID) (stats.Summary, error)
	SubscribeFunc func(studentID uuid.UUID, fn func(domain.ChangeEvent)) func()
}

func (m *statsServiceMock) Get(ctx context.Context, studentID uuid.UUID) (stats.Summary, error) {
	if m.GetFunc == nil {
		panic("statsServiceMock.GetFunc: method is nil but statsService.Get was just called")
	}
	return m.GetFunc(ctx, studentID)
}

func (m *statsServiceMock) Subscribe(studentID uuid.UUID, fn func(domain.ChangeEvent)) func() {
	if m.SubscribeFunc == nil {
		return func() {}
	}
	return m.SubscribeFunc(studentID, fn)
}

// ---------------------------------------------------------------------------
// catalogServiceMock
// ---------------------------------------------------------------------------

var _ catalogService = &catalogServiceMock{}

type catalogServiceMock struct {
	CreateFunc func(ctx context.Context, input catalog.CreateWordInput) (*domain.Word, error)
	UpdateFunc func(ctx context.Context, input catalog.UpdateWordInput) (*domain.Word, error)
	DeleteFunc func(ctx context.Context, supervisorID, id uuid.UUID) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	ListFunc   func(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)
}

func (m *catalogServiceMock) Create(ctx context.Context, input catalog.CreateWordInput) (*domain.Word, error) {
	if m.CreateFunc == nil {
		panic("catalogServiceMock.CreateFunc: method is nil but catalogService.Create was just called")
	}
	return m.CreateFunc(ctx, input)
}

func (m *catalogServiceMock) Update(ctx context.Context, input catalog.UpdateWordInput) (*domain.Word, error) {
	if m.UpdateFunc == nil {
		panic("catalogServiceMock.UpdateFunc: method is nil but catalogService.Update was just called")
	}
	return m.UpdateFunc(ctx, input)
}

func (m *catalogServiceMock) Delete(ctx context.Context, supervisorID, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("catalogServiceMock.DeleteFunc: method is nil but catalogService.Delete was just called")
	}
	return m.DeleteFunc(ctx, supervisorID, id)
}

func (m *catalogServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	if m.GetFunc == nil {
		panic("catalogServiceMock.GetFunc: method is nil but catalogService.Get was just called")
	}
	return m.GetFunc(ctx, id)
}

func (m *catalogServiceMock) List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	if m.ListFunc == nil {
		panic("catalogServiceMock.ListFunc: method is nil but catalogService.List was just called")
	}
	return m.ListFunc(ctx, filter)
}

// ---------------------------------------------------------------------------
// quizServiceMock
// ---------------------------------------------------------------------------

var _ quizService = &quizServiceMock{}

type quizServiceMock struct {
	GenerateDistractorsFunc func(ctx context.Context, word, definition, imageURL string) ([]string, error)
	TenseQuizFunc           func(ctx context.Context, input quiz.TenseQuizInput) ([]domain.TenseQuestion, error)
}

func (m *quizServiceMock) GenerateDistractors(ctx context.Context, word, definition, imageURL string) ([]string, error) {
	if m.GenerateDistractorsFunc == nil {
		panic("quizServiceMock.GenerateDistractorsFunc: method is nil but quizService.GenerateDistractors was just called")
	}
	return m.GenerateDistractorsFunc(ctx, word, definition, imageURL)
}

func (m *quizServiceMock) TenseQuiz(ctx context.Context, input quiz.TenseQuizInput) ([]domain.TenseQuestion, error) {
	if m.TenseQuizFunc == nil {
		panic("quizServiceMock.TenseQuizFunc: method is nil but quizService.TenseQuiz was just called")
	}
	return m.TenseQuizFunc(ctx, input)
}

// ---------------------------------------------------------------------------
// rosterServiceMock
// ---------------------------------------------------------------------------

var _ rosterService = &rosterServiceMock{}

// rosterServiceMock keeps students in a map keyed by id.
type rosterServiceMock struct {
	mu       sync.Mutex
	students map[uuid.UUID]domain.Student

	EnrollFunc func(ctx context.Context, input roster.EnrollInput) (domain.Student, error)
}

func newRosterServiceMock(students ...domain.Student) *rosterServiceMock {
	m := &rosterServiceMock{students: make(map[uuid.UUID]domain.Student)}
	for _, s := range students {
		m.students[s.ID] = s
	}
	return m
}

func (m *rosterServiceMock) SupervisorOf(_ context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[studentID]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	return s.SupervisorID, nil
}

func (m *rosterServiceMock) Enroll(ctx context.Context, input roster.EnrollInput) (domain.Student, error) {
	if m.EnrollFunc == nil {
		panic("rosterServiceMock.EnrollFunc: method is nil but rosterService.Enroll was just called")
	}
	s, err := m.EnrollFunc(ctx, input)
	if err != nil {
		return domain.Student{}, err
	}
	m.mu.Lock()
	m.students[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *rosterServiceMock) List(_ context.Context, supervisorID uuid.UUID) ([]domain.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Student, 0)
	for _, s := range m.students {
		if s.SupervisorID == supervisorID {
			out = append(out, s)
		}
	}
	return out, nil
}
