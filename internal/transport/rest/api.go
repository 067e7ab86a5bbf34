package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
	"github.com/heartmarshall/wordclass/internal/service/catalog"
	"github.com/heartmarshall/wordclass/internal/service/quiz"
	"github.com/heartmarshall/wordclass/internal/service/stats"
	"github.com/heartmarshall/wordclass/internal/service/study"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type studyService interface {
	NextDueWord(ctx context.Context, input study.NextDueInput) (study.DueWord, bool, error)
	RecordOutcome(ctx context.Context, input study.RecordOutcomeInput) (domain.WordProgress, error)
	RecordSession(ctx context.Context, input study.RecordSessionInput) ([]domain.WordProgress, error)
	ResetWord(ctx context.Context, input study.WordActionInput) (domain.WordProgress, error)
	MarkWordKnown(ctx context.Context, input study.WordActionInput) (domain.WordProgress, error)
	RescheduleWord(ctx context.Context, input study.RescheduleInput) (domain.WordProgress, error)
	Progress(ctx context.Context, studentID uuid.UUID) (study.ProgressOverview, error)
	Subscribe(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func())
}

type statsService interface {
	Get(ctx context.Context, studentID uuid.UUID) (stats.Summary, error)
	Subscribe(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func())
}

type catalogService interface {
	Create(ctx context.Context, input catalog.CreateWordInput) (*domain.Word, error)
	Update(ctx context.Context, input catalog.UpdateWordInput) (*domain.Word, error)
	Delete(ctx context.Context, supervisorID, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)
}

type quizService interface {
	GenerateDistractors(ctx context.Context, word, definition, imageURL string) ([]string, error)
	TenseQuiz(ctx context.Context, input quiz.TenseQuizInput) ([]domain.TenseQuestion, error)
}

// ---------------------------------------------------------------------------
// API
// ---------------------------------------------------------------------------

// Deps are the services behind the HTTP API.
type Deps struct {
	Study   studyService
	Stats   statsService
	Catalog catalogService
	Quiz    quizService
	Roster  rosterService
	Health  *HealthHandler
}

// API routes the JSON endpoints onto the services.
type API struct {
	study   studyService
	stats   statsService
	catalog catalogService
	quiz    quizService
	roster  rosterService
	health  *HealthHandler
	log     *slog.Logger
	mux     *http.ServeMux
}

// NewAPI creates the API and registers its routes.
func NewAPI(log *slog.Logger, deps Deps) *API {
	api := &API{
		study:   deps.Study,
		stats:   deps.Stats,
		catalog: deps.Catalog,
		quiz:    deps.Quiz,
		roster:  deps.Roster,
		health:  deps.Health,
		log:     log.With("handler", "rest"),
		mux:     http.NewServeMux(),
	}
	api.mount()
	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) mount() {
	if a.health != nil {
		a.mux.HandleFunc("GET /live", a.health.Live)
		a.mux.HandleFunc("GET /ready", a.health.Ready)
		a.mux.HandleFunc("GET /health", a.health.Health)
	}

	a.mux.HandleFunc("POST /students", a.handleEnrollStudent)
	a.mux.HandleFunc("GET /students", a.handleListStudents)
	a.mux.HandleFunc("GET /students/{studentID}/next", a.handleNextDue)
	a.mux.HandleFunc("POST /students/{studentID}/reviews", a.handleRecordOutcome)
	a.mux.HandleFunc("POST /students/{studentID}/sessions", a.handleRecordSession)
	a.mux.HandleFunc("POST /students/{studentID}/words/{wordID}/reset", a.handleResetWord)
	a.mux.HandleFunc("POST /students/{studentID}/words/{wordID}/known", a.handleMarkKnown)
	a.mux.HandleFunc("POST /students/{studentID}/words/{wordID}/reschedule", a.handleReschedule)
	a.mux.HandleFunc("GET /students/{studentID}/progress", a.handleProgress)
	a.mux.HandleFunc("GET /students/{studentID}/stats", a.handleStats)
	a.mux.HandleFunc("GET /students/{studentID}/events", a.handleEvents)

	a.mux.HandleFunc("POST /words", a.handleCreateWord)
	a.mux.HandleFunc("GET /words", a.handleListWords)
	a.mux.HandleFunc("GET /words/{wordID}", a.handleGetWord)
	a.mux.HandleFunc("PUT /words/{wordID}", a.handleUpdateWord)
	a.mux.HandleFunc("DELETE /words/{wordID}", a.handleDeleteWord)
	a.mux.HandleFunc("POST /words/distractors", a.handleDistractors)

	a.mux.HandleFunc("POST /quizzes/tense", a.handleTenseQuiz)
}
