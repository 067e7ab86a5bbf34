package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
	"github.com/heartmarshall/wordclass/internal/service/catalog"
	"github.com/heartmarshall/wordclass/internal/service/quiz"
	"github.com/heartmarshall/wordclass/internal/service/roster"
	"github.com/heartmarshall/wordclass/internal/service/stats"
	"github.com/heartmarshall/wordclass/internal/service/study"
	"github.com/heartmarshall/wordclass/internal/transport/middleware"
	"github.com/heartmarshall/wordclass/pkg/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type apiFixture struct {
	study      *studyServiceMock
	stats      *statsServiceMock
	catalog    *catalogServiceMock
	quiz       *quizServiceMock
	roster     *rosterServiceMock
	handler    http.Handler
	student    uuid.UUID
	supervisor uuid.UUID
	now        time.Time
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	f := &apiFixture{
		study:      &studyServiceMock{},
		stats:      &statsServiceMock{},
		catalog:    &catalogServiceMock{},
		quiz:       &quizServiceMock{},
		student:    uuid.New(),
		supervisor: uuid.New(),
		now:        time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.roster = newRosterServiceMock(domain.Student{ID: f.student, SupervisorID: f.supervisor, DisplayName: "Ann"})
	api := NewAPI(slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		Study:   f.study,
		Stats:   f.stats,
		Catalog: f.catalog,
		Quiz:    f.quiz,
		Roster:  f.roster,
	})
	f.handler = middleware.MaxBodyBytes(1024)(api)
	return f
}

type identity struct {
	id   uuid.UUID
	role string
}

func (f *apiFixture) asStudent() *identity    { return &identity{f.student, ctxutil.RoleStudent} }
func (f *apiFixture) asSupervisor() *identity { return &identity{f.supervisor, ctxutil.RoleSupervisor} }

func (f *apiFixture) do(t *testing.T, who *identity, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if who != nil {
		ctx := ctxutil.WithUserID(req.Context(), who.id)
		ctx = ctxutil.WithRole(ctx, who.role)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func (f *apiFixture) word(text string) domain.Word {
	return domain.Word{
		ID:            uuid.New(),
		SupervisorID:  f.supervisor,
		Word:          text,
		Definition:    "definition of " + text,
		ImageURL:      "https://img.example/" + text + ".png",
		Options:       []string{text, "a", "b", "c"},
		CorrectOption: text,
		Unit:          "1",
		Lesson:        "1",
	}
}

func (f *apiFixture) progress(wordID uuid.UUID, strength int) domain.WordProgress {
	next := f.now.Add(time.Hour)
	return domain.WordProgress{WordID: wordID, State: domain.ProgressStateActive, Strength: strength, NextReview: &next, UpdatedAt: f.now}
}

// ---------------------------------------------------------------------------
// Access control
// ---------------------------------------------------------------------------

func TestAPI_StudentRoutes_Access(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.study.ProgressFunc = func(context.Context, uuid.UUID) (study.ProgressOverview, error) {
		return study.ProgressOverview{}, nil
	}
	stranger := &identity{uuid.New(), ctxutil.RoleSupervisor}
	otherStudent := &identity{uuid.New(), ctxutil.RoleStudent}

	tests := []struct {
		name string
		who  *identity
		path string
		want int
	}{
		{name: "anonymous", who: nil, path: "/students/" + f.student.String() + "/progress", want: http.StatusUnauthorized},
		{name: "self", who: f.asStudent(), path: "/students/" + f.student.String() + "/progress", want: http.StatusOK},
		{name: "other student", who: otherStudent, path: "/students/" + f.student.String() + "/progress", want: http.StatusForbidden},
		{name: "own supervisor", who: f.asSupervisor(), path: "/students/" + f.student.String() + "/progress", want: http.StatusOK},
		{name: "foreign supervisor", who: stranger, path: "/students/" + f.student.String() + "/progress", want: http.StatusForbidden},
		{name: "unknown student", who: f.asSupervisor(), path: "/students/" + uuid.NewString() + "/progress", want: http.StatusNotFound},
		{name: "malformed id", who: f.asStudent(), path: "/students/not-a-uuid/progress", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.who, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want >= 400 {
				resp := decode[errorResponse](t, rec)
				assert.NotEmpty(t, resp.Error)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Roster endpoints
// ---------------------------------------------------------------------------

func TestAPI_EnrollStudent(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	newStudent := uuid.New()
	f.roster.EnrollFunc = func(_ context.Context, input roster.EnrollInput) (domain.Student, error) {
		assert.Equal(t, f.supervisor, input.SupervisorID)
		assert.Equal(t, newStudent, input.StudentID)
		return domain.Student{ID: input.StudentID, SupervisorID: input.SupervisorID, DisplayName: input.DisplayName}, nil
	}
	body := `{"id":"` + newStudent.String() + `","displayName":"Bo"}`

	rec := f.do(t, f.asStudent(), http.MethodPost, "/students", body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, f.asSupervisor(), http.MethodPost, "/students", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[studentResponse](t, rec)
	assert.Equal(t, newStudent, resp.ID)
	assert.Equal(t, "Bo", resp.DisplayName)

	// The new student can now be reviewed by their supervisor.
	f.study.ProgressFunc = func(context.Context, uuid.UUID) (study.ProgressOverview, error) {
		return study.ProgressOverview{}, nil
	}
	rec = f.do(t, f.asSupervisor(), http.MethodGet, "/students/"+newStudent.String()+"/progress", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAPI_EnrollStudent_Errors(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.roster.EnrollFunc = func(_ context.Context, input roster.EnrollInput) (domain.Student, error) {
		if input.DisplayName == "" {
			return domain.Student{}, domain.NewValidationError("display_name", "required")
		}
		return domain.Student{}, fmt.Errorf("student %s: %w", input.StudentID, domain.ErrForbidden)
	}

	rec := f.do(t, f.asSupervisor(), http.MethodPost, "/students", `{"displayName":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Fields, "display_name")

	rec = f.do(t, f.asSupervisor(), http.MethodPost, "/students", `{"id":"`+uuid.NewString()+`","displayName":"X"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_ListStudents(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)

	rec := f.do(t, f.asStudent(), http.MethodGet, "/students", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, f.asSupervisor(), http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[[]studentResponse](t, rec)
	require.Len(t, resp, 1)
	assert.Equal(t, f.student, resp[0].ID)

	stranger := &identity{uuid.New(), ctxutil.RoleSupervisor}
	rec = f.do(t, stranger, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]studentResponse](t, rec))
}

// ---------------------------------------------------------------------------
// Review endpoints
// ---------------------------------------------------------------------------

func TestAPI_NextDue(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	w := f.word("apple")
	f.study.NextDueWordFunc = func(_ context.Context, input study.NextDueInput) (study.DueWord, bool, error) {
		assert.Equal(t, f.student, input.StudentID)
		require.NotNil(t, input.Unit)
		assert.Equal(t, "2", *input.Unit)
		assert.Nil(t, input.Lesson)
		return study.DueWord{Word: w, Progress: domain.NewWordProgress(w.ID, f.now), IsNew: true}, true, nil
	}

	rec := f.do(t, f.asStudent(), http.MethodGet, "/students/"+f.student.String()+"/next?unit=2", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[nextDueResponse](t, rec)
	assert.True(t, resp.Due)
	assert.True(t, resp.IsNew)
	require.NotNil(t, resp.Word)
	assert.Equal(t, w.ID, resp.Word.ID)
	require.NotNil(t, resp.Progress)
	assert.Equal(t, 0, resp.Progress.Strength)
}

func TestAPI_NextDue_NothingDue(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.study.NextDueWordFunc = func(context.Context, study.NextDueInput) (study.DueWord, bool, error) {
		return study.DueWord{}, false, nil
	}

	rec := f.do(t, f.asStudent(), http.MethodGet, "/students/"+f.student.String()+"/next", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"due":false}`, rec.Body.String())
}

func TestAPI_RecordOutcome(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	wordID := uuid.New()
	f.study.RecordOutcomeFunc = func(_ context.Context, input study.RecordOutcomeInput) (domain.WordProgress, error) {
		assert.Equal(t, f.student, input.StudentID)
		assert.Equal(t, wordID, input.WordID)
		assert.Equal(t, domain.OutcomeCorrect, input.Outcome)
		assert.Equal(t, 12, input.DurationSeconds)
		return f.progress(wordID, 1), nil
	}

	body := `{"wordId":"` + wordID.String() + `","outcome":"CORRECT","durationSeconds":12}`
	rec := f.do(t, f.asStudent(), http.MethodPost, "/students/"+f.student.String()+"/reviews", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[progressResponse](t, rec)
	assert.Equal(t, wordID, resp.WordID)
	assert.Equal(t, "ACTIVE", resp.State)
	assert.Equal(t, 1, resp.Strength)
}

func TestAPI_RecordSession_PreservesOrder(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	w1, w2 := uuid.New(), uuid.New()
	f.study.RecordSessionFunc = func(_ context.Context, input study.RecordSessionInput) ([]domain.WordProgress, error) {
		require.Len(t, input.Answers, 3)
		assert.Equal(t, []study.Answer{
			{WordID: w1, Outcome: domain.OutcomeCorrect},
			{WordID: w2, Outcome: domain.OutcomeIncorrect},
			{WordID: w1, Outcome: domain.OutcomeCorrect},
		}, input.Answers)
		assert.Equal(t, "unit 1 quiz", input.TestName)
		return []domain.WordProgress{f.progress(w1, 2), f.progress(w2, 0)}, nil
	}

	body := `{"answers":[` +
		`{"wordId":"` + w1.String() + `","outcome":"CORRECT"},` +
		`{"wordId":"` + w2.String() + `","outcome":"INCORRECT"},` +
		`{"wordId":"` + w1.String() + `","outcome":"CORRECT"}],` +
		`"durationSeconds":90,"testName":"unit 1 quiz"}`
	rec := f.do(t, f.asStudent(), http.MethodPost, "/students/"+f.student.String()+"/sessions", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[map[string][]progressResponse](t, rec)
	assert.Len(t, resp["progress"], 2)
}

func TestAPI_ManualActions(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	wordID := uuid.New()
	f.study.ResetWordFunc = func(_ context.Context, input study.WordActionInput) (domain.WordProgress, error) {
		assert.Equal(t, wordID, input.WordID)
		return domain.NewWordProgress(wordID, f.now), nil
	}
	f.study.MarkWordKnownFunc = func(_ context.Context, input study.WordActionInput) (domain.WordProgress, error) {
		return domain.MasteredProgress(wordID, f.now), nil
	}
	f.study.RescheduleWordFunc = func(_ context.Context, input study.RescheduleInput) (domain.WordProgress, error) {
		assert.Equal(t, "1w", input.Tier)
		assert.Zero(t, input.Minutes)
		return f.progress(wordID, 3), nil
	}

	base := "/students/" + f.student.String() + "/words/" + wordID.String()

	rec := f.do(t, f.asSupervisor(), http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, f.asSupervisor(), http.MethodPost, base+"/known", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	known := decode[progressResponse](t, rec)
	assert.Equal(t, "MASTERED", known.State)
	assert.Equal(t, -1, known.Strength, "legacy strength for mastered words")
	assert.Nil(t, known.NextReview)

	rec = f.do(t, f.asSupervisor(), http.MethodPost, base+"/reschedule", `{"tier":"1w"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []string{"ResetWord", "MarkWordKnown", "RescheduleWord"}, f.study.Calls())
}

func TestAPI_Stats(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.stats.GetFunc = func(_ context.Context, studentID uuid.UUID) (stats.Summary, error) {
		st := domain.NewLearningStats(studentID, "2026-03-10")
		st.TotalWordsReviewed = 42
		st.ActivityLog = []string{"2026-03-09", "2026-03-10"}
		return stats.Summary{Stats: st, Streak: 2, ResetsAt: f.now.Add(12 * time.Hour)}, nil
	}

	rec := f.do(t, f.asStudent(), http.MethodGet, "/students/"+f.student.String()+"/stats", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[map[string]any](t, rec)
	assert.EqualValues(t, 42, resp["totalWordsReviewed"])
	assert.EqualValues(t, 2, resp["streak"])
	assert.Equal(t, f.student.String(), resp["studentId"])
	today, ok := resp["reviewedToday"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2026-03-10", today["date"])
	assert.Equal(t, []any{}, today["completedTests"])
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func TestAPI_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantRetryable bool
	}{
		{
			name:       "validation",
			err:        domain.NewValidationErrors([]domain.FieldError{{Field: "outcome", Message: "must be CORRECT or INCORRECT"}}),
			wantStatus: http.StatusBadRequest,
		},
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{
			name:          "retryable persistence",
			err:           domain.NewPersistenceError("put progress", context.DeadlineExceeded, true),
			wantStatus:    http.StatusServiceUnavailable,
			wantRetryable: true,
		},
		{
			name:       "permanent persistence",
			err:        domain.NewPersistenceError("put progress", errors.New("constraint"), false),
			wantStatus: http.StatusInternalServerError,
		},
		{name: "payload too large", err: domain.ErrPayloadTooLarge, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAPIFixture(t)
			f.study.RecordOutcomeFunc = func(context.Context, study.RecordOutcomeInput) (domain.WordProgress, error) {
				return domain.WordProgress{}, tt.err
			}

			body := `{"wordId":"` + uuid.NewString() + `","outcome":"CORRECT"}`
			rec := f.do(t, f.asStudent(), http.MethodPost, "/students/"+f.student.String()+"/reviews", body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			resp := decode[errorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.wantRetryable, resp.Retryable)
			if tt.name == "validation" {
				assert.Equal(t, map[string]string{"outcome": "must be CORRECT or INCORRECT"}, resp.Fields)
			}
			if tt.name == "unexpected" {
				assert.Equal(t, "internal server error", resp.Error, "internal details are not leaked")
			}
		})
	}
}

func TestAPI_RequestBody(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	path := "/students/" + f.student.String() + "/reviews"

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "empty", body: "", want: http.StatusBadRequest},
		{name: "malformed", body: `{"wordId":`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"word":"x"}`, want: http.StatusBadRequest},
		{name: "trailing data", body: `{} {}`, want: http.StatusBadRequest},
		{name: "oversized", body: `{"testName":"` + strings.Repeat("x", 2048) + `"}`, want: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, f.asStudent(), http.MethodPost, path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, f.study.Calls(), "service is not reached with a bad body")
}

// ---------------------------------------------------------------------------
// Catalog endpoints
// ---------------------------------------------------------------------------

func TestAPI_CreateWord(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.catalog.CreateFunc = func(_ context.Context, input catalog.CreateWordInput) (*domain.Word, error) {
		assert.Equal(t, f.supervisor, input.SupervisorID)
		assert.Equal(t, []string{"pear", "plum", "fig"}, input.Distractors)
		w := f.word(input.Word)
		return &w, nil
	}

	body := `{"word":"apple","definition":"a fruit","imageUrl":"https://img.example/apple.png","distractors":["pear","plum","fig"]}`

	rec := f.do(t, f.asStudent(), http.MethodPost, "/words", body)
	assert.Equal(t, http.StatusForbidden, rec.Code, "students cannot edit the catalog")

	rec = f.do(t, f.asSupervisor(), http.MethodPost, "/words", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[wordResponse](t, rec)
	assert.Equal(t, "apple", resp.Word)
	assert.Equal(t, f.supervisor, resp.SupervisorID)
}

func TestAPI_CreateWord_TooFewDistractors(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.catalog.CreateFunc = func(context.Context, catalog.CreateWordInput) (*domain.Word, error) {
		return nil, domain.NewValidationError("distractors", "at least 3 distractors required")
	}

	body := `{"word":"apple","definition":"a fruit","imageUrl":"https://img.example/a.png","distractors":["pear","plum"]}`
	rec := f.do(t, f.asSupervisor(), http.MethodPost, "/words", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Contains(t, resp.Fields, "distractors")
}

func TestAPI_UpdateAndDeleteWord(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	w := f.word("apple")
	f.catalog.UpdateFunc = func(_ context.Context, input catalog.UpdateWordInput) (*domain.Word, error) {
		assert.Equal(t, w.ID, input.ID)
		assert.Equal(t, f.supervisor, input.SupervisorID)
		updated := w
		updated.Definition = input.Definition
		return &updated, nil
	}
	f.catalog.DeleteFunc = func(_ context.Context, supervisorID, id uuid.UUID) error {
		assert.Equal(t, f.supervisor, supervisorID)
		if id != w.ID {
			return domain.ErrNotFound
		}
		return nil
	}

	rec := f.do(t, f.asSupervisor(), http.MethodPut, "/words/"+w.ID.String(),
		`{"word":"apple","definition":"a red fruit","imageUrl":"https://img.example/a.png"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "a red fruit", decode[wordResponse](t, rec).Definition)

	rec = f.do(t, f.asSupervisor(), http.MethodDelete, "/words/"+w.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, f.asSupervisor(), http.MethodDelete, "/words/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_GetWord_HidesForeignCatalogs(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	own := f.word("apple")
	foreign := f.word("pear")
	foreign.SupervisorID = uuid.New()
	f.catalog.GetFunc = func(_ context.Context, id uuid.UUID) (*domain.Word, error) {
		switch id {
		case own.ID:
			return &own, nil
		case foreign.ID:
			return &foreign, nil
		}
		return nil, domain.ErrNotFound
	}

	rec := f.do(t, f.asStudent(), http.MethodGet, "/words/"+own.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code, "students read their supervisor's catalog")

	rec = f.do(t, f.asStudent(), http.MethodGet, "/words/"+foreign.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_ListWords(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.catalog.ListFunc = func(_ context.Context, filter domain.WordFilter) ([]domain.Word, error) {
		require.NotNil(t, filter.SupervisorID)
		assert.Equal(t, f.supervisor, *filter.SupervisorID)
		require.NotNil(t, filter.Lesson)
		assert.Equal(t, "3", *filter.Lesson)
		assert.Nil(t, filter.Unit)
		return []domain.Word{f.word("apple")}, nil
	}

	rec := f.do(t, f.asStudent(), http.MethodGet, "/words?lesson=3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[map[string][]wordResponse](t, rec)["words"], 1)

	rec = f.do(t, f.asSupervisor(), http.MethodGet, "/words?lesson=3&supervisorId="+f.supervisor.String(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, f.asSupervisor(), http.MethodGet, "/words?supervisorId="+uuid.NewString(), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ---------------------------------------------------------------------------
// Generation endpoints
// ---------------------------------------------------------------------------

func TestAPI_Distractors(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.quiz.GenerateDistractorsFunc = func(_ context.Context, word, definition, imageURL string) ([]string, error) {
		assert.Equal(t, "apple", word)
		return []string{"pear", "plum", "fig"}, nil
	}

	rec := f.do(t, f.asSupervisor(), http.MethodPost, "/words/distractors",
		`{"word":"apple","definition":"a fruit","imageUrl":"https://img.example/a.png"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"options":["pear","plum","fig"]}`, rec.Body.String())
}

func TestAPI_TenseQuiz_GenerationFailure(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.quiz.TenseQuizFunc = func(_ context.Context, input quiz.TenseQuizInput) ([]domain.TenseQuestion, error) {
		assert.Equal(t, "past simple", input.Tense)
		assert.Equal(t, 4, input.Count)
		return nil, &domain.GenerationError{Purpose: "tense_quiz", Err: errors.New("upstream 500")}
	}

	rec := f.do(t, f.asStudent(), http.MethodPost, "/quizzes/tense", `{"tense":"past simple","count":4}`)

	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
}

// ---------------------------------------------------------------------------
// Change events
// ---------------------------------------------------------------------------

func TestAPI_Events_StreamsChanges(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	registered := make(chan func(domain.ChangeEvent), 1)
	cancelled := make(chan struct{})
	f.study.SubscribeFunc = func(studentID uuid.UUID, fn func(domain.ChangeEvent)) func() {
		assert.Equal(t, f.student, studentID)
		registered <- fn
		return func() { close(cancelled) }
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who := f.asStudent()
		ctx := ctxutil.WithRole(ctxutil.WithUserID(r.Context(), who.id), who.role)
		f.handler.ServeHTTP(w, r.WithContext(ctx))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/students/"+f.student.String()+"/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	notify := <-registered
	wordID := uuid.New()
	notify(domain.ChangeEvent{StudentID: f.student, Kind: domain.ChangeKindProgress, WordIDs: []uuid.UUID{wordID}, At: f.now})

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	assert.Equal(t, "event: progress", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "data: "))
	var ev domain.ChangeEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &ev))
	assert.Equal(t, []uuid.UUID{wordID}, ev.WordIDs)

	cancel()
	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("subscription not cancelled after client disconnect")
	}
}
