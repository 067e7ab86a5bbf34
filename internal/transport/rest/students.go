package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
	"github.com/heartmarshall/wordclass/internal/service/roster"
	"github.com/heartmarshall/wordclass/internal/service/study"
)

// student parses the student path value and checks the caller may act on it.
func (a *API) student(r *http.Request) (uuid.UUID, error) {
	studentID, err := pathID(r, "studentID")
	if err != nil {
		return uuid.Nil, err
	}
	if err := a.authorizeStudent(r.Context(), studentID); err != nil {
		return uuid.Nil, err
	}
	return studentID, nil
}

type enrollStudentRequest struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
}

// POST /students
func (a *API) handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	c, err := requireSupervisor(r.Context())
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	var req enrollStudentRequest
	if err := readJSON(r, &req); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	student, err := a.roster.Enroll(r.Context(), roster.EnrollInput{
		SupervisorID: c.ID,
		StudentID:    req.ID,
		DisplayName:  req.DisplayName,
	})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStudentResponse(student))
}

// GET /students
func (a *API) handleListStudents(w http.ResponseWriter, r *http.Request) {
	c, err := requireSupervisor(r.Context())
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	students, err := a.roster.List(r.Context(), c.ID)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toStudentResponses(students))
}

// GET /students/{studentID}/next?unit=&lesson=
func (a *API) handleNextDue(w http.ResponseWriter, r *http.Request) {
	studentID, err := a.student(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	due, ok, err := a.study.NextDueWord(r.Context(), study.NextDueInput{
		StudentID: studentID,
		Unit:      optionalQuery(r, "unit"),
		Lesson:    optionalQuery(r, "lesson"),
	})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toNextDueResponse(due, ok))
}

type recordOutcomeRequest struct {
	WordID          uuid.UUID `json:"wordId"`
	Outcome         string    `json:"outcome"`
	DurationSeconds int       `json:"durationSeconds"`
}

// POST /students/{studentID}/reviews
func (a *API) handleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	studentID, err := a.student(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	var req recordOutcomeRequest
	if err := readJSON(r, &req); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	p, err := a.study.RecordOutcome(r.Context(), study.RecordOutcomeInput{
		StudentID:       studentID,
		WordID:          req.WordID,
		Outcome:         domain.Outcome(req.Outcome),
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(p))
}

type answerRequest struct {
	WordID  uuid.UUID `json:"wordId"`
	Outcome string    `json:"outcome"`
}

type recordSessionRequest struct {
	Answers         []answerRequest `json:"answers"`
	DurationSeconds int             `json:"durationSeconds"`
	TestName        string          `json:"testName"`
}

// POST /students/{studentID}/sessions
func (a *API) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	studentID, err := a.student(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	var req recordSessionRequest
	if err := readJSON(r, &req); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	answers := make([]study.Answer, 0, len(req.Answers))
	for _, ans := range req.Answers {
		answers = append(answers, study.Answer{WordID: ans.WordID, Outcome: domain.Outcome(ans.Outcome)})
	}

	ps, err := a.study.RecordSession(r.Context(), study.RecordSessionInput{
		StudentID:       studentID,
		Answers:         answers,
		DurationSeconds: req.DurationSeconds,
		TestName:        req.TestName,
	})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"progress": toProgressResponses(ps)})
}

func (a *API) wordAction(r *http.Request) (study.WordActionInput, error) {
	studentID, err := a.student(r)
	if err != nil {
		return study.WordActionInput{}, err
	}
	wordID, err := pathID(r, "wordID")
	if err != nil {
		return study.WordActionInput{}, err
	}
	return study.WordActionInput{StudentID: studentID, WordID: wordID}, nil
}

// POST /students/{studentID}/words/{wordID}/reset
func (a *API) handleResetWord(w http.ResponseWriter, r *http.Request) {
	input, err := a.wordAction(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	p, err := a.study.ResetWord(r.Context(), input)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(p))
}

// POST /students/{studentID}/words/{wordID}/known
func (a *API) handleMarkKnown(w http.ResponseWriter, r *http.Request) {
	input, err := a.wordAction(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	p, err := a.study.MarkWordKnown(r.Context(), input)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(p))
}

type rescheduleRequest struct {
	Tier    string `json:"tier"`
	Minutes int    `json:"minutes"`
	Days    int    `json:"days"`
}

// POST /students/{studentID}/words/{wordID}/reschedule
func (a *API) handleReschedule(w http.ResponseWriter, r *http.Request) {
	input, err := a.wordAction(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	var req rescheduleRequest
	if err := readJSON(r, &req); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	p, err := a.study.RescheduleWord(r.Context(), study.RescheduleInput{
		StudentID: input.StudentID,
		WordID:    input.WordID,
		Tier:      req.Tier,
		Minutes:   req.Minutes,
		Days:      req.Days,
	})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(p))
}

// GET /students/{studentID}/progress
func (a *API) handleProgress(w http.ResponseWriter, r *http.Request) {
	studentID, err := a.student(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	overview, err := a.study.Progress(r.Context(), studentID)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toOverviewResponse(overview))
}

// GET /students/{studentID}/stats
func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	studentID, err := a.student(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	summary, err := a.stats.Get(r.Context(), studentID)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(summary))
}
