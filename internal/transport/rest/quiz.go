package rest

import (
	"net/http"

	"github.com/heartmarshall/wordclass/internal/service/quiz"
)

type distractorsRequest struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	ImageURL   string `json:"imageUrl"`
}

// POST /words/distractors
func (a *API) handleDistractors(w http.ResponseWriter, r *http.Request) {
	if _, err := requireSupervisor(r.Context()); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	var req distractorsRequest
	if err := readJSON(r, &req); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	options, err := a.quiz.GenerateDistractors(r.Context(), req.Word, req.Definition, req.ImageURL)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"options": options})
}

type tenseQuizRequest struct {
	Tense string `json:"tense"`
	Count int    `json:"count"`
}

// POST /quizzes/tense
func (a *API) handleTenseQuiz(w http.ResponseWriter, r *http.Request) {
	if _, err := callerFrom(r.Context()); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	var req tenseQuizRequest
	if err := readJSON(r, &req); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	questions, err := a.quiz.TenseQuiz(r.Context(), quiz.TenseQuizInput{Tense: req.Tense, Count: req.Count})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}
