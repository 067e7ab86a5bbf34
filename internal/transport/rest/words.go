package rest

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
	"github.com/heartmarshall/wordclass/internal/service/catalog"
)

type wordRequest struct {
	Word          string   `json:"word"`
	Definition    string   `json:"definition"`
	ImageURL      string   `json:"imageUrl"`
	Distractors   []string `json:"distractors"`
	CorrectOption string   `json:"correctOption"`
	Unit          string   `json:"unit"`
	Lesson        string   `json:"lesson"`
}

// POST /words
func (a *API) handleCreateWord(w http.ResponseWriter, r *http.Request) {
	c, err := requireSupervisor(r.Context())
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	var req wordRequest
	if err := readJSON(r, &req); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	word, err := a.catalog.Create(r.Context(), catalog.CreateWordInput{
		SupervisorID:  c.ID,
		Word:          req.Word,
		Definition:    req.Definition,
		ImageURL:      req.ImageURL,
		Distractors:   req.Distractors,
		CorrectOption: req.CorrectOption,
		Unit:          req.Unit,
		Lesson:        req.Lesson,
	})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWordResponse(*word))
}

// PUT /words/{wordID}
func (a *API) handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	c, err := requireSupervisor(r.Context())
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}
	wordID, err := pathID(r, "wordID")
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	var req wordRequest
	if err := readJSON(r, &req); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	word, err := a.catalog.Update(r.Context(), catalog.UpdateWordInput{
		ID:            wordID,
		SupervisorID:  c.ID,
		Word:          req.Word,
		Definition:    req.Definition,
		ImageURL:      req.ImageURL,
		Distractors:   req.Distractors,
		CorrectOption: req.CorrectOption,
		Unit:          req.Unit,
		Lesson:        req.Lesson,
	})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toWordResponse(*word))
}

// DELETE /words/{wordID}
func (a *API) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	c, err := requireSupervisor(r.Context())
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}
	wordID, err := pathID(r, "wordID")
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	if err := a.catalog.Delete(r.Context(), c.ID, wordID); err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /words/{wordID}
func (a *API) handleGetWord(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r.Context())
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}
	wordID, err := pathID(r, "wordID")
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	owner, err := a.catalogOwner(r.Context(), c)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	word, err := a.catalog.Get(r.Context(), wordID)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}
	// Words of other catalogs are reported as absent.
	if word.SupervisorID != owner {
		handleErr(w, r, a.log, fmt.Errorf("word %s: %w", wordID, domain.ErrNotFound))
		return
	}

	writeJSON(w, http.StatusOK, toWordResponse(*word))
}

// GET /words?supervisorId=&unit=&lesson=
func (a *API) handleListWords(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r.Context())
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	owner, err := a.catalogOwner(r.Context(), c)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}
	if raw := r.URL.Query().Get("supervisorId"); raw != "" {
		requested, err := uuid.Parse(raw)
		if err != nil {
			handleErr(w, r, a.log, domain.NewValidationError("supervisorId", "must be a UUID"))
			return
		}
		if requested != owner {
			handleErr(w, r, a.log, fmt.Errorf("catalog of %s: %w", requested, domain.ErrForbidden))
			return
		}
	}

	words, err := a.catalog.List(r.Context(), domain.WordFilter{
		SupervisorID: &owner,
		Unit:         optionalQuery(r, "unit"),
		Lesson:       optionalQuery(r, "lesson"),
	})
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"words": toWordResponses(words)})
}
