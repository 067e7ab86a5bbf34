package domain

import (
	"time"

	"github.com/google/uuid"
)

// MinDistractors is the minimum number of incorrect options a word carries.
const MinDistractors = 3

// Word is a supervisor-owned catalog entry.
// Options holds the correct option together with the distractors.
type Word struct {
	ID            uuid.UUID
	SupervisorID  uuid.UUID
	Word          string
	Definition    string
	ImageURL      string
	Options       []string
	CorrectOption string
	Unit          string
	Lesson        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Distractors returns the options other than the correct one.
func (w Word) Distractors() []string {
	out := make([]string, 0, len(w.Options))
	for _, o := range w.Options {
		if o != w.CorrectOption {
			out = append(out, o)
		}
	}
	return out
}

// WordFilter narrows catalog reads. Nil fields are not constrained; set
// fields are intersected as equality predicates.
type WordFilter struct {
	SupervisorID *uuid.UUID
	Unit         *string
	Lesson       *string
}

// Matches reports whether w satisfies every set predicate of f.
func (f WordFilter) Matches(w Word) bool {
	if f.SupervisorID != nil && w.SupervisorID != *f.SupervisorID {
		return false
	}
	if f.Unit != nil && w.Unit != *f.Unit {
		return false
	}
	if f.Lesson != nil && w.Lesson != *f.Lesson {
		return false
	}
	return true
}

// Student links a learner to the supervisor whose catalog they study.
type Student struct {
	ID           uuid.UUID
	SupervisorID uuid.UUID
	DisplayName  string
}

// TenseQuestion is one generated multiple-choice grammar question.
type TenseQuestion struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctOption"`
}
