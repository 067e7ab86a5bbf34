package catalog

import (
	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// CreateWordInput holds the parameters for creating a catalog word.
// When Distractors is empty they are generated, if a generator is configured.
type CreateWordInput struct {
	SupervisorID  uuid.UUID `field:"supervisor_id" validate:"required"`
	Word          string    `field:"word" validate:"notblank,max=200"`
	Definition    string    `field:"definition" validate:"notblank,max=2000"`
	ImageURL      string    `field:"image_url" validate:"notblank,url,max=2048"`
	Distractors   []string  `field:"distractors" validate:"max=10,dive,notblank,max=200"`
	CorrectOption string    `field:"correct_option" validate:"max=200"`
	Unit          string    `field:"unit" validate:"max=100"`
	Lesson        string    `field:"lesson" validate:"max=100"`
}

// Validate checks the tagged constraints and collects all errors.
func (i *CreateWordInput) Validate() error {
	if errs := validateStruct(i); len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateWordInput replaces the editable fields of a word. Empty Distractors
// keeps the current ones.
type UpdateWordInput struct {
	ID            uuid.UUID `field:"id" validate:"required"`
	SupervisorID  uuid.UUID `field:"supervisor_id" validate:"required"`
	Word          string    `field:"word" validate:"notblank,max=200"`
	Definition    string    `field:"definition" validate:"notblank,max=2000"`
	ImageURL      string    `field:"image_url" validate:"notblank,url,max=2048"`
	Distractors   []string  `field:"distractors" validate:"max=10,dive,notblank,max=200"`
	CorrectOption string    `field:"correct_option" validate:"max=200"`
	Unit          string    `field:"unit" validate:"max=100"`
	Lesson        string    `field:"lesson" validate:"max=100"`
}

// Validate checks the tagged constraints and collects all errors.
func (i *UpdateWordInput) Validate() error {
	if errs := validateStruct(i); len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ImportRow is one spreadsheet row to be created as a word.
type ImportRow struct {
	Line          int
	Word          string
	Definition    string
	ImageURL      string
	Distractors   []string
	CorrectOption string
	Unit          string
	Lesson        string
}

// ImportError reports why one row was not imported.
type ImportError struct {
	Line   int
	Reason string
	Fields map[string]string
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Created int
	Errors  []ImportError
}
