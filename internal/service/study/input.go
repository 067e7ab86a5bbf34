package study

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// maxSessionAnswers bounds a single RecordSession call.
const maxSessionAnswers = 500

// NextDueInput holds the parameters for picking the next due word.
type NextDueInput struct {
	StudentID uuid.UUID
	Unit      *string
	Lesson    *string
}

// Validate checks all fields and collects all errors.
func (i *NextDueInput) Validate() error {
	var errs []domain.FieldError

	if i.StudentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "student_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordOutcomeInput holds one answer of a student.
type RecordOutcomeInput struct {
	StudentID       uuid.UUID
	WordID          uuid.UUID
	Outcome         domain.Outcome
	DurationSeconds int
}

// Validate checks all fields and collects all errors.
func (i *RecordOutcomeInput) Validate() error {
	var errs []domain.FieldError

	if i.StudentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "student_id", Message: "required"})
	}
	if i.WordID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "word_id", Message: "required"})
	}
	if !i.Outcome.IsValid() {
		errs = append(errs, domain.FieldError{Field: "outcome", Message: "must be CORRECT or INCORRECT"})
	}
	if i.DurationSeconds < 0 {
		errs = append(errs, domain.FieldError{Field: "duration_seconds", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Answer is one entry of a completed quiz.
type Answer struct {
	WordID  uuid.UUID
	Outcome domain.Outcome
}

// RecordSessionInput holds the answers of a completed quiz, in the order
// they were given.
type RecordSessionInput struct {
	StudentID       uuid.UUID
	Answers         []Answer
	DurationSeconds int
	TestName        string
}

// Validate checks all fields and collects all errors.
func (i *RecordSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.StudentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "student_id", Message: "required"})
	}
	if len(i.Answers) == 0 {
		errs = append(errs, domain.FieldError{Field: "answers", Message: "at least one answer required"})
	}
	if len(i.Answers) > maxSessionAnswers {
		errs = append(errs, domain.FieldError{Field: "answers", Message: fmt.Sprintf("max %d answers", maxSessionAnswers)})
	}
	for idx, a := range i.Answers {
		if a.WordID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("answers[%d].word_id", idx), Message: "required"})
		}
		if !a.Outcome.IsValid() {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("answers[%d].outcome", idx), Message: "must be CORRECT or INCORRECT"})
		}
	}
	if i.DurationSeconds < 0 {
		errs = append(errs, domain.FieldError{Field: "duration_seconds", Message: "must be non-negative"})
	}
	if len(i.TestName) > 200 {
		errs = append(errs, domain.FieldError{Field: "test_name", Message: "max 200 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// WordActionInput identifies one word of one student.
type WordActionInput struct {
	StudentID uuid.UUID
	WordID    uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *WordActionInput) Validate() error {
	var errs []domain.FieldError

	if i.StudentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "student_id", Message: "required"})
	}
	if i.WordID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "word_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Upper bounds for a manual reschedule.
const (
	maxRescheduleMinutes = 525600
	maxRescheduleDays    = 3650
)

// RescheduleInput moves a word's next review. Exactly one of Tier, Minutes
// or Days must be set.
type RescheduleInput struct {
	StudentID uuid.UUID
	WordID    uuid.UUID
	Tier      string
	Minutes   int
	Days      int
}

// Validate checks all fields and collects all errors.
func (i *RescheduleInput) Validate() error {
	var errs []domain.FieldError

	if i.StudentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "student_id", Message: "required"})
	}
	if i.WordID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "word_id", Message: "required"})
	}

	set := 0
	if i.Tier != "" {
		set++
		if !Tier(i.Tier).IsValid() {
			errs = append(errs, domain.FieldError{Field: "tier", Message: "must be one of 5m, 1d, 2d, 3d, 1w, 2w, 1mo"})
		}
	}
	if i.Minutes != 0 {
		set++
		if i.Minutes < 0 {
			errs = append(errs, domain.FieldError{Field: "minutes", Message: "must be positive"})
		} else if i.Minutes > maxRescheduleMinutes {
			errs = append(errs, domain.FieldError{Field: "minutes", Message: fmt.Sprintf("max %d", maxRescheduleMinutes)})
		}
	}
	if i.Days != 0 {
		set++
		if i.Days < 0 {
			errs = append(errs, domain.FieldError{Field: "days", Message: "must be positive"})
		} else if i.Days > maxRescheduleDays {
			errs = append(errs, domain.FieldError{Field: "days", Message: fmt.Sprintf("max %d", maxRescheduleDays)})
		}
	}
	if set != 1 {
		errs = append(errs, domain.FieldError{Field: "delay", Message: "exactly one of tier, minutes or days is required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// delay converts a validated input into a scheduler Delay.
func (i *RescheduleInput) delay() Delay {
	switch {
	case i.Tier != "":
		return Delay{Tier: Tier(i.Tier)}
	case i.Minutes > 0:
		return Delay{Duration: time.Duration(i.Minutes) * time.Minute}
	default:
		return Delay{Duration: time.Duration(i.Days) * 24 * time.Hour}
	}
}
