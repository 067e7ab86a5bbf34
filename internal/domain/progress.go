package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProgressState distinguishes words in the review rotation from words the
// student has marked as permanently known.
type ProgressState string

const (
	ProgressStateActive   ProgressState = "ACTIVE"
	ProgressStateMastered ProgressState = "MASTERED"
)

func (s ProgressState) String() string { return string(s) }

func (s ProgressState) IsValid() bool {
	switch s {
	case ProgressStateActive, ProgressStateMastered:
		return true
	}
	return false
}

// Outcome is the result of a single answer, consumed once by the scheduler.
type Outcome string

const (
	OutcomeCorrect   Outcome = "CORRECT"
	OutcomeIncorrect Outcome = "INCORRECT"
)

func (o Outcome) String() string { return string(o) }

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeCorrect, OutcomeIncorrect:
		return true
	}
	return false
}

// MasteredLegacyStrength is the strength value that encodes mastery in
// legacy progress documents.
const MasteredLegacyStrength = -1

// WordProgress is the per-student review state of one word.
// An ACTIVE progress always carries NextReview; a MASTERED one carries
// neither strength nor NextReview.
type WordProgress struct {
	WordID     uuid.UUID
	State      ProgressState
	Strength   int
	NextReview *time.Time
	UpdatedAt  time.Time
}

// NewWordProgress returns the state of a word on first encounter.
func NewWordProgress(wordID uuid.UUID, now time.Time) WordProgress {
	next := now
	return WordProgress{
		WordID:     wordID,
		State:      ProgressStateActive,
		Strength:   0,
		NextReview: &next,
		UpdatedAt:  now,
	}
}

// MasteredProgress returns a MASTERED progress for wordID.
func MasteredProgress(wordID uuid.UUID, now time.Time) WordProgress {
	return WordProgress{
		WordID:    wordID,
		State:     ProgressStateMastered,
		UpdatedAt: now,
	}
}

func (p WordProgress) IsMastered() bool { return p.State == ProgressStateMastered }

// IsDue reports whether an ACTIVE word's next review is at or before now.
func (p WordProgress) IsDue(now time.Time) bool {
	if p.State != ProgressStateActive || p.NextReview == nil {
		return false
	}
	return !now.Before(*p.NextReview)
}

// IsLearned reports whether an ACTIVE word reached the learned threshold.
func (p WordProgress) IsLearned(threshold int) bool {
	return p.State == ProgressStateActive && p.Strength >= threshold
}

// LegacyStrength renders the progress in the legacy integer encoding.
func (p WordProgress) LegacyStrength() int {
	if p.IsMastered() {
		return MasteredLegacyStrength
	}
	return p.Strength
}

// Validate checks the variant invariants.
func (p WordProgress) Validate() error {
	var errs []FieldError
	if p.WordID == uuid.Nil {
		errs = append(errs, FieldError{Field: "word_id", Message: "required"})
	}
	switch p.State {
	case ProgressStateActive:
		if p.Strength < 0 {
			errs = append(errs, FieldError{Field: "strength", Message: "must be >= 0"})
		}
		if p.NextReview == nil {
			errs = append(errs, FieldError{Field: "next_review", Message: "required for active words"})
		}
	case ProgressStateMastered:
		if p.Strength != 0 || p.NextReview != nil {
			errs = append(errs, FieldError{Field: "state", Message: "mastered words carry no schedule"})
		}
	default:
		errs = append(errs, FieldError{Field: "state", Message: "invalid value"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// ChangeKind tells subscribers which store emitted a ChangeEvent.
type ChangeKind string

const (
	ChangeKindProgress ChangeKind = "PROGRESS"
	ChangeKindStats    ChangeKind = "STATS"
)

// ChangeEvent notifies subscribers that a student's stored state was
// written and should be re-read.
type ChangeEvent struct {
	StudentID uuid.UUID   `json:"studentId"`
	Kind      ChangeKind  `json:"kind"`
	WordIDs   []uuid.UUID `json:"wordIds,omitempty"`
	At        time.Time   `json:"at"`
}

// ---------------------------------------------------------------------------
// Legacy boundary
// ---------------------------------------------------------------------------

// LegacyProgress is the untrusted wire shape of a progress record:
// strength as a number, nextReview as an RFC 3339 string, Unix
// milliseconds or absent.
type LegacyProgress struct {
	ID         string          `json:"id"`
	Strength   json.Number     `json:"strength"`
	NextReview json.RawMessage `json:"nextReview,omitempty"`
}

// ToLegacy renders p in the legacy wire shape.
func (p WordProgress) ToLegacy() LegacyProgress {
	out := LegacyProgress{
		ID:       p.WordID.String(),
		Strength: json.Number(strconv.Itoa(p.LegacyStrength())),
	}
	if p.NextReview != nil {
		raw, _ := json.Marshal(p.NextReview.UTC().Format(time.RFC3339Nano))
		out.NextReview = raw
	}
	return out
}

// ParseLegacyProgress converts an untrusted legacy record into the typed
// variant. A record with strength -1 becomes MASTERED regardless of its
// nextReview; an active record without a usable nextReview is rejected.
func ParseLegacyProgress(rec LegacyProgress, updatedAt time.Time) (WordProgress, error) {
	id, err := uuid.Parse(strings.TrimSpace(rec.ID))
	if err != nil {
		return WordProgress{}, NewValidationError("id", "must be a valid UUID")
	}

	strength, err := strconv.Atoi(rec.Strength.String())
	if err != nil {
		return WordProgress{}, NewValidationError("strength", "must be an integer")
	}
	if strength == MasteredLegacyStrength {
		return MasteredProgress(id, updatedAt), nil
	}
	if strength < 0 {
		return WordProgress{}, NewValidationError("strength", "must be >= -1")
	}

	next, ok, err := parseLegacyTime(rec.NextReview)
	if err != nil {
		return WordProgress{}, NewValidationError("next_review", err.Error())
	}
	if !ok {
		return WordProgress{}, NewValidationError("next_review", "required for active words")
	}

	return WordProgress{
		WordID:     id,
		State:      ProgressStateActive,
		Strength:   strength,
		NextReview: &next,
		UpdatedAt:  updatedAt,
	}, nil
}

var errLegacyTime = errors.New("must be an RFC 3339 timestamp or Unix milliseconds")

func parseLegacyTime(raw json.RawMessage) (time.Time, bool, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return time.Time{}, false, nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return time.Time{}, false, errors.New("malformed string")
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return time.Time{}, false, nil
		}
		if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
			return t.UTC(), true, nil
		}
		if ms, err := strconv.ParseInt(str, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true, nil
		}
		return time.Time{}, false, errLegacyTime
	}

	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return time.Time{}, false, errLegacyTime
		}
		ms = int64(f)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}
