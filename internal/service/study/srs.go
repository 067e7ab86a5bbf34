package study

import (
	"fmt"
	"time"

	"github.com/heartmarshall/wordclass/internal/domain"
)

// Tier is a named review interval.
type Tier string

const (
	Tier5Minutes Tier = "5m"
	Tier1Day     Tier = "1d"
	Tier2Days    Tier = "2d"
	Tier3Days    Tier = "3d"
	Tier1Week    Tier = "1w"
	Tier2Weeks   Tier = "2w"
	Tier1Month   Tier = "1mo"
)

// Tiers lists the named intervals in increasing order.
var Tiers = []Tier{Tier5Minutes, Tier1Day, Tier2Days, Tier3Days, Tier1Week, Tier2Weeks, Tier1Month}

func (t Tier) String() string { return string(t) }

func (t Tier) IsValid() bool {
	switch t {
	case Tier5Minutes, Tier1Day, Tier2Days, Tier3Days, Tier1Week, Tier2Weeks, Tier1Month:
		return true
	}
	return false
}

// Add returns from advanced by the tier. Day-based tiers use calendar days
// so that DST shifts do not move the time of day; the month tier uses
// calendar months.
func (t Tier) Add(from time.Time) time.Time {
	switch t {
	case Tier5Minutes:
		return from.Add(5 * time.Minute)
	case Tier1Day:
		return from.AddDate(0, 0, 1)
	case Tier2Days:
		return from.AddDate(0, 0, 2)
	case Tier3Days:
		return from.AddDate(0, 0, 3)
	case Tier1Week:
		return from.AddDate(0, 0, 7)
	case Tier2Weeks:
		return from.AddDate(0, 0, 14)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// ParseTier parses a tier name such as "2d" or "1mo".
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

// TierForStrength maps a strength to its review interval:
// 1→5m, 2→1d, 3→2d, 4→3d, 5→1w, 6→2w, 7 and above→1mo.
func TierForStrength(strength int) Tier {
	switch {
	case strength <= 1:
		return Tier5Minutes
	case strength >= len(Tiers):
		return Tier1Month
	default:
		return Tiers[strength-1]
	}
}

// DefaultIncorrectDelay is the wait before a failed word comes back.
const DefaultIncorrectDelay = 24 * time.Hour

// Scheduler computes progress transitions. It performs no I/O.
type Scheduler struct {
	IncorrectDelay time.Duration
}

// NewScheduler returns a Scheduler, falling back to DefaultIncorrectDelay
// when incorrectDelay is not positive.
func NewScheduler(incorrectDelay time.Duration) Scheduler {
	if incorrectDelay <= 0 {
		incorrectDelay = DefaultIncorrectDelay
	}
	return Scheduler{IncorrectDelay: incorrectDelay}
}

// ApplyOutcome returns the progress after one answer. Intervals always start
// from now, never from the previous next review. Mastered words are
// returned unchanged.
func (s Scheduler) ApplyOutcome(p domain.WordProgress, outcome domain.Outcome, now time.Time) domain.WordProgress {
	if p.IsMastered() {
		return p
	}

	strength := max(p.Strength, 0)
	var next time.Time
	switch outcome {
	case domain.OutcomeCorrect:
		strength++
		next = TierForStrength(strength).Add(now)
	default:
		strength = max(0, strength-1)
		delay := s.IncorrectDelay
		if delay <= 0 {
			delay = DefaultIncorrectDelay
		}
		next = now.Add(delay)
	}

	return domain.WordProgress{
		WordID:     p.WordID,
		State:      domain.ProgressStateActive,
		Strength:   strength,
		NextReview: &next,
		UpdatedAt:  now,
	}
}

// MarkKnown moves a word to MASTERED from any state.
func MarkKnown(p domain.WordProgress, now time.Time) domain.WordProgress {
	return domain.MasteredProgress(p.WordID, now)
}

// ResetProgress puts a word back at strength 0, due immediately.
func ResetProgress(p domain.WordProgress, now time.Time) domain.WordProgress {
	return domain.NewWordProgress(p.WordID, now)
}

// Delay is a manual schedule adjustment: a named tier or a fixed duration.
type Delay struct {
	Tier     Tier
	Duration time.Duration
}

// After returns the moment the delay ends when started at now.
func (d Delay) After(now time.Time) (time.Time, error) {
	if d.Tier != "" {
		if !d.Tier.IsValid() {
			return time.Time{}, domain.NewValidationError("tier", "unknown tier")
		}
		return d.Tier.Add(now), nil
	}
	if d.Duration <= 0 {
		return time.Time{}, domain.NewValidationError("delay", "must be positive")
	}
	return now.Add(d.Duration), nil
}

// Reschedule moves the next review of an ACTIVE word to now plus the delay
// without touching its strength. Mastered words must be reset first.
func Reschedule(p domain.WordProgress, d Delay, now time.Time) (domain.WordProgress, error) {
	if p.IsMastered() {
		return domain.WordProgress{}, domain.NewValidationError("state", "mastered words must be reset before rescheduling")
	}
	next, err := d.After(now)
	if err != nil {
		return domain.WordProgress{}, err
	}
	return domain.WordProgress{
		WordID:     p.WordID,
		State:      domain.ProgressStateActive,
		Strength:   max(p.Strength, 0),
		NextReview: &next,
		UpdatedAt:  now,
	}, nil
}
