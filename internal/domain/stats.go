package domain

import (
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used by stats records.
const DateLayout = "2006-01-02"

// DailyRecord is the calendar-day scoped part of LearningStats.
type DailyRecord struct {
	Date             string
	Count            int
	TimeSpentSeconds int
	CompletedTests   []string
}

// LearningStats aggregates a student's review activity.
type LearningStats struct {
	StudentID          uuid.UUID
	TimeSpentSeconds   int
	TotalWordsReviewed int
	ReviewedToday      DailyRecord
	ActivityLog        []string
	UpdatedAt          time.Time
}

// StatsEvent is one review event fed to the aggregator.
type StatsEvent struct {
	StudentID       uuid.UUID
	ReviewedCount   int
	DurationSeconds int
	TestName        string
}

// NewLearningStats returns zeroed stats whose daily record is dated today.
func NewLearningStats(studentID uuid.UUID, today string) LearningStats {
	return LearningStats{
		StudentID:     studentID,
		ReviewedToday: DailyRecord{Date: today},
	}
}

// RolledOver returns s with the daily record reset when it is not dated today.
// The receiver is not modified.
func (s LearningStats) RolledOver(today string) LearningStats {
	if s.ReviewedToday.Date == today {
		return s
	}
	s.ReviewedToday = DailyRecord{Date: today}
	return s
}

// Apply returns s after recording e on the calendar day today.
func (s LearningStats) Apply(e StatsEvent, today string) LearningStats {
	s = s.clone().RolledOver(today)

	s.TotalWordsReviewed += e.ReviewedCount
	s.TimeSpentSeconds += e.DurationSeconds
	s.ReviewedToday.Count += e.ReviewedCount
	s.ReviewedToday.TimeSpentSeconds += e.DurationSeconds

	if !slices.Contains(s.ActivityLog, today) {
		s.ActivityLog = append(s.ActivityLog, today)
		sort.Strings(s.ActivityLog)
	}
	if e.TestName != "" && !slices.Contains(s.ReviewedToday.CompletedTests, e.TestName) {
		s.ReviewedToday.CompletedTests = append(s.ReviewedToday.CompletedTests, e.TestName)
	}
	return s
}

// Streak counts consecutive active days ending today, or ending yesterday
// when there has been no activity yet today.
func (s LearningStats) Streak(today string) int {
	day, err := time.Parse(DateLayout, today)
	if err != nil {
		return 0
	}
	active := make(map[string]struct{}, len(s.ActivityLog))
	for _, d := range s.ActivityLog {
		active[d] = struct{}{}
	}

	if _, ok := active[today]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := active[day.Format(DateLayout)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

func (s LearningStats) clone() LearningStats {
	s.ActivityLog = slices.Clone(s.ActivityLog)
	s.ReviewedToday.CompletedTests = slices.Clone(s.ReviewedToday.CompletedTests)
	return s
}

// StatsDocument is the JSON shape of LearningStats in document stores.
type StatsDocument struct {
	TimeSpent          int           `json:"timeSpent"`
	TotalWordsReviewed int           `json:"totalWordsReviewed"`
	ReviewedToday      DailyDocument `json:"reviewedToday"`
	ActivityLog        []string      `json:"activityLog"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// DailyDocument is the JSON shape of DailyRecord.
type DailyDocument struct {
	Count          int      `json:"count"`
	Date           string   `json:"date"`
	TimeSpent      int      `json:"timeSpent"`
	CompletedTests []string `json:"completedTests"`
}

// ToDocument renders s for a document store.
func (s LearningStats) ToDocument() StatsDocument {
	s = s.clone()
	if s.ActivityLog == nil {
		s.ActivityLog = []string{}
	}
	if s.ReviewedToday.CompletedTests == nil {
		s.ReviewedToday.CompletedTests = []string{}
	}
	return StatsDocument{
		TimeSpent:          s.TimeSpentSeconds,
		TotalWordsReviewed: s.TotalWordsReviewed,
		ReviewedToday: DailyDocument{
			Count:          s.ReviewedToday.Count,
			Date:           s.ReviewedToday.Date,
			TimeSpent:      s.ReviewedToday.TimeSpentSeconds,
			CompletedTests: s.ReviewedToday.CompletedTests,
		},
		ActivityLog: s.ActivityLog,
		UpdatedAt:   s.UpdatedAt,
	}
}

// LearningStats converts a stored document back, rejecting negative counters.
func (d StatsDocument) LearningStats(studentID uuid.UUID) (LearningStats, error) {
	var errs []FieldError
	if d.TimeSpent < 0 {
		errs = append(errs, FieldError{Field: "timeSpent", Message: "must be >= 0"})
	}
	if d.TotalWordsReviewed < 0 {
		errs = append(errs, FieldError{Field: "totalWordsReviewed", Message: "must be >= 0"})
	}
	if d.ReviewedToday.Count < 0 || d.ReviewedToday.TimeSpent < 0 {
		errs = append(errs, FieldError{Field: "reviewedToday", Message: "counters must be >= 0"})
	}
	if len(errs) > 0 {
		return LearningStats{}, NewValidationErrors(errs)
	}
	return LearningStats{
		StudentID:          studentID,
		TimeSpentSeconds:   d.TimeSpent,
		TotalWordsReviewed: d.TotalWordsReviewed,
		ReviewedToday: DailyRecord{
			Date:             d.ReviewedToday.Date,
			Count:            d.ReviewedToday.Count,
			TimeSpentSeconds: d.ReviewedToday.TimeSpent,
			CompletedTests:   slices.Clone(d.ReviewedToday.CompletedTests),
		},
		ActivityLog: slices.Clone(d.ActivityLog),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}
