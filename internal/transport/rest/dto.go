package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
	"github.com/heartmarshall/wordclass/internal/service/stats"
	"github.com/heartmarshall/wordclass/internal/service/study"
)

type wordResponse struct {
	ID            uuid.UUID `json:"id"`
	SupervisorID  uuid.UUID `json:"supervisorId"`
	Word          string    `json:"word"`
	Definition    string    `json:"definition"`
	ImageURL      string    `json:"imageUrl"`
	Options       []string  `json:"options"`
	CorrectOption string    `json:"correctOption"`
	Unit          string    `json:"unit"`
	Lesson        string    `json:"lesson"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toWordResponse(w domain.Word) wordResponse {
	options := w.Options
	if options == nil {
		options = []string{}
	}
	return wordResponse{
		ID:            w.ID,
		SupervisorID:  w.SupervisorID,
		Word:          w.Word,
		Definition:    w.Definition,
		ImageURL:      w.ImageURL,
		Options:       options,
		CorrectOption: w.CorrectOption,
		Unit:          w.Unit,
		Lesson:        w.Lesson,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func toWordResponses(words []domain.Word) []wordResponse {
	out := make([]wordResponse, 0, len(words))
	for _, w := range words {
		out = append(out, toWordResponse(w))
	}
	return out
}

// progressResponse keeps the legacy strength encoding next to the explicit
// state: strength is -1 for mastered words.
type progressResponse struct {
	WordID     uuid.UUID  `json:"wordId"`
	State      string     `json:"state"`
	Strength   int        `json:"strength"`
	NextReview *time.Time `json:"nextReview,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func toProgressResponse(p domain.WordProgress) progressResponse {
	return progressResponse{
		WordID:     p.WordID,
		State:      p.State.String(),
		Strength:   p.LegacyStrength(),
		NextReview: p.NextReview,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toProgressResponses(ps []domain.WordProgress) []progressResponse {
	out := make([]progressResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProgressResponse(p))
	}
	return out
}

type nextDueResponse struct {
	Due      bool              `json:"due"`
	Word     *wordResponse     `json:"word,omitempty"`
	Progress *progressResponse `json:"progress,omitempty"`
	IsNew    bool              `json:"isNew,omitempty"`
}

func toNextDueResponse(d study.DueWord, ok bool) nextDueResponse {
	if !ok {
		return nextDueResponse{}
	}
	w := toWordResponse(d.Word)
	p := toProgressResponse(d.Progress)
	return nextDueResponse{Due: true, Word: &w, Progress: &p, IsNew: d.IsNew}
}

type progressEntryResponse struct {
	Word     wordResponse     `json:"word"`
	Progress progressResponse `json:"progress"`
}

type overviewResponse struct {
	Entries  []progressEntryResponse `json:"entries"`
	Total    int                     `json:"total"`
	Unseen   int                     `json:"unseen"`
	Due      int                     `json:"due"`
	Learned  int                     `json:"learned"`
	Mastered int                     `json:"mastered"`
}

func toOverviewResponse(o study.ProgressOverview) overviewResponse {
	entries := make([]progressEntryResponse, 0, len(o.Entries))
	for _, e := range o.Entries {
		entries = append(entries, progressEntryResponse{
			Word:     toWordResponse(e.Word),
			Progress: toProgressResponse(e.Progress),
		})
	}
	return overviewResponse{
		Entries:  entries,
		Total:    o.Total,
		Unseen:   o.Unseen,
		Due:      o.Due,
		Learned:  o.Learned,
		Mastered: o.Mastered,
	}
}

type statsResponse struct {
	domain.StatsDocument
	StudentID uuid.UUID `json:"studentId"`
	Streak    int       `json:"streak"`
	ResetsAt  time.Time `json:"resetsAt"`
}

func toStatsResponse(s stats.Summary) statsResponse {
	return statsResponse{
		StatsDocument: s.Stats.ToDocument(),
		StudentID:     s.Stats.StudentID,
		Streak:        s.Streak,
		ResetsAt:      s.ResetsAt,
	}
}

type studentResponse struct {
	ID           uuid.UUID `json:"id"`
	SupervisorID uuid.UUID `json:"supervisorId"`
	DisplayName  string    `json:"displayName"`
}

func toStudentResponse(s domain.Student) studentResponse {
	return studentResponse{ID: s.ID, SupervisorID: s.SupervisorID, DisplayName: s.DisplayName}
}

func toStudentResponses(students []domain.Student) []studentResponse {
	out := make([]studentResponse, len(students))
	for i, s := range students {
		out[i] = toStudentResponse(s)
	}
	return out
}
