// Package progress implements the word progress store on PostgreSQL.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	postgres "github.com/heartmarshall/wordclass/internal/adapter/postgres"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// Repo stores one word_progress row per (student, word).
type Repo struct {
	db   postgres.DB
	tx   *postgres.TxManager
	feed *postgres.Feed
	now  func() time.Time
}

// New creates a progress repository.
func New(db postgres.DB, feed *postgres.Feed) *Repo {
	return &Repo{
		db:   db,
		tx:   postgres.NewTxManager(db),
		feed: feed,
		now:  time.Now,
	}
}

var _ domain.ProgressStore = (*Repo)(nil)

// ---------------------------------------------------------------------------
// SQL
// ---------------------------------------------------------------------------

const getSQL = `
SELECT word_id, state, strength, next_review, updated_at
FROM word_progress
WHERE student_id = $1
ORDER BY word_id`

const upsertSQL = `
INSERT INTO word_progress (student_id, word_id, state, strength, next_review, updated_at)
SELECT $1, u.word_id, u.state, u.strength, u.next_review, u.updated_at
FROM unnest($2::uuid[], $3::text[], $4::int[], $5::timestamptz[], $6::timestamptz[])
     AS u(word_id, state, strength, next_review, updated_at)
ON CONFLICT (student_id, word_id) DO UPDATE SET
    state       = EXCLUDED.state,
    strength    = EXCLUDED.strength,
    next_review = EXCLUDED.next_review,
    updated_at  = EXCLUDED.updated_at`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns every progress record of the student; empty for unknown
// students.
func (r *Repo) Get(ctx context.Context, studentID uuid.UUID) ([]domain.WordProgress, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, getSQL, studentID)
	if err != nil {
		return nil, postgres.MapError(err, "get progress")
	}
	defer rows.Close()

	out := make([]domain.WordProgress, 0)
	for rows.Next() {
		var (
			p     domain.WordProgress
			state string
			next  *time.Time
		)
		if err := rows.Scan(&p.WordID, &state, &p.Strength, &next, &p.UpdatedAt); err != nil {
			return nil, postgres.MapError(fmt.Errorf("scan progress: %w", err), "get progress")
		}
		p.State = domain.ProgressState(state)
		if next != nil {
			t := next.UTC()
			p.NextReview = &t
		}
		p.UpdatedAt = p.UpdatedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "get progress")
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Put upserts one record.
func (r *Repo) Put(ctx context.Context, studentID uuid.UUID, p domain.WordProgress) error {
	return r.write(ctx, "put progress", studentID, []domain.WordProgress{p})
}

// PutAll upserts every record in one statement inside one transaction.
// When a word appears more than once the last record wins.
func (r *Repo) PutAll(ctx context.Context, studentID uuid.UUID, ps []domain.WordProgress) error {
	if len(ps) == 0 {
		return nil
	}
	return r.write(ctx, "put all progress", studentID, ps)
}

// OnChange subscribes fn to writes of the student's progress, local or
// from other processes sharing the database.
func (r *Repo) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return r.feed.Subscribe(studentID, fn)
}

func (r *Repo) write(ctx context.Context, op string, studentID uuid.UUID, ps []domain.WordProgress) error {
	ps = lastWins(ps)
	now := r.now().UTC().Truncate(time.Microsecond)

	var (
		ids       = make([]uuid.UUID, len(ps))
		states    = make([]string, len(ps))
		strengths = make([]int32, len(ps))
		nexts     = make([]pgtype.Timestamptz, len(ps))
		updated   = make([]pgtype.Timestamptz, len(ps))
	)
	for i, p := range ps {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		ids[i] = p.WordID
		states[i] = string(p.State)
		strengths[i] = int32(p.Strength)
		if p.NextReview != nil {
			nexts[i] = pgtype.Timestamptz{Time: p.NextReview.UTC().Truncate(time.Microsecond), Valid: true}
		}
		at := p.UpdatedAt
		if at.IsZero() {
			at = now
		}
		updated[i] = pgtype.Timestamptz{Time: at.UTC().Truncate(time.Microsecond), Valid: true}
	}

	ev := domain.ChangeEvent{StudentID: studentID, Kind: domain.ChangeKindProgress, WordIDs: ids, At: now}

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)
		if _, err := q.Exec(ctx, upsertSQL, studentID, ids, states, strengths, nexts, updated); err != nil {
			return err
		}
		return r.feed.Notify(ctx, q, ev)
	})
	if err != nil {
		return postgres.MapError(err, op)
	}

	r.feed.Publish(ev)
	return nil
}

// lastWins drops earlier records for a word that appears again later.
func lastWins(ps []domain.WordProgress) []domain.WordProgress {
	last := make(map[uuid.UUID]int, len(ps))
	for i, p := range ps {
		last[p.WordID] = i
	}
	if len(last) == len(ps) {
		return ps
	}
	out := make([]domain.WordProgress, 0, len(last))
	for i, p := range ps {
		if last[p.WordID] == i {
			out = append(out, p)
		}
	}
	return out
}
