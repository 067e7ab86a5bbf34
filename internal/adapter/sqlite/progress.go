package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"
	"github.com/heartmarshall/wordclass/internal/domain"
)

var nowFunc = time.Now

// ProgressRepo stores one word_progress row per (student, word). Times are
// stored as Unix microseconds.
type ProgressRepo struct {
	db  *sql.DB
	hub *changefeed.Hub
	now func() time.Time
}

var _ domain.ProgressStore = (*ProgressRepo)(nil)

const upsertProgressSQL = `
INSERT INTO word_progress (student_id, word_id, state, strength, next_review, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (student_id, word_id) DO UPDATE SET
    state       = excluded.state,
    strength    = excluded.strength,
    next_review = excluded.next_review,
    updated_at  = excluded.updated_at`

// Get returns every progress record of the student.
func (r *ProgressRepo) Get(ctx context.Context, studentID uuid.UUID) ([]domain.WordProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT word_id, state, strength, next_review, updated_at
		 FROM word_progress WHERE student_id = ? ORDER BY word_id`,
		studentID.String(),
	)
	if err != nil {
		return nil, mapError(err, "get progress")
	}
	defer rows.Close()

	out := make([]domain.WordProgress, 0)
	for rows.Next() {
		var (
			wordID, state string
			strength      int
			next          sql.NullInt64
			updated       int64
		)
		if err := rows.Scan(&wordID, &state, &strength, &next, &updated); err != nil {
			return nil, mapError(err, "get progress")
		}
		id, err := uuid.Parse(wordID)
		if err != nil {
			return nil, mapError(fmt.Errorf("word id %q: %w", wordID, err), "get progress")
		}
		p := domain.WordProgress{
			WordID:    id,
			State:     domain.ProgressState(state),
			Strength:  strength,
			UpdatedAt: time.UnixMicro(updated).UTC(),
		}
		if next.Valid {
			t := time.UnixMicro(next.Int64).UTC()
			p.NextReview = &t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "get progress")
	}
	return out, nil
}

// Put upserts one record.
func (r *ProgressRepo) Put(ctx context.Context, studentID uuid.UUID, p domain.WordProgress) error {
	return r.write(ctx, "put progress", studentID, []domain.WordProgress{p})
}

// PutAll upserts every record inside one transaction. Later records for the
// same word overwrite earlier ones.
func (r *ProgressRepo) PutAll(ctx context.Context, studentID uuid.UUID, ps []domain.WordProgress) error {
	if len(ps) == 0 {
		return nil
	}
	return r.write(ctx, "put all progress", studentID, ps)
}

// OnChange subscribes fn to writes of the student's progress.
func (r *ProgressRepo) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return r.hub.Subscribe(studentID, fn)
}

func (r *ProgressRepo) write(ctx context.Context, op string, studentID uuid.UUID, ps []domain.WordProgress) error {
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	now := r.now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err, op)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertProgressSQL)
	if err != nil {
		return mapError(err, op)
	}
	defer stmt.Close()

	ids := make([]uuid.UUID, 0, len(ps))
	for _, p := range ps {
		var next sql.NullInt64
		if p.NextReview != nil {
			next = sql.NullInt64{Int64: p.NextReview.UnixMicro(), Valid: true}
		}
		at := p.UpdatedAt
		if at.IsZero() {
			at = now
		}
		if _, err := stmt.ExecContext(ctx,
			studentID.String(), p.WordID.String(), string(p.State), p.Strength, next, at.UnixMicro(),
		); err != nil {
			return mapError(err, op)
		}
		ids = append(ids, p.WordID)
	}

	if err := tx.Commit(); err != nil {
		return mapError(err, op)
	}

	r.hub.Publish(domain.ChangeEvent{StudentID: studentID, Kind: domain.ChangeKindProgress, WordIDs: ids, At: now})
	return nil
}
