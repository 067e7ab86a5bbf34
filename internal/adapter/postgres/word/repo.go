// Package word implements the supervisor word catalog on PostgreSQL.
package word

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/wordclass/internal/adapter/postgres"
	"github.com/heartmarshall/wordclass/internal/domain"
)

const table = "words"

var columns = []string{
	"id", "supervisor_id", "word", "definition", "image_url",
	"options", "correct_option", "unit", "lesson", "created_at", "updated_at",
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new word repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a word by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	query, args, err := builder().Select(columns...).From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get word: %w", err)
	}

	w, err := scanWord(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapEntityError(err, "word", id)
	}
	return w, nil
}

// List returns the words matching every set field of filter, ordered by
// unit, lesson, word and id.
func (r *Repo) List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	sb := builder().Select(columns...).From(table)
	if filter.SupervisorID != nil {
		sb = sb.Where(squirrel.Eq{"supervisor_id": *filter.SupervisorID})
	}
	if filter.Unit != nil {
		sb = sb.Where(squirrel.Eq{"unit": *filter.Unit})
	}
	if filter.Lesson != nil {
		sb = sb.Where(squirrel.Eq{"lesson": *filter.Lesson})
	}

	query, args, err := sb.OrderBy("unit", "lesson", "word", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list words: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "list words")
	}
	defer rows.Close()

	out := make([]domain.Word, 0)
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, postgres.MapError(err, "list words")
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "list words")
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts w and returns it with the database timestamps.
func (r *Repo) Create(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	query, args, err := builder().Insert(table).
		Columns("id", "supervisor_id", "word", "definition", "image_url", "options", "correct_option", "unit", "lesson").
		Values(w.ID, w.SupervisorID, w.Word, w.Definition, w.ImageURL, w.Options, w.CorrectOption, w.Unit, w.Lesson).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create word: %w", err)
	}

	created, err := scanWord(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapEntityError(err, "word", w.ID)
	}
	return created, nil
}

// Update replaces the editable fields of w.
func (r *Repo) Update(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	query, args, err := builder().Update(table).
		Set("word", w.Word).
		Set("definition", w.Definition).
		Set("image_url", w.ImageURL).
		Set("options", w.Options).
		Set("correct_option", w.CorrectOption).
		Set("unit", w.Unit).
		Set("lesson", w.Lesson).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": w.ID}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update word: %w", err)
	}

	updated, err := scanWord(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapEntityError(err, "word", w.ID)
	}
	return updated, nil
}

// Delete removes a word. Progress rows referencing it are kept.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := builder().Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete word: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapEntityError(err, "word", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func scanWord(row pgx.Row) (*domain.Word, error) {
	var w domain.Word
	err := row.Scan(
		&w.ID, &w.SupervisorID, &w.Word, &w.Definition, &w.ImageURL,
		&w.Options, &w.CorrectOption, &w.Unit, &w.Lesson, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return &w, nil
}
