// Package roster stores which supervisor each student belongs to.
package roster

import (
	"context"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/wordclass/internal/adapter/postgres"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// Repo provides student persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new roster repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const supervisorOfSQL = `SELECT supervisor_id FROM students WHERE id = $1`

const createSQL = `
INSERT INTO students (id, supervisor_id, display_name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET supervisor_id = EXCLUDED.supervisor_id, display_name = EXCLUDED.display_name`

const listSQL = `
SELECT id, supervisor_id, display_name
FROM students
WHERE supervisor_id = $1
ORDER BY display_name, id`

// SupervisorOf returns the supervisor whose catalog the student studies.
func (r *Repo) SupervisorOf(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	var supervisorID uuid.UUID
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, supervisorOfSQL, studentID).Scan(&supervisorID)
	if err != nil {
		return uuid.Nil, postgres.MapEntityError(err, "student", studentID)
	}
	return supervisorID, nil
}

// Create registers a student, or moves an existing one to another supervisor.
func (r *Repo) Create(ctx context.Context, s domain.Student) error {
	_, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, createSQL, s.ID, s.SupervisorID, s.DisplayName)
	return postgres.MapEntityError(err, "student", s.ID)
}

// ListBySupervisor returns the supervisor's students.
func (r *Repo) ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]domain.Student, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, listSQL, supervisorID)
	if err != nil {
		return nil, postgres.MapError(err, "list students")
	}
	defer rows.Close()

	out := make([]domain.Student, 0)
	for rows.Next() {
		var s domain.Student
		if err := rows.Scan(&s.ID, &s.SupervisorID, &s.DisplayName); err != nil {
			return nil, postgres.MapError(err, "list students")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "list students")
	}
	return out, nil
}
