// Package roster assigns students to the supervisors whose catalogs they
// study.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/domain"
)

const maxDisplayName = 100

type studentRepo interface {
	SupervisorOf(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, s domain.Student) error
	ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]domain.Student, error)
}

// Service manages the student roster.
type Service struct {
	students studentRepo
	log      *slog.Logger
}

// NewService creates a new roster service.
func NewService(log *slog.Logger, students studentRepo) *Service {
	return &Service{
		students: students,
		log:      log.With("service", "roster"),
	}
}

// EnrollInput assigns a student to a supervisor. A nil StudentID enrolls a
// new student under a generated id.
type EnrollInput struct {
	SupervisorID uuid.UUID
	StudentID    uuid.UUID
	DisplayName  string
}

// Validate checks all fields and collects all errors.
func (i *EnrollInput) Validate() error {
	var errs []domain.FieldError

	if i.SupervisorID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "supervisor_id", Message: "required"})
	}
	if i.StudentID != uuid.Nil && i.StudentID == i.SupervisorID {
		errs = append(errs, domain.FieldError{Field: "student_id", Message: "must differ from the supervisor"})
	}
	name := strings.TrimSpace(i.DisplayName)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "required"})
	} else if utf8.RuneCountInString(name) > maxDisplayName {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: fmt.Sprintf("max %d characters", maxDisplayName)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Enroll registers a student under the supervisor, or renames one already
// assigned to them. Students of another supervisor are not taken over.
func (s *Service) Enroll(ctx context.Context, input EnrollInput) (domain.Student, error) {
	if err := input.Validate(); err != nil {
		return domain.Student{}, err
	}

	student := domain.Student{
		ID:           input.StudentID,
		SupervisorID: input.SupervisorID,
		DisplayName:  strings.TrimSpace(input.DisplayName),
	}
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	} else {
		owner, err := s.students.SupervisorOf(ctx, student.ID)
		switch {
		case err == nil && owner != input.SupervisorID:
			return domain.Student{}, fmt.Errorf("student %s is assigned to another supervisor: %w", student.ID, domain.ErrForbidden)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return domain.Student{}, fmt.Errorf("get supervisor: %w", err)
		}
	}

	if err := s.students.Create(ctx, student); err != nil {
		return domain.Student{}, fmt.Errorf("create student: %w", err)
	}

	s.log.InfoContext(ctx, "student enrolled",
		slog.String("student_id", student.ID.String()),
		slog.String("supervisor_id", student.SupervisorID.String()),
	)
	return student, nil
}

// List returns the supervisor's students ordered by display name.
func (s *Service) List(ctx context.Context, supervisorID uuid.UUID) ([]domain.Student, error) {
	students, err := s.students.ListBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// SupervisorOf returns the supervisor the student is assigned to.
func (s *Service) SupervisorOf(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	return s.students.SupervisorOf(ctx, studentID)
}
