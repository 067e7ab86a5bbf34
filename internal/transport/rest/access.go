package rest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
	"github.com/heartmarshall/wordclass/internal/service/roster"
	"github.com/heartmarshall/wordclass/pkg/ctxutil"
)

type rosterService interface {
	SupervisorOf(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error)
	Enroll(ctx context.Context, input roster.EnrollInput) (domain.Student, error)
	List(ctx context.Context, supervisorID uuid.UUID) ([]domain.Student, error)
}

// caller is the authenticated identity of a request.
type caller struct {
	ID   uuid.UUID
	Role string
}

func (c caller) isSupervisor() bool { return c.Role == ctxutil.RoleSupervisor }

func callerFrom(ctx context.Context) (caller, error) {
	id, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return caller{}, fmt.Errorf("bearer token required: %w", domain.ErrUnauthorized)
	}
	return caller{ID: id, Role: ctxutil.RoleFromCtx(ctx)}, nil
}

// authorizeStudent lets students act on themselves and supervisors act on
// the students assigned to them.
func (a *API) authorizeStudent(ctx context.Context, studentID uuid.UUID) error {
	c, err := callerFrom(ctx)
	if err != nil {
		return err
	}

	if !c.isSupervisor() {
		if c.ID != studentID {
			return fmt.Errorf("student %s: %w", studentID, domain.ErrForbidden)
		}
		return nil
	}

	supervisorID, err := a.roster.SupervisorOf(ctx, studentID)
	if err != nil {
		return fmt.Errorf("resolve supervisor: %w", err)
	}
	if supervisorID != c.ID {
		return fmt.Errorf("student %s is not assigned to you: %w", studentID, domain.ErrForbidden)
	}
	return nil
}

// requireSupervisor returns the caller if they may manage a catalog.
func requireSupervisor(ctx context.Context) (caller, error) {
	c, err := callerFrom(ctx)
	if err != nil {
		return caller{}, err
	}
	if !c.isSupervisor() {
		return caller{}, fmt.Errorf("supervisor role required: %w", domain.ErrForbidden)
	}
	return c, nil
}

// catalogOwner returns whose catalog the caller reads: their own for a
// supervisor, their supervisor's for a student.
func (a *API) catalogOwner(ctx context.Context, c caller) (uuid.UUID, error) {
	if c.isSupervisor() {
		return c.ID, nil
	}
	supervisorID, err := a.roster.SupervisorOf(ctx, c.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve supervisor: %w", err)
	}
	return supervisorID, nil
}
