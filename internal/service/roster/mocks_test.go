package roster

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

var _ studentRepo = &studentRepoMock{}

type studentRepoMock struct {
	SupervisorOfFunc     func(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error)
	CreateFunc           func(ctx context.Context, s domain.Student) error
	ListBySupervisorFunc func(ctx context.Context, supervisorID uuid.UUID) ([]domain.Student, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			S   domain.Student
		}
	}
	lockCreate sync.RWMutex
}

func (mock *studentRepoMock) SupervisorOf(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	if mock.SupervisorOfFunc == nil {
		panic("studentRepoMock.SupervisorOfFunc: method is nil but studentRepo.SupervisorOf was just called")
	}
	return mock.SupervisorOfFunc(ctx, studentID)
}

func (mock *studentRepoMock) Create(ctx context.Context, s domain.Student) error {
	if mock.CreateFunc == nil {
		panic("studentRepoMock.CreateFunc: method is nil but studentRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.Student
	}{Ctx: ctx, S: s}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *studentRepoMock) CreateCalls() []struct {
	Ctx context.Context
	S   domain.Student
} {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *studentRepoMock) ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]domain.Student, error) {
	if mock.ListBySupervisorFunc == nil {
		panic("studentRepoMock.ListBySupervisorFunc: method is nil but studentRepo.ListBySupervisor was just called")
	}
	return mock.ListBySupervisorFunc(ctx, supervisorID)
}
