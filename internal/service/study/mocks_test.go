package study

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// ---------------------------------------------------------------------------
// progressStoreMock
// ---------------------------------------------------------------------------

var _ progressStore = &progressStoreMock{}

type progressStoreMock struct {
	GetFunc      func(ctx context.Context, studentID uuid.UUID) ([]domain.WordProgress, error)
	PutFunc      func(ctx context.Context, studentID uuid.UUID, p domain.WordProgress) error
	PutAllFunc   func(ctx context.Context, studentID uuid.UUID, ps []domain.WordProgress) error
	OnChangeFunc func(studentID uuid.UUID, fn func(domain.ChangeEvent)) func()

	calls struct {
		Get []struct {
			Ctx       context.Context
			StudentID uuid.UUID
		}
		Put []struct {
			Ctx       context.Context
			StudentID uuid.UUID
			P         domain.WordProgress
		}
		PutAll []struct {
			Ctx       context.Context
			StudentID uuid.UUID
			Ps        []domain.WordProgress
		}
		OnChange []struct {
			StudentID uuid.UUID
			Fn        func(domain.ChangeEvent)
		}
	}
	lockGet      sync.RWMutex
	lockPut      sync.RWMutex
	lockPutAll   sync.RWMutex
	lockOnChange sync.RWMutex
}

func (mock *progressStoreMock) Get(ctx context.Context, studentID uuid.UUID) ([]domain.WordProgress, error) {
	if mock.GetFunc == nil {
		panic("progressStoreMock.GetFunc: method is nil but progressStore.Get was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		StudentID uuid.UUID
	}{Ctx: ctx, StudentID: studentID}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, studentID)
}

func (mock *progressStoreMock) GetCalls() []struct {
	Ctx       context.Context
	StudentID uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *progressStoreMock) Put(ctx context.Context, studentID uuid.UUID, p domain.WordProgress) error {
	if mock.PutFunc == nil {
		panic("progressStoreMock.PutFunc: method is nil but progressStore.Put was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		StudentID uuid.UUID
		P         domain.WordProgress
	}{Ctx: ctx, StudentID: studentID, P: p}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, callInfo)
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, studentID, p)
}

func (mock *progressStoreMock) PutCalls() []struct {
	Ctx       context.Context
	StudentID uuid.UUID
	P         domain.WordProgress
} {
	mock.lockPut.RLock()
	calls := mock.calls.Put
	mock.lockPut.RUnlock()
	return calls
}

func (mock *progressStoreMock) PutAll(ctx context.Context, studentID uuid.UUID, ps []domain.WordProgress) error {
	if mock.PutAllFunc == nil {
		panic("progressStoreMock.PutAllFunc: method is nil but progressStore.PutAll was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		StudentID uuid.UUID
		Ps        []domain.WordProgress
	}{Ctx: ctx, StudentID: studentID, Ps: ps}
	mock.lockPutAll.Lock()
	mock.calls.PutAll = append(mock.calls.PutAll, callInfo)
	mock.lockPutAll.Unlock()
	return mock.PutAllFunc(ctx, studentID, ps)
}

func (mock *progressStoreMock) PutAllCalls() []struct {
	Ctx       context.Context
	StudentID uuid.UUID
	Ps        []domain.WordProgress
} {
	mock.lockPutAll.RLock()
	calls := mock.calls.PutAll
	mock.lockPutAll.RUnlock()
	return calls
}

func (mock *progressStoreMock) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) func() {
	callInfo := struct {
		StudentID uuid.UUID
		Fn        func(domain.ChangeEvent)
	}{StudentID: studentID, Fn: fn}
	mock.lockOnChange.Lock()
	mock.calls.OnChange = append(mock.calls.OnChange, callInfo)
	mock.lockOnChange.Unlock()
	if mock.OnChangeFunc == nil {
		return func() {}
	}
	return mock.OnChangeFunc(studentID, fn)
}

func (mock *progressStoreMock) OnChangeCalls() []struct {
	StudentID uuid.UUID
	Fn        func(domain.ChangeEvent)
} {
	mock.lockOnChange.RLock()
	calls := mock.calls.OnChange
	mock.lockOnChange.RUnlock()
	return calls
}

// ---------------------------------------------------------------------------
// wordRepoMock
// ---------------------------------------------------------------------------

var _ wordRepo = &wordRepoMock{}

type wordRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	ListFunc    func(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		List []struct {
			Ctx    context.Context
			Filter domain.WordFilter
		}
	}
	lockGetByID sync.RWMutex
	lockList    sync.RWMutex
}

func (mock *wordRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	if mock.GetByIDFunc == nil {
		panic("wordRepoMock.GetByIDFunc: method is nil but wordRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *wordRepoMock) List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	if mock.ListFunc == nil {
		panic("wordRepoMock.ListFunc: method is nil but wordRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.WordFilter
	}{Ctx: ctx, Filter: filter}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *wordRepoMock) ListCalls() []struct {
	Ctx    context.Context
	Filter domain.WordFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

// ---------------------------------------------------------------------------
// rosterRepoMock
// ---------------------------------------------------------------------------

var _ rosterRepo = &rosterRepoMock{}

type rosterRepoMock struct {
	SupervisorOfFunc func(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error)
}

func (mock *rosterRepoMock) SupervisorOf(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	if mock.SupervisorOfFunc == nil {
		panic("rosterRepoMock.SupervisorOfFunc: method is nil but rosterRepo.SupervisorOf was just called")
	}
	return mock.SupervisorOfFunc(ctx, studentID)
}

// ---------------------------------------------------------------------------
// statsRecorderMock
// ---------------------------------------------------------------------------

var _ statsRecorder = &statsRecorderMock{}

type statsRecorderMock struct {
	RecordEventFunc func(ctx context.Context, event domain.StatsEvent) (domain.LearningStats, error)

	calls struct {
		RecordEvent []struct {
			Ctx   context.Context
			Event domain.StatsEvent
		}
	}
	lockRecordEvent sync.RWMutex
}

func (mock *statsRecorderMock) RecordEvent(ctx context.Context, event domain.StatsEvent) (domain.LearningStats, error) {
	if mock.RecordEventFunc == nil {
		panic("statsRecorderMock.RecordEventFunc: method is nil but statsRecorder.RecordEvent was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Event domain.StatsEvent
	}{Ctx: ctx, Event: event}
	mock.lockRecordEvent.Lock()
	mock.calls.RecordEvent = append(mock.calls.RecordEvent, callInfo)
	mock.lockRecordEvent.Unlock()
	return mock.RecordEventFunc(ctx, event)
}

func (mock *statsRecorderMock) RecordEventCalls() []struct {
	Ctx   context.Context
	Event domain.StatsEvent
} {
	mock.lockRecordEvent.RLock()
	calls := mock.calls.RecordEvent
	mock.lockRecordEvent.RUnlock()
	return calls
}
