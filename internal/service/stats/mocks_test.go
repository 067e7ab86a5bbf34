package stats

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

var _ statsStore = &statsStoreMock{}

type statsStoreMock struct {
	GetStatsFunc func(ctx context.Context, studentID uuid.UUID) (domain.LearningStats, bool, error)
	PutStatsFunc func(ctx context.Context, s domain.LearningStats) error
	OnChangeFunc func(studentID uuid.UUID, fn func(domain.ChangeEvent)) func()

	calls struct {
		GetStats []struct {
			Ctx       context.Context
			StudentID uuid.UUID
		}
		PutStats []struct {
			Ctx context.Context
			S   domain.LearningStats
		}
	}
	lockGetStats sync.RWMutex
	lockPutStats sync.RWMutex
}

func (mock *statsStoreMock) GetStats(ctx context.Context, studentID uuid.UUID) (domain.LearningStats, bool, error) {
	if mock.GetStatsFunc == nil {
		panic("statsStoreMock.GetStatsFunc: method is nil but statsStore.GetStats was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		StudentID uuid.UUID
	}{Ctx: ctx, StudentID: studentID}
	mock.lockGetStats.Lock()
	mock.calls.GetStats = append(mock.calls.GetStats, callInfo)
	mock.lockGetStats.Unlock()
	return mock.GetStatsFunc(ctx, studentID)
}

func (mock *statsStoreMock) PutStats(ctx context.Context, s domain.LearningStats) error {
	if mock.PutStatsFunc == nil {
		panic("statsStoreMock.PutStatsFunc: method is nil but statsStore.PutStats was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.LearningStats
	}{Ctx: ctx, S: s}
	mock.lockPutStats.Lock()
	mock.calls.PutStats = append(mock.calls.PutStats, callInfo)
	mock.lockPutStats.Unlock()
	return mock.PutStatsFunc(ctx, s)
}

func (mock *statsStoreMock) PutStatsCalls() []struct {
	Ctx context.Context
	S   domain.LearningStats
} {
	mock.lockPutStats.RLock()
	calls := mock.calls.PutStats
	mock.lockPutStats.RUnlock()
	return calls
}

func (mock *statsStoreMock) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) func() {
	if mock.OnChangeFunc == nil {
		panic("statsStoreMock.OnChangeFunc: method is nil but statsStore.OnChange was just called")
	}
	return mock.OnChangeFunc(studentID, fn)
}
