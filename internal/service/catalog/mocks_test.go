package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/domain"
)

var _ wordRepo = &wordRepoMock{}

type wordRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	ListFunc    func(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)
	CreateFunc  func(ctx context.Context, w *domain.Word) (*domain.Word, error)
	UpdateFunc  func(ctx context.Context, w *domain.Word) (*domain.Word, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) error

	calls struct {
		Create []struct {
			Ctx context.Context
			W   *domain.Word
		}
		Update []struct {
			Ctx context.Context
			W   *domain.Word
		}
		Delete []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
	}
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *wordRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	if mock.GetByIDFunc == nil {
		panic("wordRepoMock.GetByIDFunc: method is nil but wordRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *wordRepoMock) List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	if mock.ListFunc == nil {
		panic("wordRepoMock.ListFunc: method is nil but wordRepo.List was just called")
	}
	return mock.ListFunc(ctx, filter)
}

func (mock *wordRepoMock) Create(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	if mock.CreateFunc == nil {
		panic("wordRepoMock.CreateFunc: method is nil but wordRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		W   *domain.Word
	}{Ctx: ctx, W: w}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, w)
}

func (mock *wordRepoMock) CreateCalls() []struct {
	Ctx context.Context
	W   *domain.Word
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *wordRepoMock) Update(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	if mock.UpdateFunc == nil {
		panic("wordRepoMock.UpdateFunc: method is nil but wordRepo.Update was just called")
	}
	callInfo := struct {
		Ctx context.Context
		W   *domain.Word
	}{Ctx: ctx, W: w}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, w)
}

func (mock *wordRepoMock) UpdateCalls() []struct {
	Ctx context.Context
	W   *domain.Word
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *wordRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("wordRepoMock.DeleteFunc: method is nil but wordRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *wordRepoMock) DeleteCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

var _ distractorGenerator = &distractorGeneratorMock{}

type distractorGeneratorMock struct {
	GenerateDistractorsFunc func(ctx context.Context, word, definition, imageURL string) ([]string, error)

	calls struct {
		GenerateDistractors []struct {
			Word       string
			Definition string
			ImageURL   string
		}
	}
	lockGenerateDistractors sync.RWMutex
}

func (mock *distractorGeneratorMock) GenerateDistractors(ctx context.Context, word, definition, imageURL string) ([]string, error) {
	if mock.GenerateDistractorsFunc == nil {
		panic("distractorGeneratorMock.GenerateDistractorsFunc: method is nil but distractorGenerator.GenerateDistractors was just called")
	}
	mock.lockGenerateDistractors.Lock()
	mock.calls.GenerateDistractors = append(mock.calls.GenerateDistractors, struct {
		Word       string
		Definition string
		ImageURL   string
	}{Word: word, Definition: definition, ImageURL: imageURL})
	mock.lockGenerateDistractors.Unlock()
	return mock.GenerateDistractorsFunc(ctx, word, definition, imageURL)
}

func (mock *distractorGeneratorMock) GenerateDistractorsCalls() []struct {
	Word       string
	Definition string
	ImageURL   string
} {
	mock.lockGenerateDistractors.RLock()
	calls := mock.calls.GenerateDistractors
	mock.lockGenerateDistractors.RUnlock()
	return calls
}
