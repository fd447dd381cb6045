package loanmock

import (
	"context"

	domain "microloan-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Application) error
	SaveFn             func(ctx context.Context, a *domain.Application) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Application, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Application, error)
	GetByCodeFn        func(ctx context.Context, code string) (*domain.Application, error)
	NextSequenceFn     func(ctx context.Context) (uint64, error)
	ReplaceScheduleFn  func(ctx context.Context, applicationID uint64, entries []domain.ScheduleEntry) error
	ListScheduleFn     func(ctx context.Context, applicationID uint64) ([]domain.ScheduleEntry, error)
	GetProductFn       func(ctx context.Context, id uint64) (*domain.Product, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Application) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCode(ctx context.Context, code string) (*domain.Application, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, context.Canceled
}

func (m *Repo) NextSequence(ctx context.Context) (uint64, error) {
	if m.NextSequenceFn != nil {
		return m.NextSequenceFn(ctx)
	}
	return 1, nil
}

func (m *Repo) ReplaceSchedule(ctx context.Context, applicationID uint64, entries []domain.ScheduleEntry) error {
	if m.ReplaceScheduleFn != nil {
		return m.ReplaceScheduleFn(ctx, applicationID, entries)
	}
	return nil
}

func (m *Repo) ListSchedule(ctx context.Context, applicationID uint64) ([]domain.ScheduleEntry, error) {
	if m.ListScheduleFn != nil {
		return m.ListScheduleFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	if m.GetProductFn != nil {
		return m.GetProductFn(ctx, id)
	}
	return nil, context.Canceled
}
