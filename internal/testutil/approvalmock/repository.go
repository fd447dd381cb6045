package approvalmock

import (
	"context"

	domain "microloan-backend/internal/domain/approval"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateBatchFn          func(ctx context.Context, records []*domain.Record) error
	SaveFn                 func(ctx context.Context, r *domain.Record) error
	GetPendingByLevelFn    func(ctx context.Context, applicationID uint64, level int) (*domain.Record, error)
	CountPendingRequiredFn func(ctx context.Context, applicationID uint64) (int64, error)
	CancelPendingFn        func(ctx context.Context, applicationID uint64, exceptLevel int) error
	ResetOrCreatePendingFn func(ctx context.Context, applicationID uint64, level int, role domain.Role) (*domain.Record, bool, error)
	ListByApplicationFn    func(ctx context.Context, applicationID uint64) ([]domain.Record, error)
	ListPendingFn          func(ctx context.Context, q domain.PendingQuery) ([]domain.Record, error)
}

func (m *Repo) CreateBatch(ctx context.Context, records []*domain.Record) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, records)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Record) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetPendingByLevel(ctx context.Context, applicationID uint64, level int) (*domain.Record, error) {
	if m.GetPendingByLevelFn != nil {
		return m.GetPendingByLevelFn(ctx, applicationID, level)
	}
	return nil, context.Canceled
}

func (m *Repo) CountPendingRequired(ctx context.Context, applicationID uint64) (int64, error) {
	if m.CountPendingRequiredFn != nil {
		return m.CountPendingRequiredFn(ctx, applicationID)
	}
	return 0, nil
}

func (m *Repo) CancelPending(ctx context.Context, applicationID uint64, exceptLevel int) error {
	if m.CancelPendingFn != nil {
		return m.CancelPendingFn(ctx, applicationID, exceptLevel)
	}
	return nil
}

func (m *Repo) ResetOrCreatePending(ctx context.Context, applicationID uint64, level int, role domain.Role) (*domain.Record, bool, error) {
	if m.ResetOrCreatePendingFn != nil {
		return m.ResetOrCreatePendingFn(ctx, applicationID, level, role)
	}
	return nil, false, context.Canceled
}

func (m *Repo) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.Record, error) {
	if m.ListByApplicationFn != nil {
		return m.ListByApplicationFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) ListPending(ctx context.Context, q domain.PendingQuery) ([]domain.Record, error) {
	if m.ListPendingFn != nil {
		return m.ListPendingFn(ctx, q)
	}
	return nil, nil
}
