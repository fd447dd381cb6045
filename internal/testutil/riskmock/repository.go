package riskmock

import (
	"context"

	domain "microloan-backend/internal/domain/risk"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                 func(ctx context.Context, a *domain.Assessment) error
	GetLatestByApplicationFn func(ctx context.Context, applicationID uint64) (*domain.Assessment, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Assessment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetLatestByApplication(ctx context.Context, applicationID uint64) (*domain.Assessment, error) {
	if m.GetLatestByApplicationFn != nil {
		return m.GetLatestByApplicationFn(ctx, applicationID)
	}
	return nil, context.Canceled
}
