package custmock

import (
	"context"

	domain "microloan-backend/internal/domain/customer"
)

// Lookup is a function-backed mock that satisfies domain.Lookup.
type Lookup struct {
	GetByIDFn func(ctx context.Context, id uint64) (*domain.Customer, error)
}

func (m *Lookup) GetByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

// History is a function-backed mock that satisfies domain.HistoryProvider.
type History struct {
	GetFinancialHistoryFn func(ctx context.Context, customerID uint64) (*domain.FinancialHistory, error)
}

func (m *History) GetFinancialHistory(ctx context.Context, customerID uint64) (*domain.FinancialHistory, error) {
	if m.GetFinancialHistoryFn != nil {
		return m.GetFinancialHistoryFn(ctx, customerID)
	}
	return nil, nil
}
