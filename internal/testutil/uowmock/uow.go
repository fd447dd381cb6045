package uowmock

import (
	"context"
	"errors"

	"microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinApplicationTxFn func(ctx context.Context, applicationID uint64, fn func(r uow.Repos, a *loan.Application) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinApplicationTx(ctx context.Context, applicationID uint64, fn func(r uow.Repos, a *loan.Application) error) error {
	if m.WithinApplicationTxFn != nil {
		return m.WithinApplicationTxFn(ctx, applicationID, fn)
	}
	return errUnimplemented
}

// Passthrough builds a UoW whose transactions simply invoke the
// callback with the given repos, loading the application via
// r.Loans.GetByIDForUpdate the way the real implementation does.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinApplicationTxFn: func(ctx context.Context, applicationID uint64, fn func(uow.Repos, *loan.Application) error) error {
			a, err := r.Loans.GetByIDForUpdate(ctx, applicationID)
			if err != nil {
				return loan.ErrNotFound
			}
			return fn(r, a)
		},
	}
}
