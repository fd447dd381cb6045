package uow

import (
	"context"

	"microloan-backend/internal/domain/approval"
	"microloan-backend/internal/domain/audit"
	"microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/risk"
)

type Repos struct {
	Loans       loan.Repository
	Approvals   approval.Repository
	Assessments risk.Repository
	Audit       audit.Sink
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID uint64, fn func(r Repos, a *loan.Application) error) error
}
