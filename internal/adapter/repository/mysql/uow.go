package mysql

import (
	"context"
	"errors"

	"microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func txRepos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:       &LoanRepository{db: tx},
		Approvals:   &ApprovalRepository{db: tx},
		Assessments: &RiskRepository{db: tx},
		Audit:       &AuditSink{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos(tx))
	})
}

func (u *GormUoW) WithinApplicationTx(ctx context.Context, applicationID uint64, fn func(r uow.Repos, a *loan.Application) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := txRepos(tx)
		// lock the application row up-front to prevent races
		a, err := r.Loans.GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		return fn(r, a)
	})
}
