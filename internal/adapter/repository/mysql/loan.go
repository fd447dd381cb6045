package mysql

import (
	"context"

	loanDomain "microloan-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *LoanRepository) Save(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Application, error) {
	var out loanDomain.Application
	q := r.db.WithContext(ctx)
	// sqlite (used in tests) has no FOR UPDATE; its writes serialize anyway.
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	res := q.First(&out, id)
	return &out, res.Error
}

func (r *LoanRepository) GetByCode(ctx context.Context, code string) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).Where("application_code = ?", code).First(&out)
	return &out, res.Error
}

// NextSequence feeds application code generation. Unscoped so codes of
// soft-deleted applications are never reissued.
func (r *LoanRepository) NextSequence(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&loanDomain.Application{}).
		Select("COALESCE(MAX(id), 0) + 1").
		Scan(&next).Error
	return next, err
}

func (r *LoanRepository) ReplaceSchedule(ctx context.Context, applicationID uint64, entries []loanDomain.ScheduleEntry) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("application_id = ?", applicationID).
		Delete(&loanDomain.ScheduleEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return tx.Create(&entries).Error
}

func (r *LoanRepository) ListSchedule(ctx context.Context, applicationID uint64) ([]loanDomain.ScheduleEntry, error) {
	var out []loanDomain.ScheduleEntry
	res := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("sequence ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) GetProduct(ctx context.Context, id uint64) (*loanDomain.Product, error) {
	var out loanDomain.Product
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}
