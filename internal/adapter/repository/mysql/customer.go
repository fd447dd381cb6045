package mysql

import (
	"context"
	"time"

	customerDomain "microloan-backend/internal/domain/customer"
	loanDomain "microloan-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) GetByID(ctx context.Context, id uint64) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

// GetFinancialHistory derives the repayment snapshot from the
// customer's past applications and their schedule entries. A customer
// with no loans past submission has no history: (nil, nil).
func (r *CustomerRepository) GetFinancialHistory(ctx context.Context, customerID uint64) (*customerDomain.FinancialHistory, error) {
	db := r.db.WithContext(ctx)

	servicedStates := []loanDomain.Status{
		loanDomain.StatusDisbursed,
		loanDomain.StatusActive,
		loanDomain.StatusCompleted,
		loanDomain.StatusDefaulted,
		loanDomain.StatusWrittenOff,
	}

	var serviced int64
	if err := db.Model(&loanDomain.Application{}).
		Where("customer_id = ? AND status IN ?", customerID, servicedStates).
		Count(&serviced).Error; err != nil {
		return nil, err
	}
	if serviced == 0 {
		return nil, nil
	}

	h := &customerDomain.FinancialHistory{}

	var n int64
	if err := db.Model(&loanDomain.Application{}).
		Where("customer_id = ? AND status = ?", customerID, loanDomain.StatusCompleted).
		Count(&n).Error; err != nil {
		return nil, err
	}
	h.SuccessfulLoans = int(n)

	if err := db.Model(&loanDomain.Application{}).
		Where("customer_id = ? AND status IN ?", customerID,
			[]loanDomain.Status{loanDomain.StatusDefaulted, loanDomain.StatusWrittenOff}).
		Count(&n).Error; err != nil {
		return nil, err
	}
	h.DefaultedLoans = int(n)

	// Installments are not timestamped on payment, so paid counts as on
	// time and an overdue pending entry counts as late.
	entryQuery := func(cond string, args ...interface{}) (int64, error) {
		var c int64
		err := db.Model(&loanDomain.ScheduleEntry{}).
			Joins("JOIN loan_applications la ON la.id = payment_schedule_entries.application_id").
			Where("la.customer_id = ?", customerID).
			Where(cond, args...).
			Count(&c).Error
		return c, err
	}

	paid, err := entryQuery("payment_schedule_entries.status = ?", loanDomain.EntryPaid)
	if err != nil {
		return nil, err
	}
	overdue, err := entryQuery("payment_schedule_entries.status = ? AND payment_schedule_entries.due_date < ?",
		loanDomain.EntryPending, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	h.OnTimePayments = int(paid)
	h.LatePayments = int(overdue)
	h.TotalPayments = int(paid + overdue)
	return h, nil
}
