package customer

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("customer not found")

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

type Customer struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	FullName  string    `gorm:"size:128;not null"`
	Phone     string    `gorm:"size:32"`
	KYCStatus KYCStatus `gorm:"size:16;default:'pending'"`
	BranchID  uint64    `gorm:"index:idx_customers_branch"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }

// FinancialHistory is a snapshot of a customer's prior repayment
// behavior. A nil snapshot means no history is known.
type FinancialHistory struct {
	SuccessfulLoans int
	DefaultedLoans  int
	LatePayments    int
	OnTimePayments  int
	TotalPayments   int
}
