package loan

import (
	"time"

	domain "microloan-backend/internal/domain/loan"
)

type CreateInput struct {
	CustomerID       uint64
	ProductID        uint64
	Amount           float64
	TermMonths       int
	InterestRate     float64 // 0 means: use the product's rate
	PaymentFrequency domain.PaymentFrequency
	Purpose          string
	EmploymentStatus string
	MonthlyIncome    float64
	ExistingDebts    float64

	CollateralType        domain.CollateralType
	CollateralValue       float64
	CollateralDescription string

	GuarantorName         string
	GuarantorPhone        string
	GuarantorRelationship string

	BranchID uint64
}

// UpdateInput patches an editable application. Nil fields are left
// untouched.
type UpdateInput struct {
	Amount           *float64
	TermMonths       *int
	InterestRate     *float64
	PaymentFrequency *domain.PaymentFrequency
	Purpose          *string
	EmploymentStatus *string
	MonthlyIncome    *float64
	ExistingDebts    *float64

	CollateralType        *domain.CollateralType
	CollateralValue       *float64
	CollateralDescription *string

	GuarantorName         *string
	GuarantorPhone        *string
	GuarantorRelationship *string
}

type ScheduleEntryDTO struct {
	Sequence  int                `json:"sequence"`
	DueDate   time.Time          `json:"due_date"`
	Amount    float64            `json:"amount"`
	Principal float64            `json:"principal"`
	Interest  float64            `json:"interest"`
	Balance   float64            `json:"balance"`
	Status    domain.EntryStatus `json:"status"`
}

type ApplicationDTO struct {
	ID               uint64                  `json:"id"`
	ApplicationCode  string                  `json:"application_code"`
	CustomerID       uint64                  `json:"customer_id"`
	ProductID        uint64                  `json:"product_id"`
	Amount           float64                 `json:"amount"`
	TermMonths       int                     `json:"term_months"`
	InterestRate     float64                 `json:"interest_rate"`
	PaymentFrequency domain.PaymentFrequency `json:"payment_frequency"`
	Purpose          string                  `json:"purpose,omitempty"`
	ProcessingFee    float64                 `json:"processing_fee"`
	TotalAmount      float64                 `json:"total_amount"`
	PeriodicPayment  float64                 `json:"periodic_payment"`
	Status           domain.Status           `json:"status"`
	BranchID         uint64                  `json:"branch_id"`
	SubmittedAt      *time.Time              `json:"submitted_at,omitempty"`
	ApprovedAt       *time.Time              `json:"approved_at,omitempty"`
	RejectedAt       *time.Time              `json:"rejected_at,omitempty"`
	RejectionReason  string                  `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	Schedule         []ScheduleEntryDTO      `json:"schedule,omitempty"`
}

func toDTO(a *domain.Application, entries []domain.ScheduleEntry) *ApplicationDTO {
	dto := &ApplicationDTO{
		ID:               a.ID,
		ApplicationCode:  a.ApplicationCode,
		CustomerID:       a.CustomerID,
		ProductID:        a.ProductID,
		Amount:           a.Amount,
		TermMonths:       a.TermMonths,
		InterestRate:     a.InterestRate,
		PaymentFrequency: a.PaymentFrequency,
		Purpose:          a.Purpose,
		ProcessingFee:    a.ProcessingFee,
		TotalAmount:      a.TotalAmount,
		PeriodicPayment:  a.PeriodicPayment,
		Status:           a.Status,
		BranchID:         a.BranchID,
		SubmittedAt:      a.SubmittedAt,
		ApprovedAt:       a.ApprovedAt,
		RejectedAt:       a.RejectedAt,
		RejectionReason:  a.RejectionReason,
		CreatedAt:        a.CreatedAt,
	}
	for _, e := range entries {
		dto.Schedule = append(dto.Schedule, ScheduleEntryDTO{
			Sequence:  e.Sequence,
			DueDate:   e.DueDate,
			Amount:    e.Amount,
			Principal: e.Principal,
			Interest:  e.Interest,
			Balance:   e.Balance,
			Status:    e.Status,
		})
	}
	return dto
}
