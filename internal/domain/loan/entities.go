package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("loan application not found")
	ErrValidation     = errors.New("invalid loan application data")
	ErrKYCNotApproved = errors.New("customer KYC is not approved")
	ErrNotEditable    = errors.New("loan application is not editable in its current status")
	ErrNotReviewable  = errors.New("loan application is not reviewable in its current status")
)

type Status string

const (
	StatusDraft           Status = "draft"
	StatusSubmitted       Status = "submitted"
	StatusUnderReview     Status = "under_review"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	// Downstream servicing states. Declared for schema completeness;
	// never transitioned by this service.
	StatusDisbursed  Status = "disbursed"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusDefaulted  Status = "defaulted"
	StatusWrittenOff Status = "written_off"
)

// Editable reports whether application fields may still be mutated.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusSubmitted
}

// Reviewable reports whether the approval workflow may act on the application.
func (s Status) Reviewable() bool {
	return s == StatusSubmitted || s == StatusUnderReview || s == StatusPendingApproval
}

type PaymentFrequency string

const (
	FrequencyWeekly    PaymentFrequency = "weekly"
	FrequencyBiweekly  PaymentFrequency = "biweekly"
	FrequencyMonthly   PaymentFrequency = "monthly"
	FrequencyQuarterly PaymentFrequency = "quarterly"
)

func (f PaymentFrequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

type CollateralType string

const (
	CollateralNone           CollateralType = "none"
	CollateralProperty       CollateralType = "property"
	CollateralFixedDeposit   CollateralType = "fixed_deposit"
	CollateralGold           CollateralType = "gold"
	CollateralVehicle        CollateralType = "vehicle"
	CollateralBusinessAssets CollateralType = "business_assets"
	CollateralGuarantee      CollateralType = "guarantee"
	CollateralOther          CollateralType = "other"
)

const (
	MinTermMonths = 1
	MaxTermMonths = 240
)

type Application struct {
	ID              uint64 `gorm:"primaryKey;column:id"`
	ApplicationCode string `gorm:"size:20;uniqueIndex:ux_applications_code"`
	CustomerID      uint64 `gorm:"index:idx_applications_customer;not null"`
	ProductID       uint64 `gorm:"not null"`

	Amount           float64          `gorm:"type:decimal(18,2);not null"`
	TermMonths       int              `gorm:"not null"`
	InterestRate     float64          `gorm:"type:decimal(6,2);not null"`
	PaymentFrequency PaymentFrequency `gorm:"size:16;default:'monthly'"`

	Purpose          string  `gorm:"type:text"`
	EmploymentStatus string  `gorm:"size:32"`
	MonthlyIncome    float64 `gorm:"type:decimal(18,2)"`
	ExistingDebts    float64 `gorm:"type:decimal(18,2)"`

	CollateralType        CollateralType `gorm:"size:32;default:'none'"`
	CollateralValue       float64        `gorm:"type:decimal(18,2)"`
	CollateralDescription string         `gorm:"type:text"`

	GuarantorName         string `gorm:"size:128"`
	GuarantorPhone        string `gorm:"size:32"`
	GuarantorRelationship string `gorm:"size:64"`

	ProcessingFee   float64 `gorm:"type:decimal(18,2)"`
	TotalAmount     float64 `gorm:"type:decimal(18,2)"`
	PeriodicPayment float64 `gorm:"type:decimal(18,2)"`

	Status          Status `gorm:"size:24;default:'draft';index:idx_applications_status"`
	RejectionReason string `gorm:"type:text"`

	BranchID  uint64 `gorm:"index:idx_applications_branch"`
	CreatedBy uint64 `gorm:"not null"`

	SubmittedAt *time.Time
	ApprovedAt  *time.Time
	RejectedAt  *time.Time

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Application) TableName() string { return "loan_applications" }

// HasCollateral reports whether a collateral pledge is attached.
func (a *Application) HasCollateral() bool {
	return a.CollateralType != "" && a.CollateralType != CollateralNone
}

type EntryStatus string

const (
	EntryPending EntryStatus = "pending"
	EntryPaid    EntryStatus = "paid"
)

// ScheduleEntry is one installment of an application's amortization
// schedule. The schedule is owned by its application and replaced
// wholesale whenever the terms change.
type ScheduleEntry struct {
	ID            uint64      `gorm:"primaryKey;column:id"`
	ApplicationID uint64      `gorm:"not null;index:idx_schedule_application"`
	Sequence      int         `gorm:"not null"`
	DueDate       time.Time   `gorm:"not null"`
	Amount        float64     `gorm:"type:decimal(18,2);not null"`
	Principal     float64     `gorm:"type:decimal(18,2);not null"`
	Interest      float64     `gorm:"type:decimal(18,2);not null"`
	Balance       float64     `gorm:"type:decimal(18,2);not null"`
	Status        EntryStatus `gorm:"size:16;default:'pending'"`
	CreatedAt     time.Time   `gorm:"autoCreateTime"`
}

func (ScheduleEntry) TableName() string { return "payment_schedule_entries" }

type Product struct {
	ID                uint64  `gorm:"primaryKey;column:id"`
	Name              string  `gorm:"size:128;not null"`
	MinAmount         float64 `gorm:"type:decimal(18,2);not null"`
	MaxAmount         float64 `gorm:"type:decimal(18,2);not null"`
	MinTermMonths     int     `gorm:"not null"`
	MaxTermMonths     int     `gorm:"not null"`
	InterestRate      float64 `gorm:"type:decimal(6,2);not null"`
	ProcessingFeeRate float64 `gorm:"type:decimal(6,2);not null"`
	IsActive          bool    `gorm:"default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Product) TableName() string { return "loan_products" }
