package approval

import (
	"errors"
	"time"
)

var (
	ErrNotFound              = errors.New("approval record not found")
	ErrNoPendingApproval     = errors.New("no pending approval at this level")
	ErrInsufficientAuthority = errors.New("actor lacks authority for this approval level")
	ErrCannotEscalate        = errors.New("no approval level exists beyond the current one")
)

type Role string

const (
	RoleLoanOfficer    Role = "loan_officer"
	RoleBranchManager  Role = "branch_manager"
	RoleFinanceManager Role = "finance_manager"
	RoleCEO            Role = "ceo"
	RoleAdmin          Role = "admin"
	RoleSuperAdmin     Role = "super_admin"
)

// roleRanks is the fixed authority ordering. A rank of 0 means unknown.
var roleRanks = map[Role]int{
	RoleLoanOfficer:    1,
	RoleBranchManager:  2,
	RoleFinanceManager: 3,
	RoleCEO:            4,
	RoleAdmin:          5,
	RoleSuperAdmin:     6,
}

func (r Role) Rank() int { return roleRanks[r] }

func (r Role) Valid() bool { return roleRanks[r] > 0 }

// AtLeast reports whether r carries the authority of other or higher.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank() && other.Rank() > 0
}

// Unrestricted roles see pending approvals across all branches.
func (r Role) Unrestricted() bool {
	return r == RoleAdmin || r == RoleSuperAdmin || r == RoleCEO
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusEscalated Status = "escalated"
	StatusCancelled Status = "cancelled"
)

// Record is one required sign-off level for an application. Records are
// never deleted, only status-transitioned.
type Record struct {
	ID               uint64  `gorm:"primaryKey;column:id"`
	ApplicationID    uint64  `gorm:"not null;index:idx_approvals_application"`
	Level            int     `gorm:"not null"`
	RequiredRole     Role    `gorm:"size:32;not null"`
	Status           Status  `gorm:"size:16;default:'pending';index:idx_approvals_status"`
	IsRequired       bool    `gorm:"default:true"`
	ApproverID       *uint64 `gorm:"index"`
	DecidedAt        *time.Time
	Comments         string    `gorm:"type:text"`
	RejectionReason  string    `gorm:"type:text"`
	EscalationReason string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Record) TableName() string { return "approval_records" }
