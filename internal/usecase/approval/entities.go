package approval

import (
	"time"

	domain "microloan-backend/internal/domain/approval"
	domainLoan "microloan-backend/internal/domain/loan"
)

// Actor is the authenticated principal as resolved by the (external)
// auth layer.
type Actor struct {
	ID       uint64
	Role     domain.Role
	BranchID uint64
}

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type ProcessInput struct {
	ApplicationID   uint64
	Level           int
	Decision        Decision
	Comments        string
	RejectionReason string
}

type RecordDTO struct {
	ID              uint64        `json:"id"`
	ApplicationID   uint64        `json:"application_id"`
	Level           int           `json:"level"`
	RequiredRole    domain.Role   `json:"required_role"`
	Status          domain.Status `json:"status"`
	ApproverID      *uint64       `json:"approver_id,omitempty"`
	DecidedAt       *time.Time    `json:"decided_at,omitempty"`
	Comments        string        `json:"comments,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
}

// DecisionResult reports the outcome of one processed approval.
type DecisionResult struct {
	Record            RecordDTO         `json:"record"`
	ApplicationStatus domainLoan.Status `json:"application_status"`
	WorkflowComplete  bool              `json:"workflow_complete"`
}

type EscalateInput struct {
	ApplicationID uint64
	CurrentLevel  int
	Reason        string
}

// EscalationResult reports where the decision moved.
type EscalationResult struct {
	NextLevel    int         `json:"next_level"`
	RequiredRole domain.Role `json:"required_role"`
	Created      bool        `json:"created"`
}

type BulkItem struct {
	ApplicationID   uint64   `json:"application_id"`
	Level           int      `json:"level"`
	Decision        Decision `json:"decision"`
	Comments        string   `json:"comments,omitempty"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
}

type BulkItemFailure struct {
	ApplicationID uint64 `json:"application_id"`
	Level         int    `json:"level"`
	Error         string `json:"error"`
}

// BulkResult aggregates per-item outcomes. Items are independent
// transactions; one failure never rolls back the others.
type BulkResult struct {
	Approved int               `json:"approved"`
	Rejected int               `json:"rejected"`
	Failed   int               `json:"failed"`
	Failures []BulkItemFailure `json:"failures,omitempty"`
}

// PendingFilter narrows the pending-approvals listing.
type PendingFilter struct {
	MinAmount      *float64
	MaxAmount      *float64
	SubmittedAfter *time.Time
}

func toRecordDTO(r *domain.Record) RecordDTO {
	return RecordDTO{
		ID:              r.ID,
		ApplicationID:   r.ApplicationID,
		Level:           r.Level,
		RequiredRole:    r.RequiredRole,
		Status:          r.Status,
		ApproverID:      r.ApproverID,
		DecidedAt:       r.DecidedAt,
		Comments:        r.Comments,
		RejectionReason: r.RejectionReason,
	}
}
