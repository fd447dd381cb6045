// Package approval implements the multi-level loan approval workflow:
// per-level approve/reject decisions, authority validation, escalation,
// and the terminal-state transition of the application.
package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "microloan-backend/internal/domain/approval"
	"microloan-backend/internal/domain/audit"
	domainLoan "microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	approvalRepo domain.Repository
	uow          uow.UnitOfWork
}

// NewUsecase: the plain repo serves reads; mutations go through the UoW.
func NewUsecase(approvals domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{approvalRepo: approvals, uow: tx}
}

// Process records one approve/reject decision at a chain level. The
// whole mutation (record, application status, sibling cancellation,
// audit entry) commits in a single transaction; the application row is
// locked up-front so concurrent deciders serialize.
func (u *Usecase) Process(ctx context.Context, actor Actor, in ProcessInput) (*DecisionResult, error) {
	if in.Decision != DecisionApproved && in.Decision != DecisionRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", domainLoan.ErrValidation)
	}

	var out *DecisionResult
	err := u.uow.WithinApplicationTx(ctx, in.ApplicationID, func(r uow.Repos, app *domainLoan.Application) error {
		if !app.Status.Reviewable() {
			return domainLoan.ErrNotReviewable
		}

		rec, err := r.Approvals.GetPendingByLevel(ctx, app.ID, in.Level)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNoPendingApproval
			}
			return err
		}

		// Authority gate before any mutation.
		if !hasAuthority(actor.Role, rec.RequiredRole, app.Amount) {
			return domain.ErrInsufficientAuthority
		}

		now := time.Now().UTC()
		actorID := actor.ID
		rec.ApproverID = &actorID
		rec.DecidedAt = &now
		rec.Comments = in.Comments

		complete := false
		switch in.Decision {
		case DecisionApproved:
			rec.Status = domain.StatusApproved
			if err := r.Approvals.Save(ctx, rec); err != nil {
				return err
			}
			remaining, err := r.Approvals.CountPendingRequired(ctx, app.ID)
			if err != nil {
				return err
			}
			if remaining == 0 {
				app.Status = domainLoan.StatusApproved
				app.ApprovedAt = &now
				complete = true
			} else {
				app.Status = domainLoan.StatusPendingApproval
			}
		case DecisionRejected:
			rec.Status = domain.StatusRejected
			rec.RejectionReason = in.RejectionReason
			if err := r.Approvals.Save(ctx, rec); err != nil {
				return err
			}
			app.Status = domainLoan.StatusRejected
			app.RejectedAt = &now
			app.RejectionReason = in.RejectionReason
			// A rejection at any level ends the workflow.
			if err := r.Approvals.CancelPending(ctx, app.ID, rec.Level); err != nil {
				return err
			}
			complete = true
		}

		if err := r.Loans.Save(ctx, app); err != nil {
			return err
		}

		if err := r.Audit.Record(ctx, audit.Entry{
			ActorID:      actor.ID,
			Action:       "approval.decided",
			ResourceType: "loan_application",
			ResourceID:   app.ID,
			Details:      fmt.Sprintf(`{"level":%d,"decision":%q,"status":%q}`, rec.Level, in.Decision, app.Status),
		}); err != nil {
			return err
		}

		// Downstream loan-account creation is out of scope; the request
		// is only recorded for the servicing system to pick up.
		if complete && app.Status == domainLoan.StatusApproved {
			if err := r.Audit.Record(ctx, audit.Entry{
				ActorID:      actor.ID,
				Action:       "loan_account.create_requested",
				ResourceType: "loan_application",
				ResourceID:   app.ID,
				Details:      fmt.Sprintf(`{"application_code":%q}`, app.ApplicationCode),
			}); err != nil {
				return err
			}
		}

		out = &DecisionResult{
			Record:            toRecordDTO(rec),
			ApplicationStatus: app.Status,
			WorkflowComplete:  complete,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Escalate moves a pending decision up one level. An existing record at
// the next level is reset to pending; otherwise a new required record
// is inserted.
func (u *Usecase) Escalate(ctx context.Context, actor Actor, in EscalateInput) (*EscalationResult, error) {
	var out *EscalationResult
	err := u.uow.WithinApplicationTx(ctx, in.ApplicationID, func(r uow.Repos, app *domainLoan.Application) error {
		if !app.Status.Reviewable() {
			return domainLoan.ErrNotReviewable
		}

		rec, err := r.Approvals.GetPendingByLevel(ctx, app.ID, in.CurrentLevel)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNoPendingApproval
			}
			return err
		}

		nextLevel := in.CurrentLevel + 1
		role, ok := RoleForLevel(app.Amount, nextLevel)
		if !ok {
			return domain.ErrCannotEscalate
		}

		_, created, err := r.Approvals.ResetOrCreatePending(ctx, app.ID, nextLevel, role)
		if err != nil {
			return err
		}

		rec.Status = domain.StatusEscalated
		rec.EscalationReason = in.Reason
		if err := r.Approvals.Save(ctx, rec); err != nil {
			return err
		}

		if err := r.Audit.Record(ctx, audit.Entry{
			ActorID:      actor.ID,
			Action:       "approval.escalated",
			ResourceType: "loan_application",
			ResourceID:   app.ID,
			Details:      fmt.Sprintf(`{"from_level":%d,"to_level":%d,"reason":%q}`, in.CurrentLevel, nextLevel, in.Reason),
		}); err != nil {
			return err
		}

		out = &EscalationResult{NextLevel: nextLevel, RequiredRole: role, Created: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkProcess applies Process to each item independently. Atomicity is
// per item: a failure is collected, not propagated, and never rolls
// back earlier items.
func (u *Usecase) BulkProcess(ctx context.Context, actor Actor, items []BulkItem) BulkResult {
	var res BulkResult
	for _, it := range items {
		dr, err := u.Process(ctx, actor, ProcessInput{
			ApplicationID:   it.ApplicationID,
			Level:           it.Level,
			Decision:        it.Decision,
			Comments:        it.Comments,
			RejectionReason: it.RejectionReason,
		})
		if err != nil {
			res.Failed++
			res.Failures = append(res.Failures, BulkItemFailure{
				ApplicationID: it.ApplicationID,
				Level:         it.Level,
				Error:         err.Error(),
			})
			continue
		}
		if dr.Record.Status == domain.StatusRejected {
			res.Rejected++
		} else {
			res.Approved++
		}
	}
	return res
}

// ListByApplication returns the full approval history of one
// application, ordered by level.
func (u *Usecase) ListByApplication(ctx context.Context, applicationID uint64) ([]RecordDTO, error) {
	records, err := u.approvalRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	out := make([]RecordDTO, 0, len(records))
	for i := range records {
		out = append(out, toRecordDTO(&records[i]))
	}
	return out, nil
}

// ListPending returns pending records whose required role equals the
// actor's role exactly. Branch-restricted roles only see their own
// branch.
func (u *Usecase) ListPending(ctx context.Context, actor Actor, f PendingFilter) ([]RecordDTO, error) {
	q := domain.PendingQuery{
		Role:           actor.Role,
		MinAmount:      f.MinAmount,
		MaxAmount:      f.MaxAmount,
		SubmittedAfter: f.SubmittedAfter,
	}
	if !actor.Role.Unrestricted() {
		branch := actor.BranchID
		q.BranchID = &branch
	}

	records, err := u.approvalRepo.ListPending(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]RecordDTO, 0, len(records))
	for i := range records {
		out = append(out, toRecordDTO(&records[i]))
	}
	return out, nil
}
