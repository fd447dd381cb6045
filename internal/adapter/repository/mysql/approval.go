package mysql

import (
	"context"
	"errors"

	approvalDomain "microloan-backend/internal/domain/approval"

	"gorm.io/gorm"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

func (r *ApprovalRepository) CreateBatch(ctx context.Context, records []*approvalDomain.Record) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *ApprovalRepository) Save(ctx context.Context, rec *approvalDomain.Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *ApprovalRepository) GetPendingByLevel(ctx context.Context, applicationID uint64, level int) (*approvalDomain.Record, error) {
	var out approvalDomain.Record
	res := r.db.WithContext(ctx).
		Where("application_id = ? AND level = ? AND status = ?",
			applicationID, level, approvalDomain.StatusPending).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ApprovalRepository) CountPendingRequired(ctx context.Context, applicationID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&approvalDomain.Record{}).
		Where("application_id = ? AND status = ? AND is_required = ?",
			applicationID, approvalDomain.StatusPending, true).
		Count(&n)
	return n, res.Error
}

func (r *ApprovalRepository) CancelPending(ctx context.Context, applicationID uint64, exceptLevel int) error {
	return r.db.WithContext(ctx).
		Model(&approvalDomain.Record{}).
		Where("application_id = ? AND status = ? AND level <> ?",
			applicationID, approvalDomain.StatusPending, exceptLevel).
		Update("status", approvalDomain.StatusCancelled).Error
}

func (r *ApprovalRepository) ResetOrCreatePending(ctx context.Context, applicationID uint64, level int, role approvalDomain.Role) (*approvalDomain.Record, bool, error) {
	var rec approvalDomain.Record
	res := r.db.WithContext(ctx).
		Where("application_id = ? AND level = ?", applicationID, level).
		First(&rec)
	switch {
	case res.Error == nil:
		rec.Status = approvalDomain.StatusPending
		rec.RequiredRole = role
		rec.IsRequired = true
		rec.ApproverID = nil
		rec.DecidedAt = nil
		if err := r.db.WithContext(ctx).Save(&rec).Error; err != nil {
			return nil, false, err
		}
		return &rec, false, nil
	case errors.Is(res.Error, gorm.ErrRecordNotFound):
		rec = approvalDomain.Record{
			ApplicationID: applicationID,
			Level:         level,
			RequiredRole:  role,
			Status:        approvalDomain.StatusPending,
			IsRequired:    true,
		}
		if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return nil, false, err
		}
		return &rec, true, nil
	default:
		return nil, false, res.Error
	}
}

func (r *ApprovalRepository) ListByApplication(ctx context.Context, applicationID uint64) ([]approvalDomain.Record, error) {
	var out []approvalDomain.Record
	res := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("level ASC").
		Find(&out)
	return out, res.Error
}

// ListPending joins loan_applications so pending work can be filtered by
// the application's branch, amount and submission time.
func (r *ApprovalRepository) ListPending(ctx context.Context, q approvalDomain.PendingQuery) ([]approvalDomain.Record, error) {
	tx := r.db.WithContext(ctx).
		Model(&approvalDomain.Record{}).
		Joins("JOIN loan_applications la ON la.id = approval_records.application_id").
		Where("approval_records.status = ?", approvalDomain.StatusPending).
		Where("approval_records.required_role = ?", q.Role).
		Where("la.deleted_at IS NULL")

	if q.BranchID != nil {
		tx = tx.Where("la.branch_id = ?", *q.BranchID)
	}
	if q.MinAmount != nil {
		tx = tx.Where("la.amount >= ?", *q.MinAmount)
	}
	if q.MaxAmount != nil {
		tx = tx.Where("la.amount <= ?", *q.MaxAmount)
	}
	if q.SubmittedAfter != nil {
		// Inclusive: an application submitted exactly at the bound matches.
		tx = tx.Where("la.submitted_at >= ?", *q.SubmittedAfter)
	}

	var out []approvalDomain.Record
	res := tx.Order("approval_records.created_at ASC, approval_records.id ASC").Find(&out)
	return out, res.Error
}
