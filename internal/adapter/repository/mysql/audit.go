package mysql

import (
	"context"

	auditDomain "microloan-backend/internal/domain/audit"

	"gorm.io/gorm"
)

// AuditSink appends audit entries in whatever transaction its db handle
// is bound to.
type AuditSink struct{ db *gorm.DB }

func NewAuditSink(db *gorm.DB) *AuditSink { return &AuditSink{db: db} }

func (s *AuditSink) Record(ctx context.Context, e auditDomain.Entry) error {
	return s.db.WithContext(ctx).Create(&e).Error
}
