package mysql

import (
	"context"

	riskDomain "microloan-backend/internal/domain/risk"

	"gorm.io/gorm"
)

type RiskRepository struct{ db *gorm.DB }

func NewRiskRepository(db *gorm.DB) *RiskRepository { return &RiskRepository{db: db} }

func (r *RiskRepository) Create(ctx context.Context, a *riskDomain.Assessment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *RiskRepository) GetLatestByApplication(ctx context.Context, applicationID uint64) (*riskDomain.Assessment, error) {
	var out riskDomain.Assessment
	res := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}
