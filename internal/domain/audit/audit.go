package audit

import (
	"context"
	"time"
)

// Entry documents one state transition. Written inside the same
// transaction as the mutation it records.
type Entry struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	ActorID      uint64    `gorm:"not null;index:idx_audit_actor"`
	Action       string    `gorm:"size:64;not null"`
	ResourceType string    `gorm:"size:32;not null"`
	ResourceID   uint64    `gorm:"not null;index:idx_audit_resource"`
	Details      string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Entry) TableName() string { return "audit_logs" }

type Sink interface {
	Record(ctx context.Context, e Entry) error
}
