package approval

import (
	"context"
	"time"
)

// PendingQuery filters the pending-approvals listing. Role matching is
// exact, not hierarchy-inclusive. A nil BranchID means no branch filter.
// SubmittedAfter is an inclusive lower bound on the submission time.
type PendingQuery struct {
	Role           Role
	BranchID       *uint64
	MinAmount      *float64
	MaxAmount      *float64
	SubmittedAfter *time.Time
}

type Repository interface {
	CreateBatch(ctx context.Context, records []*Record) error
	Save(ctx context.Context, r *Record) error
	// GetPendingByLevel returns the single pending record for
	// (application, level), or ErrNotFound.
	GetPendingByLevel(ctx context.Context, applicationID uint64, level int) (*Record, error)
	// CountPendingRequired counts still-pending required records for
	// the application.
	CountPendingRequired(ctx context.Context, applicationID uint64) (int64, error)
	// CancelPending marks every still-pending record for the
	// application as cancelled, except the given level.
	CancelPending(ctx context.Context, applicationID uint64, exceptLevel int) error
	// ResetOrCreatePending ensures a pending required record exists at
	// the level: an existing record (whatever its status) is reset to
	// pending, otherwise a new one is inserted. Reports whether a new
	// record was created.
	ResetOrCreatePending(ctx context.Context, applicationID uint64, level int, role Role) (*Record, bool, error)
	ListByApplication(ctx context.Context, applicationID uint64) ([]Record, error)
	ListPending(ctx context.Context, q PendingQuery) ([]Record, error)
}
