package risk

import "context"

type Repository interface {
	Create(ctx context.Context, a *Assessment) error
	// GetLatestByApplication returns the most recent assessment for the
	// application, or ErrNotFound.
	GetLatestByApplication(ctx context.Context, applicationID uint64) (*Assessment, error)
}
