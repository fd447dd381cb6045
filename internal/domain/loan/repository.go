package loan

import "context"

type Repository interface {
	Create(ctx context.Context, a *Application) error
	Save(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id uint64) (*Application, error)
	// GetByIDForUpdate locks the application row for the remainder of
	// the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Application, error)
	GetByCode(ctx context.Context, code string) (*Application, error)
	// NextSequence returns the next value for application code generation.
	NextSequence(ctx context.Context) (uint64, error)

	// ReplaceSchedule deletes any existing schedule for the application
	// and inserts the given entries. Never a partial patch.
	ReplaceSchedule(ctx context.Context, applicationID uint64, entries []ScheduleEntry) error
	ListSchedule(ctx context.Context, applicationID uint64) ([]ScheduleEntry, error)

	GetProduct(ctx context.Context, id uint64) (*Product, error)
}
