package customer

import "context"

type Lookup interface {
	GetByID(ctx context.Context, id uint64) (*Customer, error)
}

// HistoryProvider supplies the financial-history snapshot for risk
// scoring. Absence of history yields (nil, nil), never an error.
type HistoryProvider interface {
	GetFinancialHistory(ctx context.Context, customerID uint64) (*FinancialHistory, error)
}
