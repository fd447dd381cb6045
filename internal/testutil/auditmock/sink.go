package auditmock

import (
	"context"
	"sync"

	"microloan-backend/internal/domain/audit"
)

// Sink is a recording mock that satisfies audit.Sink. Entries are kept
// in order for assertions.
type Sink struct {
	mu       sync.Mutex
	RecordFn func(ctx context.Context, e audit.Entry) error
	Entries  []audit.Entry
}

func (m *Sink) Record(ctx context.Context, e audit.Entry) error {
	if m.RecordFn != nil {
		return m.RecordFn(ctx, e)
	}
	m.mu.Lock()
	m.Entries = append(m.Entries, e)
	m.mu.Unlock()
	return nil
}

// Actions returns the recorded action names in order.
func (m *Sink) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Action
	}
	return out
}
