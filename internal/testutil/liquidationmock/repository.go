package liquidationmock

import (
	"context"
	"sync"

	"natillera-backend/internal/domain/liquidation"
)

// Repo is an in-memory liquidation.Repository.
type Repo struct {
	mu      sync.Mutex
	batches map[string]*liquidation.Batch

	CreateFn func(ctx context.Context, b *liquidation.Batch) error
}

func (m *Repo) init() {
	if m.batches == nil {
		m.batches = map[string]*liquidation.Batch{}
	}
}

func (m *Repo) Create(ctx context.Context, b *liquidation.Batch) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	b.ID = uint64(len(m.batches) + 1)
	m.batches[b.BatchID] = b
	return nil
}

func (m *Repo) GetByBatchID(ctx context.Context, batchID string) (*liquidation.Batch, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	b, ok := m.batches[batchID]
	return b, ok, nil
}

func (m *Repo) Delete(ctx context.Context, batchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	delete(m.batches, batchID)
	return nil
}

// Count reports how many batches exist.
func (m *Repo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}
