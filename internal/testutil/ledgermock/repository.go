package ledgermock

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"natillera-backend/internal/domain/ledger"
)

// Repo is an in-memory ledger.Repository. The zero value is an empty ledger;
// set the ...Fn fields to inject failures. Missing movements answer with
// gorm.ErrRecordNotFound, matching the mysql implementation.
type Repo struct {
	mu   sync.Mutex
	rows []*ledger.Movement

	CreateFn          func(ctx context.Context, m *ledger.Movement) error
	GetByMovementIDFn func(ctx context.Context, movementID string) (*ledger.Movement, error)
	LastForUpdateFn   func(ctx context.Context) (*ledger.Movement, error)
}

func (r *Repo) Create(ctx context.Context, m *ledger.Movement) error {
	if r.CreateFn != nil {
		return r.CreateFn(ctx, m)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uint64(len(r.rows) + 1)
	r.rows = append(r.rows, m)
	return nil
}

func (r *Repo) GetByMovementID(ctx context.Context, movementID string) (*ledger.Movement, error) {
	if r.GetByMovementIDFn != nil {
		return r.GetByMovementIDFn(ctx, movementID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.MovementID == movementID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Repo) Last(ctx context.Context) (*ledger.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rows) == 0 {
		return nil, nil
	}
	return r.rows[len(r.rows)-1], nil
}

func (r *Repo) LastForUpdate(ctx context.Context) (*ledger.Movement, error) {
	if r.LastForUpdateFn != nil {
		return r.LastForUpdateFn(ctx)
	}
	return r.Last(ctx)
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]*ledger.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Movement
	for i := len(r.rows) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}

func (r *Repo) ListByReferenceID(ctx context.Context, referenceID string) ([]*ledger.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Movement
	for _, m := range r.rows {
		if m.ReferenceID != nil && *m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *Repo) TotalsByCategory(ctx context.Context) ([]ledger.CategoryTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		cat  ledger.Category
		kind ledger.Kind
	}
	sums := map[key]decimal.Decimal{}
	var order []key
	for _, m := range r.rows {
		k := key{m.Category, m.Kind}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(m.Amount)
	}
	out := make([]ledger.CategoryTotal, 0, len(order))
	for _, k := range order {
		out = append(out, ledger.CategoryTotal{Category: k.cat, Kind: k.kind, Total: sums[k]})
	}
	return out, nil
}

// Count reports how many movements were appended.
func (r *Repo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
