package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one row of a grouped sum over movements.
type CategoryTotal struct {
	Category Category
	Kind     Kind
	Total    decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, m *Movement) error
	GetByMovementID(ctx context.Context, movementID string) (*Movement, error)
	// Last returns the most recently appended movement (highest id) or
	// (nil, nil) for an empty ledger.
	Last(ctx context.Context) (*Movement, error)
	// LastForUpdate is Last with the tail row locked; callers must hold a
	// transaction. Append relies on it to serialize the read-then-write
	// balance computation.
	LastForUpdate(ctx context.Context) (*Movement, error)
	// List returns movements newest first.
	List(ctx context.Context, limit, offset int) ([]*Movement, error)
	ListByReferenceID(ctx context.Context, referenceID string) ([]*Movement, error)
	// TotalsByCategory sums amounts grouped by (category, kind).
	TotalsByCategory(ctx context.Context) ([]CategoryTotal, error)
}
