package member

import "context"

type Repository interface {
	GetByKey(ctx context.Context, key Key) (*Member, error)
	// ListByKeys preserves the order of the requested keys.
	ListByKeys(ctx context.Context, keys []Key) ([]*Member, error)
	ListByBatchID(ctx context.Context, batchID string) ([]*Member, error)
	// SumPaidInstallments totals paid installments across the whole group.
	SumPaidInstallments(ctx context.Context) (int, error)
	Save(ctx context.Context, m *Member) error
}
