package liquidation

import "context"

type Repository interface {
	Create(ctx context.Context, b *Batch) error
	GetByBatchID(ctx context.Context, batchID string) (*Batch, bool, error)
	Delete(ctx context.Context, batchID string) error
}
