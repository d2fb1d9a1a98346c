package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	liqDomain "natillera-backend/internal/domain/liquidation"
)

type LiquidationRepository struct{ db *gorm.DB }

func NewLiquidationRepository(db *gorm.DB) *LiquidationRepository {
	return &LiquidationRepository{db: db}
}

func (r *LiquidationRepository) Create(ctx context.Context, b *liqDomain.Batch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *LiquidationRepository) GetByBatchID(ctx context.Context, batchID string) (*liqDomain.Batch, bool, error) {
	var out liqDomain.Batch
	res := r.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &out, true, nil
}

func (r *LiquidationRepository) Delete(ctx context.Context, batchID string) error {
	return r.db.WithContext(ctx).Where("batch_id = ?", batchID).Delete(&liqDomain.Batch{}).Error
}
