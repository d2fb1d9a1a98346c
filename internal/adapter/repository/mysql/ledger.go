package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ledgerDomain "natillera-backend/internal/domain/ledger"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Create(ctx context.Context, m *ledgerDomain.Movement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *LedgerRepository) GetByMovementID(ctx context.Context, movementID string) (*ledgerDomain.Movement, error) {
	var out ledgerDomain.Movement
	res := r.db.WithContext(ctx).Where("movement_id = ?", movementID).First(&out)
	return &out, res.Error
}

func (r *LedgerRepository) Last(ctx context.Context) (*ledgerDomain.Movement, error) {
	return r.last(ctx, r.db)
}

// LastForUpdate locks the tail row so the balance read and the dependent
// insert serialize against concurrent appenders. Only meaningful inside a
// transaction.
func (r *LedgerRepository) LastForUpdate(ctx context.Context) (*ledgerDomain.Movement, error) {
	return r.last(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}))
}

func (r *LedgerRepository) last(ctx context.Context, tx *gorm.DB) (*ledgerDomain.Movement, error) {
	var out ledgerDomain.Movement
	res := tx.WithContext(ctx).Order("id DESC").First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		// empty ledger is an ordinary state, not an error
		return nil, nil
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *LedgerRepository) List(ctx context.Context, limit, offset int) ([]*ledgerDomain.Movement, error) {
	var out []*ledgerDomain.Movement
	res := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Offset(offset).Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) ListByReferenceID(ctx context.Context, referenceID string) ([]*ledgerDomain.Movement, error) {
	var out []*ledgerDomain.Movement
	res := r.db.WithContext(ctx).Where("reference_id = ?", referenceID).Order("id").Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) TotalsByCategory(ctx context.Context) ([]ledgerDomain.CategoryTotal, error) {
	var out []ledgerDomain.CategoryTotal
	res := r.db.WithContext(ctx).
		Model(&ledgerDomain.Movement{}).
		Select("category, kind, COALESCE(SUM(amount), 0) AS total").
		Group("category").Group("kind").
		Scan(&out)
	return out, res.Error
}
