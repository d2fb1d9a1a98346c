package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	latefeeDomain "natillera-backend/internal/domain/latefee"
	"natillera-backend/internal/domain/member"
)

type LateFeeRepository struct{ db *gorm.DB }

func NewLateFeeRepository(db *gorm.DB) *LateFeeRepository { return &LateFeeRepository{db: db} }

func (r *LateFeeRepository) Create(ctx context.Context, rec *latefeeDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *LateFeeRepository) GetByRecordID(ctx context.Context, recordID string) (*latefeeDomain.Record, bool, error) {
	return r.getOne(ctx, r.db, "record_id = ?", recordID)
}

func (r *LateFeeRepository) GetByRecordIDForUpdate(ctx context.Context, recordID string) (*latefeeDomain.Record, bool, error) {
	return r.getOne(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "record_id = ?", recordID)
}

func (r *LateFeeRepository) GetByMemberInstallment(ctx context.Context, key member.Key, installment int) (*latefeeDomain.Record, bool, error) {
	return r.getOne(ctx, r.db, "member_key = ? AND installment_number = ?", key, installment)
}

// getOne maps "no row" to found=false: the NONE state of a penalty is the
// absence of a record, and callers should not have to compare against
// gorm.ErrRecordNotFound to learn that.
func (r *LateFeeRepository) getOne(ctx context.Context, tx *gorm.DB, query string, args ...any) (*latefeeDomain.Record, bool, error) {
	var out latefeeDomain.Record
	res := tx.WithContext(ctx).Where(query, args...).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &out, true, nil
}

func (r *LateFeeRepository) Save(ctx context.Context, rec *latefeeDomain.Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *LateFeeRepository) ListOutstanding(ctx context.Context, key member.Key) ([]*latefeeDomain.Record, error) {
	q := r.db.WithContext(ctx).Where("status <> ?", latefeeDomain.StatusPaid)
	if key != "" {
		q = q.Where("member_key = ?", key)
	}
	var out []*latefeeDomain.Record
	res := q.Order("member_key, installment_number").Find(&out)
	return out, res.Error
}

type LateFeePaymentRepository struct{ db *gorm.DB }

func NewLateFeePaymentRepository(db *gorm.DB) *LateFeePaymentRepository {
	return &LateFeePaymentRepository{db: db}
}

func (r *LateFeePaymentRepository) Create(ctx context.Context, e *latefeeDomain.PaymentEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LateFeePaymentRepository) GetByEntryID(ctx context.Context, entryID string) (*latefeeDomain.PaymentEntry, bool, error) {
	var out latefeeDomain.PaymentEntry
	res := r.db.WithContext(ctx).Where("entry_id = ?", entryID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &out, true, nil
}

func (r *LateFeePaymentRepository) ListByRecordID(ctx context.Context, recordID string) ([]*latefeeDomain.PaymentEntry, error) {
	var out []*latefeeDomain.PaymentEntry
	res := r.db.WithContext(ctx).Where("record_id = ?", recordID).Order("id").Find(&out)
	return out, res.Error
}

func (r *LateFeePaymentRepository) Delete(ctx context.Context, entryID string) error {
	return r.db.WithContext(ctx).Where("entry_id = ?", entryID).Delete(&latefeeDomain.PaymentEntry{}).Error
}

func (r *LateFeePaymentRepository) TotalCollected(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	res := r.db.WithContext(ctx).
		Model(&latefeeDomain.PaymentEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
