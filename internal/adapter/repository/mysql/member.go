package mysql

import (
	"context"

	"gorm.io/gorm"

	memberDomain "natillera-backend/internal/domain/member"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) GetByKey(ctx context.Context, key memberDomain.Key) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).Where("member_key = ?", key).First(&out)
	return &out, res.Error
}

func (r *MemberRepository) ListByKeys(ctx context.Context, keys []memberDomain.Key) ([]*memberDomain.Member, error) {
	var rows []*memberDomain.Member
	res := r.db.WithContext(ctx).Where("member_key IN ?", keys).Find(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	// preserve request order
	byKey := make(map[memberDomain.Key]*memberDomain.Member, len(rows))
	for _, m := range rows {
		byKey[m.MemberKey] = m
	}
	out := make([]*memberDomain.Member, 0, len(keys))
	for _, k := range keys {
		if m, ok := byKey[k]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemberRepository) ListByBatchID(ctx context.Context, batchID string) ([]*memberDomain.Member, error) {
	var out []*memberDomain.Member
	res := r.db.WithContext(ctx).Where("batch_id = ?", batchID).Find(&out)
	return out, res.Error
}

func (r *MemberRepository) SumPaidInstallments(ctx context.Context) (int, error) {
	var total *int64
	res := r.db.WithContext(ctx).
		Model(&memberDomain.Member{}).
		Select("COALESCE(SUM(paid_installments), 0)").
		Scan(&total)
	if res.Error != nil {
		return 0, res.Error
	}
	if total == nil {
		return 0, nil
	}
	return int(*total), nil
}

func (r *MemberRepository) Save(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}
