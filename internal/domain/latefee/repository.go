package latefee

import (
	"context"

	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/member"
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	// GetByRecordID reports found=false for a missing record instead of an
	// error, so "no penalty exists" stays an ordinary answer.
	GetByRecordID(ctx context.Context, recordID string) (*Record, bool, error)
	GetByMemberInstallment(ctx context.Context, key member.Key, installment int) (*Record, bool, error)
	GetByRecordIDForUpdate(ctx context.Context, recordID string) (*Record, bool, error)
	Save(ctx context.Context, r *Record) error
	// ListOutstanding returns unpaid and partially paid records; key == ""
	// means all members.
	ListOutstanding(ctx context.Context, key member.Key) ([]*Record, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, e *PaymentEntry) error
	GetByEntryID(ctx context.Context, entryID string) (*PaymentEntry, bool, error)
	ListByRecordID(ctx context.Context, recordID string) ([]*PaymentEntry, error)
	Delete(ctx context.Context, entryID string) error
	// TotalCollected sums every allocation ever made, for the liquidation
	// aggregator.
	TotalCollected(ctx context.Context) (decimal.Decimal, error)
}
