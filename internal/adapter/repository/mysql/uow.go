package mysql

import (
	"context"

	"gorm.io/gorm"

	"natillera-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

// Repos binds every repository to the given handle. Usecases receive this
// bundle inside WithinTx so a record write and its ledger append share one
// transaction.
func Repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Movements:       &LedgerRepository{db: tx},
		LateFees:        &LateFeeRepository{db: tx},
		LateFeePayments: &LateFeePaymentRepository{db: tx},
		Loans:           &LoanRepository{db: tx},
		LoanMovements:   &LoanMovementRepository{db: tx},
		Batches:         &LiquidationRepository{db: tx},
		Members:         &MemberRepository{db: tx},
	}
}
