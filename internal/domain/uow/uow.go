package uow

import (
	"context"

	"natillera-backend/internal/domain/latefee"
	"natillera-backend/internal/domain/ledger"
	"natillera-backend/internal/domain/liquidation"
	"natillera-backend/internal/domain/loan"
	"natillera-backend/internal/domain/member"
)

// Repos is the full repository bundle bound to one transaction.
type Repos struct {
	Movements       ledger.Repository
	LateFees        latefee.Repository
	LateFeePayments latefee.PaymentRepository
	Loans           loan.Repository
	LoanMovements   loan.MovementRepository
	Batches         liquidation.Repository
	Members         member.Repository
}

// UnitOfWork runs fn atomically: a record update and its dependent ledger
// append either both commit or both roll back. Every money-mutating usecase
// flow goes through WithinTx.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
