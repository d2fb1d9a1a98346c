package loan

import (
	"context"

	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/member"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row; callers must hold a
	// transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	ListActive(ctx context.Context) ([]*Loan, error)
	// OutstandingPrincipalByMembers sums the latest outstanding principal of
	// every active loan held by the given members.
	OutstandingPrincipalByMembers(ctx context.Context, keys []member.Key) (decimal.Decimal, error)
}

type MovementRepository interface {
	Create(ctx context.Context, m *Movement) error
	// Last returns the latest movement of a loan (highest id) or (nil, nil)
	// when none exist yet.
	Last(ctx context.Context, loanID string) (*Movement, error)
	ListByLoanID(ctx context.Context, loanID string) ([]*Movement, error)
	// TotalInterestCollected sums the interest portion of paying movements,
	// for the liquidation aggregator.
	TotalInterestCollected(ctx context.Context) (decimal.Decimal, error)
}
