package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "natillera-backend/internal/domain/loan"
	"natillera-backend/internal/domain/member"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListActive(ctx context.Context) ([]*loanDomain.Loan, error) {
	var out []*loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status = ?", loanDomain.StatusActive).
		Order("start_date, id").
		Find(&out)
	return out, res.Error
}

// OutstandingPrincipalByMembers sums, per active loan of the given members,
// the outstanding principal of its latest movement row.
func (r *LoanRepository) OutstandingPrincipalByMembers(ctx context.Context, keys []member.Key) (decimal.Decimal, error) {
	if len(keys) == 0 {
		return decimal.Zero, nil
	}
	var total decimal.NullDecimal
	res := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(lm.outstanding_principal), 0)
		FROM loans l
		JOIN loan_movements lm ON lm.loan_id = l.loan_id
		  AND lm.id = (SELECT MAX(id) FROM loan_movements WHERE loan_id = l.loan_id)
		WHERE l.status = ? AND l.member_key IN ?`,
		loanDomain.StatusActive, keys,
	).Scan(&total)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

type LoanMovementRepository struct{ db *gorm.DB }

func NewLoanMovementRepository(db *gorm.DB) *LoanMovementRepository {
	return &LoanMovementRepository{db: db}
}

func (r *LoanMovementRepository) Create(ctx context.Context, m *loanDomain.Movement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *LoanMovementRepository) Last(ctx context.Context, loanID string) (*loanDomain.Movement, error) {
	var out loanDomain.Movement
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *LoanMovementRepository) ListByLoanID(ctx context.Context, loanID string) ([]*loanDomain.Movement, error) {
	var out []*loanDomain.Movement
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("id").Find(&out)
	return out, res.Error
}

// TotalInterestCollected is the interest portion of cash actually received:
// amount_paid minus principal_paid over the paying rows. Interest a
// NO_PAYMENT row carried forward is counted once a later payment collects it.
func (r *LoanMovementRepository) TotalInterestCollected(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Movement{}).
		Select("COALESCE(SUM(amount_paid - principal_paid), 0)").
		Where("movement_type IN ?", []loanDomain.MovementType{
			loanDomain.TypeInterestPayment,
			loanDomain.TypePrincipalPayment,
			loanDomain.TypeFullPayment,
		}).
		Scan(&total)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
