package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"natillera-backend/internal/domain/errs"
	"natillera-backend/internal/domain/ledger"
	"natillera-backend/internal/domain/loan"
	"natillera-backend/internal/domain/member"
	"natillera-backend/internal/domain/uow"
	ledgeruc "natillera-backend/internal/usecase/ledger"
	"natillera-backend/pkg/id"
)

var thirty = decimal.NewFromInt(30)

type Usecase struct {
	loans     loan.Repository
	movements loan.MovementRepository
	uow       uow.UnitOfWork
}

func NewUsecase(l loan.Repository, m loan.MovementRepository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: l, movements: m, uow: tx}
}

type CreateInput struct {
	BorrowerName       string
	MemberKey          *member.Key
	Principal          decimal.Decimal
	MonthlyRatePercent decimal.Decimal
	StartDate          time.Time
}

// Create opens the loan and records its DISBURSEMENT movement plus the
// EXPENSE ledger movement (cash leaving the fund) in one transaction.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*loan.Loan, error) {
	if in.BorrowerName == "" {
		return nil, errs.Validation("borrower name is required")
	}
	if in.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, errs.Validation("principal must be positive, got %s", in.Principal)
	}
	if in.MonthlyRatePercent.IsNegative() {
		return nil, errs.Validation("monthly rate must not be negative, got %s", in.MonthlyRatePercent)
	}

	var out *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l := &loan.Loan{
			LoanID:             id.NewID32(),
			BorrowerName:       in.BorrowerName,
			MemberKey:          in.MemberKey,
			Principal:          in.Principal.Round(2),
			MonthlyRatePercent: in.MonthlyRatePercent,
			StartDate:          dateOnly(in.StartDate),
			Status:             loan.StatusActive,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return errs.Store("create loan", err)
		}

		m := &loan.Movement{
			LoanMovementID:       id.NewID32(),
			LoanID:               l.LoanID,
			MovementDate:         l.StartDate,
			MovementType:         loan.TypeDisbursement,
			AmountPaid:           decimal.Zero,
			InterestAccrued:      decimal.Zero,
			PrincipalPaid:        decimal.Zero,
			OutstandingPrincipal: l.Principal,
			TotalOutstanding:     l.Principal,
		}
		if err := r.LoanMovements.Create(ctx, m); err != nil {
			return errs.Store("create loan movement", err)
		}

		ref := m.LoanMovementID
		if _, err := ledgeruc.Append(ctx, r.Movements, ledgeruc.AppendParams{
			Kind:        ledger.KindExpense,
			Category:    ledger.CategoryLoanPrincipal,
			Concept:     "loan disbursement to " + l.BorrowerName,
			Amount:      l.Principal,
			Date:        l.StartDate,
			ReferenceID: &ref,
		}); err != nil {
			return err
		}

		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type ApplyInput struct {
	LoanID       string
	Date         time.Time
	MovementType loan.MovementType
	AmountPaid   decimal.Decimal
}

// AccrueAndApply accrues daily simple interest from the previous movement
// and applies the payment according to its type, persisting the loan
// movement and the INCOME ledger movement atomically. NO_PAYMENT rows accrue
// interest into the carried total and touch no cash.
func (u *Usecase) AccrueAndApply(ctx context.Context, in ApplyInput) (*loan.Movement, error) {
	if in.AmountPaid.IsNegative() {
		return nil, errs.Validation("amount paid must not be negative, got %s", in.AmountPaid)
	}

	var out *loan.Movement
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, in.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("loan %s", in.LoanID)
			}
			return errs.Store("lookup loan", err)
		}
		if l.Status == loan.StatusPaid {
			return errs.Consistency("loan %s is already paid off", l.LoanID)
		}

		prev, err := r.LoanMovements.Last(ctx, l.LoanID)
		if err != nil {
			return errs.Store("read last loan movement", err)
		}
		if prev == nil {
			return errs.Consistency("loan %s has no disbursement movement", l.LoanID)
		}

		when := dateOnly(in.Date)
		days := wholeDaysBetween(prev.MovementDate, when)
		if days < 0 {
			return errs.Validation("movement date %s precedes last movement %s",
				when.Format("2006-01-02"), prev.MovementDate.Format("2006-01-02"))
		}

		interest := accrue(prev.OutstandingPrincipal, l.MonthlyRatePercent, days)
		carried := prev.TotalOutstanding.Sub(prev.OutstandingPrincipal)
		interestDue := carried.Add(interest)

		m := &loan.Movement{
			LoanMovementID:  id.NewID32(),
			LoanID:          l.LoanID,
			MovementDate:    when,
			MovementType:    in.MovementType,
			InterestAccrued: interest,
		}
		amountPaid := in.AmountPaid.Round(2)

		switch in.MovementType {
		case loan.TypeInterestPayment:
			if amountPaid.LessThanOrEqual(decimal.Zero) {
				return errs.Validation("interest payment requires a positive amount")
			}
			m.AmountPaid = amountPaid
			m.PrincipalPaid = decimal.Zero
			m.OutstandingPrincipal = prev.OutstandingPrincipal
			unpaid := interestDue.Sub(amountPaid)
			if unpaid.IsNegative() {
				unpaid = decimal.Zero
			}
			m.TotalOutstanding = m.OutstandingPrincipal.Add(unpaid)

		case loan.TypePrincipalPayment:
			if amountPaid.LessThan(interestDue) {
				return errs.Validation("amount %s does not cover accrued interest %s; a partial interest payment is not a principal payment",
					amountPaid, interestDue)
			}
			principalPaid := amountPaid.Sub(interestDue)
			if principalPaid.GreaterThan(prev.OutstandingPrincipal) {
				return errs.Consistency("principal payment %s exceeds outstanding principal %s",
					principalPaid, prev.OutstandingPrincipal)
			}
			m.AmountPaid = amountPaid
			m.PrincipalPaid = principalPaid
			m.OutstandingPrincipal = prev.OutstandingPrincipal.Sub(principalPaid)
			m.TotalOutstanding = m.OutstandingPrincipal

		case loan.TypeNoPayment:
			if !amountPaid.IsZero() {
				return errs.Validation("a NO_PAYMENT movement cannot carry an amount")
			}
			m.AmountPaid = decimal.Zero
			m.PrincipalPaid = decimal.Zero
			m.OutstandingPrincipal = prev.OutstandingPrincipal
			m.TotalOutstanding = m.OutstandingPrincipal.Add(interestDue)

		case loan.TypeFullPayment:
			required := interestDue.Add(prev.OutstandingPrincipal)
			if !amountPaid.IsZero() && !amountPaid.Equal(required) {
				return errs.Validation("full payment must settle %s, got %s", required, amountPaid)
			}
			m.AmountPaid = required
			m.PrincipalPaid = prev.OutstandingPrincipal
			m.OutstandingPrincipal = decimal.Zero
			m.TotalOutstanding = decimal.Zero
			l.Status = loan.StatusPaid
			if err := r.Loans.Save(ctx, l); err != nil {
				return errs.Store("save loan", err)
			}

		default:
			return errs.Validation("unknown loan movement type %q", in.MovementType)
		}

		if err := r.LoanMovements.Create(ctx, m); err != nil {
			return errs.Store("create loan movement", err)
		}

		// NO_PAYMENT moves no cash; everything else is one INCOME movement.
		if in.MovementType != loan.TypeNoPayment {
			category := ledger.CategoryLoanPrincipal
			if m.AmountPaid.GreaterThan(m.PrincipalPaid) {
				category = ledger.CategoryLoanInterest
			}
			ref := m.LoanMovementID
			if _, err := ledgeruc.Append(ctx, r.Movements, ledgeruc.AppendParams{
				Kind:     ledger.KindIncome,
				Category: category,
				Concept: fmt.Sprintf("loan payment from %s (%s)",
					l.BorrowerName, in.MovementType),
				Amount:      m.AmountPaid,
				Date:        when,
				ReferenceID: &ref,
			}); err != nil {
				return err
			}
		}

		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Projection derives the would-be movement from the last real movement to
// asOf without persisting anything. Only meaningful on an active loan.
func (u *Usecase) Projection(ctx context.Context, loanID string, asOf time.Time) (*loan.Movement, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("loan %s", loanID)
		}
		return nil, errs.Store("lookup loan", err)
	}
	if l.Status != loan.StatusActive {
		return nil, nil
	}
	prev, err := u.movements.Last(ctx, loanID)
	if err != nil {
		return nil, errs.Store("read last loan movement", err)
	}
	if prev == nil {
		return nil, nil
	}
	when := dateOnly(asOf)
	days := wholeDaysBetween(prev.MovementDate, when)
	if days <= 0 {
		return nil, nil
	}
	interest := accrue(prev.OutstandingPrincipal, l.MonthlyRatePercent, days)
	return &loan.Movement{
		LoanID:               l.LoanID,
		MovementDate:         when,
		MovementType:         loan.TypeNoPayment,
		InterestAccrued:      interest,
		OutstandingPrincipal: prev.OutstandingPrincipal,
		TotalOutstanding:     prev.TotalOutstanding.Add(interest),
		Projection:           true,
	}, nil
}

// Extract is the loan's full amortization history, oldest first, with the
// projection row appended when asOf is set and interest has accrued since
// the last movement.
func (u *Usecase) Extract(ctx context.Context, loanID string, asOf *time.Time) ([]*loan.Movement, error) {
	if _, err := u.loans.GetByLoanID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("loan %s", loanID)
		}
		return nil, errs.Store("lookup loan", err)
	}
	rows, err := u.movements.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, errs.Store("list loan movements", err)
	}
	if asOf != nil {
		proj, err := u.Projection(ctx, loanID, *asOf)
		if err != nil {
			return nil, err
		}
		if proj != nil {
			rows = append(rows, proj)
		}
	}
	return rows, nil
}

// accrue: outstanding × rate/100/30 × days, i.e. daily simple interest at a
// monthly rate over a 30-day month.
func accrue(outstanding, monthlyRatePercent decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return outstanding.
		Mul(monthlyRatePercent).
		Div(decimal.NewFromInt(100)).
		Div(thirty).
		Mul(decimal.NewFromInt(int64(days))).
		Round(2)
}

func wholeDaysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
