package latefee

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"natillera-backend/internal/config"
	"natillera-backend/internal/domain/errs"
	"natillera-backend/internal/domain/latefee"
	"natillera-backend/internal/domain/ledger"
	"natillera-backend/internal/domain/member"
	"natillera-backend/internal/domain/uow"
	ledgeruc "natillera-backend/internal/usecase/ledger"
	"natillera-backend/pkg/id"
)

type Usecase struct {
	repo     latefee.Repository
	payments latefee.PaymentRepository
	uow      uow.UnitOfWork
	engine   config.Engine
}

func NewUsecase(r latefee.Repository, p latefee.PaymentRepository, tx uow.UnitOfWork, e config.Engine) *Usecase {
	return &Usecase{repo: r, payments: p, uow: tx, engine: e}
}

type Penalty struct {
	DaysLate      int
	TotalSanction decimal.Decimal
}

// ComputePenalty clamps the whole days between due date and payment date to
// [0, maxDays] and prices them at dailyRate. Paying on or before the due
// date yields a zero penalty.
func ComputePenalty(dueDate, paymentDate time.Time, dailyRate decimal.Decimal, maxDays int) Penalty {
	days := wholeDaysBetween(dueDate, paymentDate)
	if days < 0 {
		days = 0
	}
	if days > maxDays {
		days = maxDays
	}
	return Penalty{
		DaysLate:      days,
		TotalSanction: dailyRate.Mul(decimal.NewFromInt(int64(days))).Round(2),
	}
}

type AssessInput struct {
	MemberKey         member.Key
	InstallmentNumber int
	DueDate           time.Time
	PaymentDate       time.Time
}

// Assess creates the penalty record for a late installment. No record is
// created when the payment was on time, or when due and payment dates fall
// in different due periods (calendar months) — cross-period lateness does
// not sanction. The bool reports whether a record now exists.
func (u *Usecase) Assess(ctx context.Context, in AssessInput) (*latefee.Record, bool, error) {
	if in.MemberKey == "" {
		return nil, false, errs.Validation("member key is required")
	}
	if in.InstallmentNumber <= 0 {
		return nil, false, errs.Validation("installment number must be positive, got %d", in.InstallmentNumber)
	}

	due, paid := dateOnly(in.DueDate), dateOnly(in.PaymentDate)
	if !samePeriod(due, paid) {
		return nil, false, nil
	}
	p := ComputePenalty(due, paid, u.engine.DailyLateFeeRate, u.engine.MaxLateFeeDays)
	if p.DaysLate == 0 {
		return nil, false, nil
	}

	var out *latefee.Record
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, found, err := r.LateFees.GetByMemberInstallment(ctx, in.MemberKey, in.InstallmentNumber)
		if err != nil {
			return errs.Store("lookup late-fee record", err)
		}
		if found {
			return errs.Consistency("late fee for member %s installment %d already assessed",
				in.MemberKey, in.InstallmentNumber)
		}
		rec := &latefee.Record{
			RecordID:          id.NewID32(),
			MemberKey:         in.MemberKey,
			InstallmentNumber: in.InstallmentNumber,
			DailyRate:         u.engine.DailyLateFeeRate,
			DaysLate:          p.DaysLate,
			TotalSanction:     p.TotalSanction,
			AmountPaid:        decimal.Zero,
			Remaining:         p.TotalSanction,
			Status:            latefee.StatusPending,
		}
		if err := r.LateFees.Create(ctx, rec); err != nil {
			return errs.Store("create late-fee record", err)
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

type AllocationResult struct {
	Record   *latefee.Record
	Entry    *latefee.PaymentEntry
	Movement *ledger.Movement
}

// AllocatePayment applies amount against the record's remaining sanction,
// appends the payment entry and the INCOME ledger movement in one
// transaction. A ledger failure aborts the allocation entirely.
func (u *Usecase) AllocatePayment(ctx context.Context, recordID string, amount decimal.Decimal, date time.Time) (*AllocationResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errs.Validation("payment amount must be positive, got %s", amount)
	}

	var out AllocationResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rec, found, err := r.LateFees.GetByRecordIDForUpdate(ctx, recordID)
		if err != nil {
			return errs.Store("lookup late-fee record", err)
		}
		if !found {
			return errs.NotFound("late-fee record %s", recordID)
		}
		if rec.Status == latefee.StatusPaid {
			return errs.Consistency("late fee %s is already fully paid", recordID)
		}

		amount = amount.Round(2)
		paymentType := latefee.PaymentPartial
		if amount.GreaterThanOrEqual(rec.Remaining) {
			paymentType = latefee.PaymentFull
		}

		when := dateOnly(date)
		rec.AmountPaid = rec.AmountPaid.Add(amount)
		rec.Remaining = remainingOf(rec.TotalSanction, rec.AmountPaid)
		rec.LastPaymentDate = &when
		if rec.Remaining.IsZero() {
			rec.Status = latefee.StatusPaid
		} else {
			rec.Status = latefee.StatusPartiallyPaid
		}
		if err := r.LateFees.Save(ctx, rec); err != nil {
			return errs.Store("save late-fee record", err)
		}

		entry := &latefee.PaymentEntry{
			EntryID:     id.NewID32(),
			RecordID:    rec.RecordID,
			PaymentDate: when,
			Amount:      amount,
			PaymentType: paymentType,
		}
		if err := r.LateFeePayments.Create(ctx, entry); err != nil {
			return errs.Store("create late-fee payment entry", err)
		}

		ref := entry.EntryID
		m, err := ledgeruc.Append(ctx, r.Movements, ledgeruc.AppendParams{
			Kind:     ledger.KindIncome,
			Category: ledger.CategoryLateFee,
			Concept: fmt.Sprintf("late fee payment, member %s installment %d",
				rec.MemberKey, rec.InstallmentNumber),
			Amount:      amount,
			Date:        when,
			ReferenceID: &ref,
		})
		if err != nil {
			return err
		}

		out = AllocationResult{Record: rec, Entry: entry, Movement: m}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ReversePayment compensates one allocation: the record totals roll back,
// the entry is deleted and an EXPENSE movement of the same amount hits the
// ledger. The underlying installment's paid status is untouched.
func (u *Usecase) ReversePayment(ctx context.Context, entryID string) (*AllocationResult, error) {
	var out AllocationResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		entry, found, err := r.LateFeePayments.GetByEntryID(ctx, entryID)
		if err != nil {
			return errs.Store("lookup late-fee payment entry", err)
		}
		if !found {
			return errs.NotFound("late-fee payment entry %s", entryID)
		}
		rec, found, err := r.LateFees.GetByRecordIDForUpdate(ctx, entry.RecordID)
		if err != nil {
			return errs.Store("lookup late-fee record", err)
		}
		if !found {
			return errs.NotFound("late-fee record %s", entry.RecordID)
		}

		rec.AmountPaid = rec.AmountPaid.Sub(entry.Amount)
		if rec.AmountPaid.IsNegative() {
			rec.AmountPaid = decimal.Zero
		}
		rec.Remaining = remainingOf(rec.TotalSanction, rec.AmountPaid)
		switch {
		case rec.AmountPaid.IsZero():
			rec.Status = latefee.StatusPending
		case rec.Remaining.IsZero():
			rec.Status = latefee.StatusPaid
		default:
			rec.Status = latefee.StatusPartiallyPaid
		}
		if err := r.LateFees.Save(ctx, rec); err != nil {
			return errs.Store("save late-fee record", err)
		}
		if err := r.LateFeePayments.Delete(ctx, entry.EntryID); err != nil {
			return errs.Store("delete late-fee payment entry", err)
		}

		ref := entry.EntryID
		m, err := ledgeruc.Append(ctx, r.Movements, ledgeruc.AppendParams{
			Kind:     ledger.KindExpense,
			Category: ledger.CategoryLateFee,
			Concept: fmt.Sprintf("late fee payment reversal, member %s installment %d",
				rec.MemberKey, rec.InstallmentNumber),
			Amount:      entry.Amount,
			Date:        time.Now().UTC(),
			ReferenceID: &ref,
		})
		if err != nil {
			return err
		}

		out = AllocationResult{Record: rec, Entry: entry, Movement: m}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Outstanding lists unpaid and partially paid records, optionally for one
// member.
func (u *Usecase) Outstanding(ctx context.Context, key member.Key) ([]*latefee.Record, error) {
	out, err := u.repo.ListOutstanding(ctx, key)
	if err != nil {
		return nil, errs.Store("list outstanding late fees", err)
	}
	return out, nil
}

func remainingOf(total, paid decimal.Decimal) decimal.Decimal {
	rem := total.Sub(paid)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// samePeriod: a due period is the calendar month of the due date.
func samePeriod(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func wholeDaysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
