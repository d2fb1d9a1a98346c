package liquidation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"natillera-backend/internal/config"
	"natillera-backend/internal/domain/errs"
	"natillera-backend/internal/domain/ledger"
	"natillera-backend/internal/domain/liquidation"
	"natillera-backend/internal/domain/member"
	"natillera-backend/internal/domain/uow"
	ledgeruc "natillera-backend/internal/usecase/ledger"
	"natillera-backend/pkg/id"
)

var hundred = decimal.NewFromInt(100)

type Usecase struct {
	uow    uow.UnitOfWork
	engine config.Engine
}

func NewUsecase(tx uow.UnitOfWork, e config.Engine) *Usecase {
	return &Usecase{uow: tx, engine: e}
}

// MemberLine is one selected member's slice of the preview.
type MemberLine struct {
	MemberKey        member.Key      `json:"member_key"`
	Name             string          `json:"name"`
	PaidInstallments int             `json:"paid_installments"`
	DuesTotal        decimal.Decimal `json:"dues_total"`
	HasUnpaidDues    bool            `json:"has_unpaid_dues"`
}

// Preview is the settlement computation for a set of members. Building it
// reads every aggregate and writes nothing; Commit persists exactly these
// numbers.
type Preview struct {
	MemberKeys               []member.Key    `json:"member_keys"`
	Members                  []MemberLine    `json:"members"`
	DuesTotal                decimal.Decimal `json:"dues_total"`
	MembershipFeesTotal      decimal.Decimal `json:"membership_fees_total"`
	GroupProfit              decimal.Decimal `json:"group_profit"`
	ProfitShare              decimal.Decimal `json:"profit_share"`
	AdministrationPct        decimal.Decimal `json:"administration_percent"`
	AdministrationCommission decimal.Decimal `json:"administration_commission"`
	Subtotal                 decimal.Decimal `json:"subtotal"`
	DisbursementTax          decimal.Decimal `json:"disbursement_tax"`
	Deductions               decimal.Decimal `json:"deductions"`
	NetPayable               decimal.Decimal `json:"net_payable"`
}

// ComputeSettlement aggregates the selected members' dues, their pro-rata
// slice of the group profit (late fees + loan interest + activity income +
// investment gains − operating expenses − operational bank tax) and the
// deductions (their outstanding loan principal), then derives commission,
// disbursement tax and net payable. Read-only and idempotent.
func (u *Usecase) ComputeSettlement(ctx context.Context, keys []member.Key, adminPct *decimal.Decimal) (*Preview, error) {
	var out *Preview
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := u.compute(ctx, r, keys, adminPct)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) compute(ctx context.Context, r uow.Repos, keys []member.Key, adminPct *decimal.Decimal) (*Preview, error) {
	if len(keys) == 0 {
		return nil, errs.Validation("at least one member key is required")
	}
	pct := u.engine.AdministrationPct
	if adminPct != nil {
		pct = *adminPct
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return nil, errs.Validation("administration percent must be between 0 and 100, got %s", pct)
	}

	members, err := r.Members.ListByKeys(ctx, keys)
	if err != nil {
		return nil, errs.Store("list members", err)
	}
	if len(members) != len(keys) {
		seen := make(map[member.Key]bool, len(members))
		for _, m := range members {
			seen[m.MemberKey] = true
		}
		for _, k := range keys {
			if !seen[k] {
				return nil, errs.NotFound("member %s", k)
			}
		}
	}

	lines := make([]MemberLine, 0, len(members))
	duesTotal := decimal.Zero
	selectedInstallments := 0
	for _, m := range members {
		if m.Settlement == member.SettlementSettled {
			return nil, errs.Consistency("member %s is already settled", m.MemberKey)
		}
		dues := u.engine.InstallmentValue.Mul(decimal.NewFromInt(int64(m.PaidInstallments)))
		lines = append(lines, MemberLine{
			MemberKey:        m.MemberKey,
			Name:             m.Name,
			PaidInstallments: m.PaidInstallments,
			DuesTotal:        dues,
			HasUnpaidDues:    m.HasUnpaidDues,
		})
		duesTotal = duesTotal.Add(dues)
		selectedInstallments += m.PaidInstallments
	}

	lateFees, err := r.LateFeePayments.TotalCollected(ctx)
	if err != nil {
		return nil, errs.Store("total late fees collected", err)
	}
	loanInterest, err := r.LoanMovements.TotalInterestCollected(ctx)
	if err != nil {
		return nil, errs.Store("total loan interest collected", err)
	}
	totals, err := r.Movements.TotalsByCategory(ctx)
	if err != nil {
		return nil, errs.Store("ledger category totals", err)
	}
	var activity, investment, expenses, bankTax, membershipFees decimal.Decimal
	for _, t := range totals {
		switch {
		case t.Category == ledger.CategoryActivity && t.Kind == ledger.KindIncome:
			activity = activity.Add(t.Total)
		case t.Category == ledger.CategoryActivity && t.Kind == ledger.KindExpense:
			activity = activity.Sub(t.Total)
		case t.Category == ledger.CategoryInvestment && t.Kind == ledger.KindIncome:
			investment = investment.Add(t.Total)
		case t.Category == ledger.CategoryInvestment && t.Kind == ledger.KindExpense:
			investment = investment.Sub(t.Total)
		case t.Category == ledger.CategoryOperatingExpense && t.Kind == ledger.KindExpense:
			expenses = expenses.Add(t.Total)
		case t.Category == ledger.CategoryBankTax && t.Kind == ledger.KindExpense:
			bankTax = bankTax.Add(t.Total)
		case t.Category == ledger.CategoryMembershipFee && t.Kind == ledger.KindIncome:
			membershipFees = membershipFees.Add(t.Total)
		}
	}

	groupProfit := lateFees.Add(loanInterest).Add(activity).Add(investment).Sub(expenses).Sub(bankTax)

	// Profit (and membership-fee reporting) is distributed per paid
	// installment: the selected members' share is their fraction of all
	// paid installments in the group.
	totalInstallments, err := totalPaidInstallments(ctx, r)
	if err != nil {
		return nil, err
	}
	profitShare := decimal.Zero
	membershipShare := decimal.Zero
	if totalInstallments > 0 {
		fraction := decimal.NewFromInt(int64(selectedInstallments)).
			Div(decimal.NewFromInt(int64(totalInstallments)))
		profitShare = groupProfit.Mul(fraction).Round(2)
		membershipShare = membershipFees.Mul(fraction).Round(2)
	}

	commission := pct.Div(hundred).Mul(duesTotal.Add(profitShare)).Round(2)
	subtotal := duesTotal.Add(profitShare).Sub(commission)
	tax := subtotal.Mul(u.engine.DisbursementTaxPct).Div(hundred).Round(2)

	deductions, err := r.Loans.OutstandingPrincipalByMembers(ctx, keys)
	if err != nil {
		return nil, errs.Store("outstanding loan principal", err)
	}

	return &Preview{
		MemberKeys:               keys,
		Members:                  lines,
		DuesTotal:                duesTotal,
		MembershipFeesTotal:      membershipShare,
		GroupProfit:              groupProfit,
		ProfitShare:              profitShare,
		AdministrationPct:        pct,
		AdministrationCommission: commission,
		Subtotal:                 subtotal,
		DisbursementTax:          tax,
		Deductions:               deductions,
		NetPayable:               subtotal.Sub(tax).Sub(deductions),
	}, nil
}

// Commit recomputes the settlement inside the transaction (a preview handed
// back by the client could be stale), persists the batch and flips the
// covered members to settled. Whether the payout itself hits the cash ledger
// is the LIQUIDATION_LEDGER_EXPENSE policy.
func (u *Usecase) Commit(ctx context.Context, keys []member.Key, adminPct *decimal.Decimal, date time.Time) (*liquidation.Batch, error) {
	var out *liquidation.Batch
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := u.compute(ctx, r, keys, adminPct)
		if err != nil {
			return err
		}

		encoded, err := json.Marshal(p.MemberKeys)
		if err != nil {
			return errs.Store("encode member keys", err)
		}
		b := &liquidation.Batch{
			BatchID:                  id.NewID32(),
			MemberKeys:               string(encoded),
			DuesTotal:                p.DuesTotal,
			MembershipFeesTotal:      p.MembershipFeesTotal,
			ProfitShareTotal:         p.ProfitShare,
			AdministrationCommission: p.AdministrationCommission,
			Subtotal:                 p.Subtotal,
			DisbursementTax:          p.DisbursementTax,
			Deductions:               p.Deductions,
			NetPayable:               p.NetPayable,
			BatchDate:                dateOnly(date),
		}
		if err := r.Batches.Create(ctx, b); err != nil {
			return errs.Store("create liquidation batch", err)
		}

		for _, k := range p.MemberKeys {
			m, err := r.Members.GetByKey(ctx, k)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.NotFound("member %s", k)
				}
				return errs.Store("lookup member", err)
			}
			m.Settlement = member.SettlementSettled
			m.BatchID = &b.BatchID
			if err := r.Members.Save(ctx, m); err != nil {
				return errs.Store("save member", err)
			}
		}

		if u.engine.LiquidationExpense && b.NetPayable.GreaterThan(decimal.Zero) {
			ref := b.BatchID
			if _, err := ledgeruc.Append(ctx, r.Movements, ledgeruc.AppendParams{
				Kind:        ledger.KindExpense,
				Category:    ledger.CategoryLiquidation,
				Concept:     "liquidation payout, batch " + b.BatchID,
				Amount:      b.NetPayable,
				Date:        b.BatchDate,
				ReferenceID: &ref,
			}); err != nil {
				return err
			}
		}

		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Revert deletes the batch and returns its members to pending. Any payout
// movement the commit policy appended is compensated, not erased.
func (u *Usecase) Revert(ctx context.Context, batchID string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, found, err := r.Batches.GetByBatchID(ctx, batchID)
		if err != nil {
			return errs.Store("lookup liquidation batch", err)
		}
		if !found {
			return errs.NotFound("liquidation batch %s", batchID)
		}

		covered, err := r.Members.ListByBatchID(ctx, b.BatchID)
		if err != nil {
			return errs.Store("list batch members", err)
		}
		for _, m := range covered {
			m.Settlement = member.SettlementPending
			m.BatchID = nil
			if err := r.Members.Save(ctx, m); err != nil {
				return errs.Store("save member", err)
			}
		}

		payouts, err := r.Movements.ListByReferenceID(ctx, b.BatchID)
		if err != nil {
			return errs.Store("list batch movements", err)
		}
		for _, p := range payouts {
			if p.Kind != ledger.KindExpense || p.Category != ledger.CategoryLiquidation {
				continue
			}
			ref := p.MovementID
			if _, err := ledgeruc.Append(ctx, r.Movements, ledgeruc.AppendParams{
				Kind:        ledger.KindIncome,
				Category:    ledger.CategoryLiquidation,
				Concept:     "liquidation revert, batch " + b.BatchID,
				Amount:      p.Amount,
				Date:        time.Now().UTC(),
				ReferenceID: &ref,
			}); err != nil {
				return err
			}
		}

		if err := r.Batches.Delete(ctx, b.BatchID); err != nil {
			return errs.Store("delete liquidation batch", err)
		}
		return nil
	})
}

func totalPaidInstallments(ctx context.Context, r uow.Repos) (int, error) {
	total, err := r.Members.SumPaidInstallments(ctx)
	if err != nil {
		return 0, errs.Store("sum paid installments", err)
	}
	return total, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
