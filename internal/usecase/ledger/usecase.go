package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"natillera-backend/internal/domain/errs"
	"natillera-backend/internal/domain/ledger"
	"natillera-backend/internal/domain/uow"
	"natillera-backend/pkg/id"
)

type Usecase struct {
	repo ledger.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(r ledger.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx}
}

type AppendParams struct {
	Kind        ledger.Kind
	Category    ledger.Category
	Concept     string
	Amount      decimal.Decimal
	Date        time.Time
	ReferenceID *string
}

// Append is the single write path into the cash ledger, shared by every
// engine: it reads the locked tail row, chains the balances and inserts the
// new movement. Callers must already be inside a transaction — the balance
// read and the insert must not be separable.
func Append(ctx context.Context, movements ledger.Repository, p AppendParams) (*ledger.Movement, error) {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errs.Validation("movement amount must be positive, got %s", p.Amount)
	}
	if p.Kind != ledger.KindIncome && p.Kind != ledger.KindExpense {
		return nil, errs.Validation("unknown movement kind %q", p.Kind)
	}
	if p.Category == "" {
		p.Category = ledger.CategoryOther
	}
	if !ledger.ValidCategory(p.Category) {
		return nil, errs.Validation("unknown movement category %q", p.Category)
	}

	last, err := movements.LastForUpdate(ctx)
	if err != nil {
		return nil, errs.Store("read ledger tail", err)
	}
	prior := decimal.Zero
	if last != nil {
		prior = last.ResultingBalance
	}

	amount := p.Amount.Round(2)
	resulting := prior.Add(amount)
	if p.Kind == ledger.KindExpense {
		resulting = prior.Sub(amount)
	}

	m := &ledger.Movement{
		MovementID:       id.NewID32(),
		Kind:             p.Kind,
		Category:         p.Category,
		Concept:          p.Concept,
		Amount:           amount,
		PriorBalance:     prior,
		ResultingBalance: resulting,
		MovementDate:     dateOnly(p.Date),
		ReferenceID:      p.ReferenceID,
	}
	if err := movements.Create(ctx, m); err != nil {
		return nil, errs.Store("append movement", err)
	}
	return m, nil
}

// CurrentBalance is the resulting balance of the newest movement; an empty
// ledger answers zero, never an error.
func (u *Usecase) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	last, err := u.repo.Last(ctx)
	if err != nil {
		return decimal.Zero, errs.Store("read ledger tail", err)
	}
	if last == nil {
		return decimal.Zero, nil
	}
	return last.ResultingBalance, nil
}

func (u *Usecase) Append(ctx context.Context, p AppendParams) (*ledger.Movement, error) {
	var out *ledger.Movement
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := Append(ctx, r.Movements, p)
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reverse appends a compensating movement of the opposite kind and the same
// amount, referencing the original. History is never edited in place.
func (u *Usecase) Reverse(ctx context.Context, movementID string) (*ledger.Movement, error) {
	var out *ledger.Movement
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		orig, err := r.Movements.GetByMovementID(ctx, movementID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("movement %s", movementID)
			}
			return errs.Store("lookup movement", err)
		}
		ref := orig.MovementID
		m, err := Append(ctx, r.Movements, AppendParams{
			Kind:        orig.Kind.Opposite(),
			Category:    orig.Category,
			Concept:     "reversal of: " + orig.Concept,
			Amount:      orig.Amount,
			Date:        time.Now().UTC(),
			ReferenceID: &ref,
		})
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) List(ctx context.Context, limit, offset int) ([]*ledger.Movement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	out, err := u.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, errs.Store("list movements", err)
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
