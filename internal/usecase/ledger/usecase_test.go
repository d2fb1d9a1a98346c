package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/errs"
	"natillera-backend/internal/domain/ledger"
	"natillera-backend/internal/domain/uow"
	"natillera-backend/internal/testutil/ledgermock"
	"natillera-backend/internal/testutil/uowmock"
)

func newTestUsecase() (*Usecase, *ledgermock.Repo) {
	repo := &ledgermock.Repo{}
	tx := &uowmock.UoW{Repos: uow.Repos{Movements: repo}}
	return NewUsecase(repo, tx), repo
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCurrentBalance_EmptyLedgerIsZero(t *testing.T) {
	uc, _ := newTestUsecase()
	b, err := uc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatalf("CurrentBalance err: %v", err)
	}
	if !b.IsZero() {
		t.Fatalf("empty ledger balance = %s, want 0", b)
	}
}

func TestAppend_BalanceChains(t *testing.T) {
	uc, _ := newTestUsecase()
	ctx := context.Background()

	m1, err := uc.Append(ctx, AppendParams{
		Kind: ledger.KindIncome, Concept: "dues", Amount: d("50000"), Date: time.Now(),
	})
	if err != nil {
		t.Fatalf("Append income err: %v", err)
	}
	if !m1.PriorBalance.IsZero() || !m1.ResultingBalance.Equal(d("50000")) {
		t.Fatalf("income movement balances: prior=%s resulting=%s", m1.PriorBalance, m1.ResultingBalance)
	}

	m2, err := uc.Append(ctx, AppendParams{
		Kind: ledger.KindExpense, Concept: "stationery", Amount: d("20000"), Date: time.Now(),
	})
	if err != nil {
		t.Fatalf("Append expense err: %v", err)
	}
	if !m2.PriorBalance.Equal(d("50000")) || !m2.ResultingBalance.Equal(d("30000")) {
		t.Fatalf("expense movement balances: prior=%s resulting=%s", m2.PriorBalance, m2.ResultingBalance)
	}

	b, err := uc.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("CurrentBalance err: %v", err)
	}
	if !b.Equal(d("30000")) {
		t.Fatalf("balance = %s, want 30000", b)
	}
}

func TestAppend_RejectsNonPositiveAmount(t *testing.T) {
	uc, repo := newTestUsecase()
	for _, amount := range []string{"0", "-1"} {
		_, err := uc.Append(context.Background(), AppendParams{
			Kind: ledger.KindIncome, Concept: "x", Amount: d(amount), Date: time.Now(),
		})
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("amount %s: err = %v, want validation error", amount, err)
		}
	}
	if repo.Count() != 0 {
		t.Fatalf("rejected appends must not persist, got %d movements", repo.Count())
	}
}

func TestAppend_UnknownKindAndCategory(t *testing.T) {
	uc, _ := newTestUsecase()
	_, err := uc.Append(context.Background(), AppendParams{
		Kind: "TRANSFER", Concept: "x", Amount: d("10"), Date: time.Now(),
	})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("unknown kind err = %v, want validation error", err)
	}
	_, err = uc.Append(context.Background(), AppendParams{
		Kind: ledger.KindIncome, Category: "GIFTS", Concept: "x", Amount: d("10"), Date: time.Now(),
	})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("unknown category err = %v, want validation error", err)
	}
}

func TestReverse_AppendsCompensatingMovement(t *testing.T) {
	uc, repo := newTestUsecase()
	ctx := context.Background()

	orig, err := uc.Append(ctx, AppendParams{
		Kind: ledger.KindIncome, Concept: "raffle", Amount: d("15000"), Date: time.Now(),
	})
	if err != nil {
		t.Fatalf("Append err: %v", err)
	}

	rev, err := uc.Reverse(ctx, orig.MovementID)
	if err != nil {
		t.Fatalf("Reverse err: %v", err)
	}
	if rev.Kind != ledger.KindExpense {
		t.Fatalf("reversal kind = %s, want EXPENSE", rev.Kind)
	}
	if !rev.Amount.Equal(orig.Amount) {
		t.Fatalf("reversal amount = %s, want %s", rev.Amount, orig.Amount)
	}
	if rev.ReferenceID == nil || *rev.ReferenceID != orig.MovementID {
		t.Fatalf("reversal must reference the original movement")
	}
	// the original row is untouched, history only grows
	if repo.Count() != 2 {
		t.Fatalf("movement count = %d, want 2", repo.Count())
	}
	b, _ := uc.CurrentBalance(ctx)
	if !b.IsZero() {
		t.Fatalf("balance after reversal = %s, want 0", b)
	}
}

func TestReverse_UnknownMovement(t *testing.T) {
	uc, _ := newTestUsecase()
	_, err := uc.Reverse(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not-found error", err)
	}
}

func TestReverse_LookupOutageIsStoreError(t *testing.T) {
	repo := &ledgermock.Repo{
		GetByMovementIDFn: func(ctx context.Context, movementID string) (*ledger.Movement, error) {
			return nil, errors.New("connection reset")
		},
	}
	uc := NewUsecase(repo, &uowmock.UoW{Repos: uow.Repos{Movements: repo}})

	_, err := uc.Reverse(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	if !errors.Is(err, errs.ErrStore) {
		t.Fatalf("err = %v, want store error", err)
	}
	if errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("an outage must not report the movement as missing: %v", err)
	}
}

func TestAppend_StoreFailureSurfaces(t *testing.T) {
	repo := &ledgermock.Repo{
		CreateFn: func(ctx context.Context, m *ledger.Movement) error {
			return errors.New("connection reset")
		},
	}
	uc := NewUsecase(repo, &uowmock.UoW{Repos: uow.Repos{Movements: repo}})
	_, err := uc.Append(context.Background(), AppendParams{
		Kind: ledger.KindIncome, Concept: "x", Amount: d("10"), Date: time.Now(),
	})
	if !errors.Is(err, errs.ErrStore) {
		t.Fatalf("err = %v, want store error", err)
	}
}
