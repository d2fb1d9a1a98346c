package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	loanDomain "natillera-backend/internal/domain/loan"
	"natillera-backend/internal/domain/member"
	"natillera-backend/pkg/id"
)

func makeTestLoan(key *member.Key, principal string) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:             id.NewID32(),
		BorrowerName:       "maria",
		MemberKey:          key,
		Principal:          d(principal),
		MonthlyRatePercent: d("2"),
		StartDate:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:             loanDomain.StatusActive,
	}
}

func makeLoanMovement(loanID string, mt loanDomain.MovementType, outstanding string) *loanDomain.Movement {
	return &loanDomain.Movement{
		LoanMovementID:       id.NewID32(),
		LoanID:               loanID,
		MovementDate:         time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		MovementType:         mt,
		AmountPaid:           d("0"),
		InterestAccrued:      d("0"),
		PrincipalPaid:        d("0"),
		OutstandingPrincipal: d(outstanding),
		TotalOutstanding:     d(outstanding),
	}
}

func TestLoanCreateAndGet(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	l := makeTestLoan(nil, "100000")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.BorrowerName != "maria" || !got.Principal.Equal(d("100000")) {
		t.Errorf("unexpected loan: %+v", got)
	}

	_, err = repo.GetByLoanID(ctx, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestLoanSaveUpdatesStatus(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	l := makeTestLoan(nil, "100000")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	l.Status = loanDomain.StatusPaid
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.Status != loanDomain.StatusPaid {
		t.Errorf("status = %s, want paid", got.Status)
	}
}

func TestLoanListActive(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	active := makeTestLoan(nil, "100000")
	if err := repo.Create(ctx, active); err != nil {
		t.Fatal(err)
	}
	settled := makeTestLoan(nil, "50000")
	settled.Status = loanDomain.StatusPaid
	if err := repo.Create(ctx, settled); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 1 || got[0].LoanID != active.LoanID {
		t.Errorf("unexpected active loans: %+v", got)
	}
}

// The deduction query must read each loan's LATEST movement, not its first.
func TestOutstandingPrincipalByMembers(t *testing.T) {
	db := openTestDB(t)
	loans := NewLoanRepository(db)
	movements := NewLoanMovementRepository(db)
	ctx := context.Background()

	keyA := member.Key("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	keyB := member.Key("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	la := makeTestLoan(&keyA, "100000")
	if err := loans.Create(ctx, la); err != nil {
		t.Fatal(err)
	}
	if err := movements.Create(ctx, makeLoanMovement(la.LoanID, loanDomain.TypeDisbursement, "100000")); err != nil {
		t.Fatal(err)
	}
	if err := movements.Create(ctx, makeLoanMovement(la.LoanID, loanDomain.TypePrincipalPayment, "70000")); err != nil {
		t.Fatal(err)
	}

	// a paid-off loan of the same member does not count
	lp := makeTestLoan(&keyA, "40000")
	lp.Status = loanDomain.StatusPaid
	if err := loans.Create(ctx, lp); err != nil {
		t.Fatal(err)
	}
	if err := movements.Create(ctx, makeLoanMovement(lp.LoanID, loanDomain.TypeFullPayment, "0")); err != nil {
		t.Fatal(err)
	}

	// nor another member's loan
	lb := makeTestLoan(&keyB, "20000")
	if err := loans.Create(ctx, lb); err != nil {
		t.Fatal(err)
	}
	if err := movements.Create(ctx, makeLoanMovement(lb.LoanID, loanDomain.TypeDisbursement, "20000")); err != nil {
		t.Fatal(err)
	}

	total, err := loans.OutstandingPrincipalByMembers(ctx, []member.Key{keyA})
	if err != nil {
		t.Fatalf("OutstandingPrincipalByMembers: %v", err)
	}
	if !total.Equal(d("70000")) {
		t.Errorf("total = %s, want 70000", total)
	}

	total, err = loans.OutstandingPrincipalByMembers(ctx, nil)
	if err != nil {
		t.Fatalf("empty keys: %v", err)
	}
	if !total.IsZero() {
		t.Errorf("empty keys total = %s, want 0", total)
	}
}

func TestLoanMovements_LastAndList(t *testing.T) {
	repo := NewLoanMovementRepository(openTestDB(t))
	ctx := context.Background()

	loanID := id.NewID32()
	got, err := repo.Last(ctx, loanID)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if got != nil {
		t.Fatalf("Last on empty history = %+v, want nil", got)
	}

	first := makeLoanMovement(loanID, loanDomain.TypeDisbursement, "100000")
	second := makeLoanMovement(loanID, loanDomain.TypeInterestPayment, "100000")
	other := makeLoanMovement(id.NewID32(), loanDomain.TypeDisbursement, "5000")
	for _, m := range []*loanDomain.Movement{first, second, other} {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err = repo.Last(ctx, loanID)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if got.LoanMovementID != second.LoanMovementID {
		t.Errorf("Last = %s, want %s", got.LoanMovementID, second.LoanMovementID)
	}

	list, err := repo.ListByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(list) != 2 || list[0].LoanMovementID != first.LoanMovementID {
		t.Errorf("unexpected history: %+v", list)
	}
}

// The aggregate is interest cash received (amount_paid − principal_paid):
// a NO_PAYMENT month's accrual counts when the later payment collects it, and
// an underpaying interest payment counts only what was paid.
func TestTotalInterestCollected_IsCashReceived(t *testing.T) {
	repo := NewLoanMovementRepository(openTestDB(t))
	ctx := context.Background()

	loanID := id.NewID32()
	disb := makeLoanMovement(loanID, loanDomain.TypeDisbursement, "100000")
	if err := repo.Create(ctx, disb); err != nil {
		t.Fatal(err)
	}
	carry := makeLoanMovement(loanID, loanDomain.TypeNoPayment, "100000")
	carry.InterestAccrued = d("2000")
	carry.TotalOutstanding = d("102000")
	if err := repo.Create(ctx, carry); err != nil {
		t.Fatal(err)
	}
	// clears 2000 carried + 2000 accrued this cycle plus the principal
	full := makeLoanMovement(loanID, loanDomain.TypeFullPayment, "0")
	full.InterestAccrued = d("2000")
	full.AmountPaid = d("104000")
	full.PrincipalPaid = d("100000")
	if err := repo.Create(ctx, full); err != nil {
		t.Fatal(err)
	}

	// a second loan underpays its 2000 accrual
	short := makeLoanMovement(id.NewID32(), loanDomain.TypeInterestPayment, "50000")
	short.InterestAccrued = d("2000")
	short.AmountPaid = d("1500")
	short.TotalOutstanding = d("50500")
	if err := repo.Create(ctx, short); err != nil {
		t.Fatal(err)
	}

	total, err := repo.TotalInterestCollected(ctx)
	if err != nil {
		t.Fatalf("TotalInterestCollected: %v", err)
	}
	if !total.Equal(d("5500")) {
		t.Errorf("total = %s, want 5500 (4000 full payment + 1500 partial)", total)
	}
}
