package loanmock

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"natillera-backend/internal/domain/loan"
	"natillera-backend/internal/domain/member"
)

// Repo is an in-memory loan.Repository. Missing loans answer with
// gorm.ErrRecordNotFound, matching the mysql implementation. Wire Movements
// so OutstandingPrincipalByMembers reads each loan's latest movement the way
// the mysql join does; a loan without movements contributes nothing.
type Repo struct {
	mu    sync.Mutex
	loans map[string]*loan.Loan

	Movements *MovementRepo
}

func (m *Repo) init() {
	if m.loans == nil {
		m.loans = map[string]*loan.Loan{}
	}
}

func (m *Repo) Create(ctx context.Context, l *loan.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	l.ID = uint64(len(m.loans) + 1)
	m.loans[l.LoanID] = l
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	if l, ok := m.loans[loanID]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	return m.GetByLoanID(ctx, loanID)
}

func (m *Repo) Save(ctx context.Context, l *loan.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	m.loans[l.LoanID] = l
	return nil
}

func (m *Repo) ListActive(ctx context.Context) ([]*loan.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	var out []*loan.Loan
	for _, l := range m.loans {
		if l.Status == loan.StatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Repo) OutstandingPrincipalByMembers(ctx context.Context, keys []member.Key) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	total := decimal.Zero
	for _, l := range m.loans {
		if l.Status != loan.StatusActive || l.MemberKey == nil || m.Movements == nil {
			continue
		}
		for _, k := range keys {
			if *l.MemberKey != k {
				continue
			}
			last, err := m.Movements.Last(ctx, l.LoanID)
			if err != nil {
				return decimal.Zero, err
			}
			if last != nil {
				total = total.Add(last.OutstandingPrincipal)
			}
		}
	}
	return total, nil
}

// MovementRepo is an in-memory loan.MovementRepository.
type MovementRepo struct {
	mu   sync.Mutex
	rows []*loan.Movement

	CreateFn func(ctx context.Context, m *loan.Movement) error
}

func (m *MovementRepo) Create(ctx context.Context, mv *loan.Movement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, mv)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mv.ID = uint64(len(m.rows) + 1)
	m.rows = append(m.rows, mv)
	return nil
}

func (m *MovementRepo) Last(ctx context.Context, loanID string) (*loan.Movement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].LoanID == loanID {
			return m.rows[i], nil
		}
	}
	return nil, nil
}

func (m *MovementRepo) ListByLoanID(ctx context.Context, loanID string) ([]*loan.Movement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*loan.Movement
	for _, mv := range m.rows {
		if mv.LoanID == loanID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *MovementRepo) TotalInterestCollected(ctx context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, mv := range m.rows {
		switch mv.MovementType {
		case loan.TypeInterestPayment, loan.TypePrincipalPayment, loan.TypeFullPayment:
			total = total.Add(mv.AmountPaid.Sub(mv.PrincipalPaid))
		}
	}
	return total, nil
}
