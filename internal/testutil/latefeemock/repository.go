package latefeemock

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/latefee"
	"natillera-backend/internal/domain/member"
)

// Repo is an in-memory latefee.Repository.
type Repo struct {
	mu   sync.Mutex
	rows map[string]*latefee.Record

	SaveFn func(ctx context.Context, r *latefee.Record) error
}

func (m *Repo) init() {
	if m.rows == nil {
		m.rows = map[string]*latefee.Record{}
	}
}

func (m *Repo) Create(ctx context.Context, r *latefee.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	r.ID = uint64(len(m.rows) + 1)
	m.rows[r.RecordID] = r
	return nil
}

func (m *Repo) GetByRecordID(ctx context.Context, recordID string) (*latefee.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	r, ok := m.rows[recordID]
	return r, ok, nil
}

func (m *Repo) GetByRecordIDForUpdate(ctx context.Context, recordID string) (*latefee.Record, bool, error) {
	return m.GetByRecordID(ctx, recordID)
}

func (m *Repo) GetByMemberInstallment(ctx context.Context, key member.Key, installment int) (*latefee.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	for _, r := range m.rows {
		if r.MemberKey == key && r.InstallmentNumber == installment {
			return r, true, nil
		}
	}
	return nil, false, nil
}

func (m *Repo) Save(ctx context.Context, r *latefee.Record) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	m.rows[r.RecordID] = r
	return nil
}

func (m *Repo) ListOutstanding(ctx context.Context, key member.Key) ([]*latefee.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	var out []*latefee.Record
	for _, r := range m.rows {
		if r.Status == latefee.StatusPaid {
			continue
		}
		if key != "" && r.MemberKey != key {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// PaymentRepo is an in-memory latefee.PaymentRepository.
type PaymentRepo struct {
	mu      sync.Mutex
	entries []*latefee.PaymentEntry

	CreateFn func(ctx context.Context, e *latefee.PaymentEntry) error
}

func (m *PaymentRepo) Create(ctx context.Context, e *latefee.PaymentEntry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uint64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return nil
}

func (m *PaymentRepo) GetByEntryID(ctx context.Context, entryID string) (*latefee.PaymentEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.EntryID == entryID {
			return e, true, nil
		}
	}
	return nil, false, nil
}

func (m *PaymentRepo) ListByRecordID(ctx context.Context, recordID string) ([]*latefee.PaymentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*latefee.PaymentEntry
	for _, e := range m.entries {
		if e.RecordID == recordID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *PaymentRepo) Delete(ctx context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.EntryID == entryID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *PaymentRepo) TotalCollected(ctx context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, e := range m.entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}
