package membermock

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"natillera-backend/internal/domain/member"
)

// Repo is an in-memory member.Repository. Seed it with Add before use.
type Repo struct {
	mu      sync.Mutex
	members map[member.Key]*member.Member
}

func (m *Repo) init() {
	if m.members == nil {
		m.members = map[member.Key]*member.Member{}
	}
}

func (m *Repo) Add(mm *member.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	mm.ID = uint64(len(m.members) + 1)
	m.members[mm.MemberKey] = mm
}

func (m *Repo) GetByKey(ctx context.Context, key member.Key) (*member.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	if mm, ok := m.members[key]; ok {
		return mm, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByKeys(ctx context.Context, keys []member.Key) ([]*member.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	var out []*member.Member
	for _, k := range keys {
		if mm, ok := m.members[k]; ok {
			out = append(out, mm)
		}
	}
	return out, nil
}

func (m *Repo) ListByBatchID(ctx context.Context, batchID string) ([]*member.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	var out []*member.Member
	for _, mm := range m.members {
		if mm.BatchID != nil && *mm.BatchID == batchID {
			out = append(out, mm)
		}
	}
	return out, nil
}

func (m *Repo) SumPaidInstallments(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	total := 0
	for _, mm := range m.members {
		total += mm.PaidInstallments
	}
	return total, nil
}

func (m *Repo) Save(ctx context.Context, mm *member.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	m.members[mm.MemberKey] = mm
	return nil
}
