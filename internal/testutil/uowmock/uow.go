package uowmock

import (
	"context"

	"natillera-backend/internal/domain/uow"
)

// UoW passes the configured Repos bundle straight through. It provides no
// rollback; tests that need transactional behavior run against sqlite via
// the mysql adapter instead.
type UoW struct {
	Repos uow.Repos

	WithinTxFn func(ctx context.Context, fn func(r uow.Repos) error) error
}

func (u *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if u.WithinTxFn != nil {
		return u.WithinTxFn(ctx, fn)
	}
	return fn(u.Repos)
}
