package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
	"github.com/Waito3007/aRefactor/internal/core/failure"
	"github.com/Waito3007/aRefactor/internal/infra/storage"
)

// UnitOfWork stages mutations against the in-memory store. Nothing reaches
// the shared maps before Commit; Commit applies all staged operations in
// order under the store lock, so readers never observe a partial write.
type UnitOfWork struct {
	store   *MemoryStorage
	state   storage.TxState
	pending []func(*MemoryStorage)
}

// NewUnitOfWork returns an Idle unit bound to the store.
func (s *MemoryStorage) NewUnitOfWork() storage.UnitOfWork {
	return &UnitOfWork{store: s, state: storage.TxIdle}
}

func (u *UnitOfWork) State() storage.TxState { return u.state }

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if !storage.CanTransition(u.state, storage.TxActive) {
		if u.state == storage.TxActive {
			return failure.Infrastructure(storage.ErrTxAlreadyActive)
		}
		return failure.Infrastructure(storage.ErrTxFinished)
	}
	u.state = storage.TxActive
	return nil
}

func (u *UnitOfWork) Commit() error {
	if !storage.CanTransition(u.state, storage.TxCommitted) {
		return failure.Infrastructure(storage.ErrTxNotActive)
	}

	u.store.mu.Lock()
	for _, apply := range u.pending {
		apply(u.store)
	}
	u.store.mu.Unlock()

	u.pending = nil
	u.state = storage.TxCommitted
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if !storage.CanTransition(u.state, storage.TxRolledBack) {
		return failure.Infrastructure(storage.ErrTxNotActive)
	}
	u.pending = nil
	u.state = storage.TxRolledBack
	return nil
}

func (u *UnitOfWork) Dispose() {
	if u.state == storage.TxActive {
		u.pending = nil
		u.state = storage.TxRolledBack
	}
}

func (u *UnitOfWork) AddProduct(ctx context.Context, p *domain.Product) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}
	staged := cloneProduct(p)
	u.pending = append(u.pending, func(s *MemoryStorage) {
		s.products[staged.ID] = staged
	})
	return nil
}

func (u *UnitOfWork) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}
	staged := cloneProduct(p)
	u.pending = append(u.pending, func(s *MemoryStorage) {
		// Mirrors the SQL update, which skips soft-deleted rows
		if cur, ok := s.products[staged.ID]; ok && cur.DeletedAt == nil {
			s.products[staged.ID] = staged
		}
	})
	return nil
}

func (u *UnitOfWork) DeleteProduct(ctx context.Context, id uuid.UUID, at time.Time) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}
	u.pending = append(u.pending, func(s *MemoryStorage) {
		if cur, ok := s.products[id]; ok && cur.DeletedAt == nil {
			stamped := cloneProduct(cur)
			when := at
			stamped.DeletedAt = &when
			stamped.UpdatedAt = at
			s.products[id] = stamped
		}
	})
	return nil
}

func (u *UnitOfWork) AddCategory(ctx context.Context, c *domain.Category) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}
	staged := cloneCategory(c)
	u.pending = append(u.pending, func(s *MemoryStorage) {
		s.categories[staged.ID] = staged
	})
	return nil
}

func (u *UnitOfWork) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}
	u.pending = append(u.pending, func(s *MemoryStorage) {
		delete(s.categories, id)
	})
	return nil
}
