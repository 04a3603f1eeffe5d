package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Waito3007/aRefactor/internal/core/domain"
	"github.com/Waito3007/aRefactor/internal/core/failure"
	"github.com/Waito3007/aRefactor/internal/infra/storage"
	"github.com/Waito3007/aRefactor/internal/metrics"
)

// UnitOfWork bundles the writes of one catalog mutation into a single
// database transaction, ensuring atomicity (all succeed or all fail).
// The underlying connection is released on Commit, Rollback or Dispose,
// whichever runs first.
type UnitOfWork struct {
	db    *DB
	tx    *sqlx.Tx
	state storage.TxState
}

// NewUnitOfWork creates an Idle unit of work. The transaction opens on Begin.
func (db *DB) NewUnitOfWork() storage.UnitOfWork {
	return &UnitOfWork{db: db, state: storage.TxIdle}
}

func (u *UnitOfWork) State() storage.TxState { return u.state }

// Begin opens the transaction and moves the unit to Active.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if !storage.CanTransition(u.state, storage.TxActive) {
		if u.state == storage.TxActive {
			return failure.Infrastructure(storage.ErrTxAlreadyActive)
		}
		return failure.Infrastructure(storage.ErrTxFinished)
	}

	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return failure.Infrastructure(fmt.Errorf("failed to begin transaction: %w", err))
	}

	u.tx = tx
	u.state = storage.TxActive
	return nil
}

// Commit commits the transaction. The connection is released even when the
// commit itself fails; a failed commit leaves the unit RolledBack.
func (u *UnitOfWork) Commit() error {
	if !storage.CanTransition(u.state, storage.TxCommitted) {
		return failure.Infrastructure(storage.ErrTxNotActive)
	}

	err := u.tx.Commit()
	u.tx = nil
	if err != nil {
		u.state = storage.TxRolledBack
		metrics.TxRollbacksTotal.Inc()
		return failure.Infrastructure(fmt.Errorf("failed to commit transaction: %w", err))
	}

	u.state = storage.TxCommitted
	metrics.TxCommitsTotal.Inc()
	return nil
}

// Rollback discards the transaction. The connection is released even when the
// rollback itself fails.
func (u *UnitOfWork) Rollback() error {
	if !storage.CanTransition(u.state, storage.TxRolledBack) {
		return failure.Infrastructure(storage.ErrTxNotActive)
	}

	err := u.tx.Rollback()
	u.tx = nil
	u.state = storage.TxRolledBack
	metrics.TxRollbacksTotal.Inc()
	if err != nil {
		return failure.Infrastructure(fmt.Errorf("failed to rollback transaction: %w", err))
	}
	return nil
}

// Dispose releases the connection if still held. Safe to call multiple times.
func (u *UnitOfWork) Dispose() {
	if u.state != storage.TxActive {
		return
	}
	if u.tx != nil {
		_ = u.tx.Rollback()
		u.tx = nil
	}
	u.state = storage.TxRolledBack
	metrics.TxRollbacksTotal.Inc()
}

// AddProduct stages a product insert.
func (u *UnitOfWork) AddProduct(ctx context.Context, p *domain.Product) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}

	query := `
		INSERT INTO products (id, sku, name, description, price_cents, category_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := u.tx.ExecContext(ctx, query,
		p.ID,
		p.SKU,
		p.Name,
		p.Description,
		p.PriceCents,
		p.CategoryID,
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// UpdateProduct stages an update of all mutable product fields.
func (u *UnitOfWork) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}

	query := `
		UPDATE products
		SET sku = $2, name = $3, description = $4, price_cents = $5,
			category_id = $6, status = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	_, err := u.tx.ExecContext(ctx, query,
		p.ID,
		p.SKU,
		p.Name,
		p.Description,
		p.PriceCents,
		p.CategoryID,
		string(p.Status),
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// DeleteProduct stages a soft delete.
func (u *UnitOfWork) DeleteProduct(ctx context.Context, id uuid.UUID, at time.Time) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}

	query := `
		UPDATE products
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	_, err := u.tx.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to soft delete product: %w", err)
	}
	return nil
}

// AddCategory stages a category insert.
func (u *UnitOfWork) AddCategory(ctx context.Context, c *domain.Category) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}

	query := `
		INSERT INTO categories (id, slug, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := u.tx.ExecContext(ctx, query, c.ID, c.Slug, c.Name, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// DeleteCategory stages a hard category delete.
func (u *UnitOfWork) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if u.state != storage.TxActive {
		return storage.ErrTxNotActive
	}

	query := `DELETE FROM categories WHERE id = $1`

	_, err := u.tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
