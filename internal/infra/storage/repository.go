package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
)

var (
	// ErrTxAlreadyActive is reported when Begin is called on a unit whose
	// transaction is already open.
	ErrTxAlreadyActive = errors.New("transaction already active")

	// ErrTxNotActive is reported when a transactional operation is attempted
	// without an open transaction.
	ErrTxNotActive = errors.New("no active transaction")

	// ErrTxFinished is reported when a unit of work is reused after it
	// reached a terminal state. Units are single-shot.
	ErrTxFinished = errors.New("unit of work already finished")
)

// ProductFilter narrows List results. Zero values mean "no constraint";
// Limit and Offset are applied as given.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Status     domain.ProductStatus
	Limit      int
	Offset     int
}

// ProductRepository handles product reads. Lookups return (nil, nil) when no
// visible row matches; classifying an empty result is the caller's job, not
// the repository's.
type ProductRepository interface {
	// GetByID retrieves a product by id, ignoring soft-deleted rows.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// GetBySKU retrieves a product by SKU, ignoring soft-deleted rows.
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)

	// List returns the filtered page plus the total match count.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)

	// CountByCategory counts visible products assigned to a category.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)

	// PurgeDeletedBefore permanently removes products soft-deleted before
	// the cutoff. Returns the number of purged rows.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CategoryRepository handles category reads.
type CategoryRepository interface {
	// GetByID retrieves a category by id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetBySlug retrieves a category by slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// List retrieves all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)
}

// UnitOfWork is one transactional execution unit. Mutations staged through it
// become durable only on Commit; Rollback discards them. A unit is owned
// exclusively by the operation that created it and must not be shared.
//
// Begin, Commit and Rollback report misuse (begin while active, commit or
// rollback without a transaction) and session faults as
// infrastructure-classified failures. The staging writers return plain errors,
// including ErrTxNotActive when used outside an open transaction.
type UnitOfWork interface {
	// Begin opens the underlying transaction and moves the unit to Active.
	Begin(ctx context.Context) error

	// Commit makes the staged mutations durable. The underlying session is
	// released even when the commit itself fails.
	Commit() error

	// Rollback discards the staged mutations. The underlying session is
	// released even when the rollback itself fails.
	Rollback() error

	// Dispose releases the underlying session if still held, rolling back a
	// still-active transaction. Safe to call multiple times.
	Dispose()

	// State reports the unit's lifecycle state.
	State() TxState

	// AddProduct stages a product insert.
	AddProduct(ctx context.Context, p *domain.Product) error

	// UpdateProduct stages an update of all mutable product fields.
	UpdateProduct(ctx context.Context, p *domain.Product) error

	// DeleteProduct stages a soft delete, stamping the product at the given
	// time.
	DeleteProduct(ctx context.Context, id uuid.UUID, at time.Time) error

	// AddCategory stages a category insert.
	AddCategory(ctx context.Context, c *domain.Category) error

	// DeleteCategory stages a hard category delete.
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// UnitOfWorkFactory creates Idle units bound to the backing store.
type UnitOfWorkFactory interface {
	NewUnitOfWork() UnitOfWork
}
