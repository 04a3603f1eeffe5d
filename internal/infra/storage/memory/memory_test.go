package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
	"github.com/Waito3007/aRefactor/internal/core/failure"
	"github.com/Waito3007/aRefactor/internal/infra/storage"
)

func testProduct(sku string) *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:         uuid.New(),
		SKU:        sku,
		Name:       "Product " + sku,
		PriceCents: 1999,
		Status:     domain.ProductStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func mustCommit(t *testing.T, store *MemoryStorage, stage func(storage.UnitOfWork) error) {
	t.Helper()
	uow := store.NewUnitOfWork()
	defer uow.Dispose()
	if err := uow.Begin(context.Background()); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := stage(uow); err != nil {
		t.Fatalf("stage error: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
}

// ============================================================================
// Unit of Work Lifecycle
// ============================================================================

func TestStagedWritesInvisibleUntilCommit(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewProductRepo(store)
	p := testProduct("SKU-001")

	uow := store.NewUnitOfWork()
	defer uow.Dispose()
	if err := uow.Begin(context.Background()); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := uow.AddProduct(context.Background(), p); err != nil {
		t.Fatalf("AddProduct() error: %v", err)
	}

	got, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got != nil {
		t.Fatal("staged product visible before commit")
	}

	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	got, err = repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got == nil {
		t.Fatal("committed product not found")
	}
	if got.SKU != p.SKU {
		t.Errorf("SKU = %q, want %q", got.SKU, p.SKU)
	}
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewProductRepo(store)
	p := testProduct("SKU-002")

	uow := store.NewUnitOfWork()
	defer uow.Dispose()
	if err := uow.Begin(context.Background()); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := uow.AddProduct(context.Background(), p); err != nil {
		t.Fatalf("AddProduct() error: %v", err)
	}
	if err := uow.Rollback(); err != nil {
		t.Fatalf("Rollback() error: %v", err)
	}

	got, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got != nil {
		t.Fatal("rolled back product visible")
	}
	if uow.State() != storage.TxRolledBack {
		t.Errorf("State() = %s, want %s", uow.State(), storage.TxRolledBack)
	}
}

func TestBeginWhileActive(t *testing.T) {
	store := NewMemoryStorage()
	uow := store.NewUnitOfWork()
	defer uow.Dispose()

	if err := uow.Begin(context.Background()); err != nil {
		t.Fatalf("first Begin() error: %v", err)
	}

	err := uow.Begin(context.Background())
	if err == nil {
		t.Fatal("second Begin() succeeded")
	}
	if !errors.Is(err, storage.ErrTxAlreadyActive) {
		t.Errorf("error = %v, want ErrTxAlreadyActive", err)
	}
	f, ok := failure.From(err)
	if !ok || f.Kind != failure.KindInfrastructure {
		t.Errorf("error not classified as infrastructure: %v", err)
	}
	if uow.State() != storage.TxActive {
		t.Errorf("State() = %s, want %s after failed Begin", uow.State(), storage.TxActive)
	}
}

func TestCommitWithoutBegin(t *testing.T) {
	store := NewMemoryStorage()
	uow := store.NewUnitOfWork()
	defer uow.Dispose()

	err := uow.Commit()
	if !errors.Is(err, storage.ErrTxNotActive) {
		t.Errorf("Commit() error = %v, want ErrTxNotActive", err)
	}
	if uow.State() != storage.TxIdle {
		t.Errorf("State() = %s, want %s", uow.State(), storage.TxIdle)
	}
}

func TestUnitIsSingleShot(t *testing.T) {
	store := NewMemoryStorage()
	uow := store.NewUnitOfWork()
	defer uow.Dispose()

	if err := uow.Begin(context.Background()); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	if err := uow.Begin(context.Background()); !errors.Is(err, storage.ErrTxFinished) {
		t.Errorf("Begin() after commit error = %v, want ErrTxFinished", err)
	}
	if err := uow.Rollback(); !errors.Is(err, storage.ErrTxNotActive) {
		t.Errorf("Rollback() after commit error = %v, want ErrTxNotActive", err)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewProductRepo(store)
	p := testProduct("SKU-003")

	uow := store.NewUnitOfWork()
	if err := uow.Begin(context.Background()); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := uow.AddProduct(context.Background(), p); err != nil {
		t.Fatalf("AddProduct() error: %v", err)
	}

	uow.Dispose()
	uow.Dispose()

	if uow.State() != storage.TxRolledBack {
		t.Errorf("State() = %s, want %s", uow.State(), storage.TxRolledBack)
	}
	got, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got != nil {
		t.Fatal("disposed product visible")
	}

	// Dispose after commit must not disturb the terminal state
	done := store.NewUnitOfWork()
	if err := done.Begin(context.Background()); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := done.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	done.Dispose()
	if done.State() != storage.TxCommitted {
		t.Errorf("State() = %s, want %s", done.State(), storage.TxCommitted)
	}
}

func TestWritersRequireActiveTransaction(t *testing.T) {
	store := NewMemoryStorage()
	uow := store.NewUnitOfWork()
	defer uow.Dispose()

	if err := uow.AddProduct(context.Background(), testProduct("SKU-004")); !errors.Is(err, storage.ErrTxNotActive) {
		t.Errorf("AddProduct() error = %v, want ErrTxNotActive", err)
	}
	if err := uow.DeleteCategory(context.Background(), uuid.New()); !errors.Is(err, storage.ErrTxNotActive) {
		t.Errorf("DeleteCategory() error = %v, want ErrTxNotActive", err)
	}
}

// ============================================================================
// Repository Behavior
// ============================================================================

func TestSoftDeleteHidesProduct(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewProductRepo(store)
	p := testProduct("SKU-010")

	mustCommit(t, store, func(uow storage.UnitOfWork) error {
		return uow.AddProduct(context.Background(), p)
	})

	deletedAt := time.Now().UTC()
	mustCommit(t, store, func(uow storage.UnitOfWork) error {
		return uow.DeleteProduct(context.Background(), p.ID, deletedAt)
	})

	got, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got != nil {
		t.Fatal("soft-deleted product visible via GetByID")
	}
	got, err = repo.GetBySKU(context.Background(), p.SKU)
	if err != nil {
		t.Fatalf("GetBySKU() error: %v", err)
	}
	if got != nil {
		t.Fatal("soft-deleted product visible via GetBySKU")
	}

	purged, err := repo.PurgeDeletedBefore(context.Background(), deletedAt.Add(time.Second))
	if err != nil {
		t.Fatalf("PurgeDeletedBefore() error: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
}

func TestPurgeKeepsRecentlyDeleted(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewProductRepo(store)
	p := testProduct("SKU-011")

	mustCommit(t, store, func(uow storage.UnitOfWork) error {
		return uow.AddProduct(context.Background(), p)
	})
	mustCommit(t, store, func(uow storage.UnitOfWork) error {
		return uow.DeleteProduct(context.Background(), p.ID, time.Now().UTC())
	})

	purged, err := repo.PurgeDeletedBefore(context.Background(), time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PurgeDeletedBefore() error: %v", err)
	}
	if purged != 0 {
		t.Errorf("purged = %d, want 0", purged)
	}
}

func TestListFilterAndPaging(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewProductRepo(store)
	catID := uuid.New()

	base := time.Now().UTC()
	mustCommit(t, store, func(uow storage.UnitOfWork) error {
		for i := 0; i < 5; i++ {
			p := testProduct(fmt.Sprintf("SKU-10%d", i))
			p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			if i%2 == 0 {
				id := catID
				p.CategoryID = &id
			}
			if i == 4 {
				p.Status = domain.ProductStatusDiscontinued
			}
			if err := uow.AddProduct(context.Background(), p); err != nil {
				return err
			}
		}
		return nil
	})

	page, total, err := repo.List(context.Background(), storage.ProductFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("len(page) = %d, want 2", len(page))
	}
	if page[0].CreatedAt.Before(page[1].CreatedAt) {
		t.Error("page not ordered newest first")
	}

	id := catID
	page, total, err = repo.List(context.Background(), storage.ProductFilter{CategoryID: &id})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 3 || len(page) != 3 {
		t.Errorf("category filter: total = %d len = %d, want 3/3", total, len(page))
	}

	page, total, err = repo.List(context.Background(), storage.ProductFilter{
		Status: domain.ProductStatusDiscontinued,
	})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 1 || len(page) != 1 {
		t.Errorf("status filter: total = %d len = %d, want 1/1", total, len(page))
	}

	page, _, err = repo.List(context.Background(), storage.ProductFilter{Offset: 10})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("offset past end: len = %d, want 0", len(page))
	}
}

func TestReadsReturnCopies(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewProductRepo(store)
	p := testProduct("SKU-020")

	mustCommit(t, store, func(uow storage.UnitOfWork) error {
		return uow.AddProduct(context.Background(), p)
	})

	got, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	got.Name = "mutated"

	again, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if again.Name != p.Name {
		t.Error("caller mutation leaked into the store")
	}
}

func TestCategoryRepo(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewCategoryRepo(store)
	c := &domain.Category{ID: uuid.New(), Slug: "audio", Name: "Audio", CreatedAt: time.Now().UTC()}

	mustCommit(t, store, func(uow storage.UnitOfWork) error {
		return uow.AddCategory(context.Background(), c)
	})

	got, err := repo.GetBySlug(context.Background(), "audio")
	if err != nil {
		t.Fatalf("GetBySlug() error: %v", err)
	}
	if got == nil || got.ID != c.ID {
		t.Fatalf("GetBySlug() = %+v, want id %s", got, c.ID)
	}

	missing, err := repo.GetBySlug(context.Background(), "video")
	if err != nil {
		t.Fatalf("GetBySlug() error: %v", err)
	}
	if missing != nil {
		t.Error("unknown slug returned a category")
	}

	mustCommit(t, store, func(uow storage.UnitOfWork) error {
		return uow.DeleteCategory(context.Background(), c.ID)
	})
	gone, err := repo.GetByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if gone != nil {
		t.Error("deleted category still visible")
	}
}
