package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
	"github.com/Waito3007/aRefactor/internal/infra/storage"
)

// MemoryStorage keeps the catalog in process memory. It backs local
// development and tests; the maps are only ever touched under mu, and staged
// mutations reach them exclusively through a committed unit of work.
type MemoryStorage struct {
	products   map[uuid.UUID]*domain.Product
	categories map[uuid.UUID]*domain.Category
	mu         sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		products:   make(map[uuid.UUID]*domain.Product),
		categories: make(map[uuid.UUID]*domain.Category),
	}
}

func cloneProduct(p *domain.Product) *domain.Product {
	cp := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		cp.CategoryID = &id
	}
	if p.DeletedAt != nil {
		at := *p.DeletedAt
		cp.DeletedAt = &at
	}
	return &cp
}

func cloneCategory(c *domain.Category) *domain.Category {
	cp := *c
	return &cp
}

// -----------------------------------------------------------------------------
// Product Repository
// -----------------------------------------------------------------------------

type ProductRepo struct {
	store *MemoryStorage
}

func NewProductRepo(store *MemoryStorage) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if p.SKU == sku && p.DeletedAt == nil {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(
	ctx context.Context,
	filter storage.ProductFilter,
) ([]*domain.Product, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*domain.Product
	for _, p := range r.store.products {
		if p.DeletedAt != nil {
			continue
		}
		if filter.CategoryID != nil {
			if p.CategoryID == nil || *p.CategoryID != *filter.CategoryID {
				continue
			}
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		matched = append(matched, p)
	}

	// Newest first, id as tie-breaker, matching the SQL ordering
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	page := make([]*domain.Product, 0, len(matched))
	for _, p := range matched {
		page = append(page, cloneProduct(p))
	}
	return page, total, nil
}

func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, p := range r.store.products {
		if p.DeletedAt == nil && p.CategoryID != nil && *p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *ProductRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var purged int64
	for id, p := range r.store.products {
		if p.DeletedAt != nil && p.DeletedAt.Before(cutoff) {
			delete(r.store.products, id)
			purged++
		}
	}
	return purged, nil
}

// -----------------------------------------------------------------------------
// Category Repository
// -----------------------------------------------------------------------------

type CategoryRepo struct {
	store *MemoryStorage
}

func NewCategoryRepo(store *MemoryStorage) *CategoryRepo {
	return &CategoryRepo{store: store}
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.categories[id]
	if !ok {
		return nil, nil
	}
	return cloneCategory(c), nil
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.categories {
		if c.Slug == slug {
			return cloneCategory(c), nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		out = append(out, cloneCategory(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
