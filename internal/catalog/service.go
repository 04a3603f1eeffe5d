package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
	"github.com/Waito3007/aRefactor/internal/core/failure"
	"github.com/Waito3007/aRefactor/internal/infra/redis"
	"github.com/Waito3007/aRefactor/internal/infra/storage"
)

// Config holds catalog service behavior settings.
type Config struct {
	// CacheTTL bounds how long a product may be served from the read cache.
	CacheTTL time.Duration
	// ReadOnly rejects every mutation with a Forbidden failure. Used during
	// maintenance windows.
	ReadOnly bool
}

// Service coordinates catalog operations. Every write runs the same
// sequence: validate, transform, then mutate inside one unit of work that
// either commits or rolls back as a whole. Reads skip the transaction.
//
// All failures escaping a Service method are classified: values from the
// failure package pass through unchanged, anything else is wrapped as an
// infrastructure failure.
type Service struct {
	products   storage.ProductRepository
	categories storage.CategoryRepository
	uowFactory storage.UnitOfWorkFactory
	cache      *redis.Client // optional
	cfg        Config
	log        *slog.Logger
}

// NewService wires the catalog service. cache may be nil.
func NewService(
	products storage.ProductRepository,
	categories storage.CategoryRepository,
	uowFactory storage.UnitOfWorkFactory,
	cache *redis.Client,
	cfg Config,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default().With("component", "catalog")
	}
	return &Service{
		products:   products,
		categories: categories,
		uowFactory: uowFactory,
		cache:      cache,
		cfg:        cfg,
		log:        log,
	}
}

// withUnitOfWork runs fn inside one transactional unit. The unit is disposed
// on every exit path. A failure from fn triggers a best-effort rollback that
// is logged but never masks the original error; the original is re-raised
// classified.
func (s *Service) withUnitOfWork(ctx context.Context, fn func(storage.UnitOfWork) error) error {
	uow := s.uowFactory.NewUnitOfWork()
	defer uow.Dispose()

	if err := uow.Begin(ctx); err != nil {
		return failure.Classify(err)
	}

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", "error", rbErr)
		}
		return failure.Classify(err)
	}

	if err := uow.Commit(); err != nil {
		return failure.Classify(err)
	}
	return nil
}

// guardWrite rejects mutations while the catalog runs in read-only mode.
func (s *Service) guardWrite() *failure.Failure {
	if s.cfg.ReadOnly {
		return failure.Forbidden("catalog is in read-only mode")
	}
	return nil
}

// requireCategory raises a domain rule failure when the referenced category
// does not exist. NotFound stays reserved for the operation's target entity.
func (s *Service) requireCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return failure.DomainRule(failure.KeyCategoryMissing,
			fmt.Sprintf("category %q does not exist", id))
	}
	return nil
}

// CreateProduct validates and persists a new product.
func (s *Service) CreateProduct(
	ctx context.Context,
	req *CreateProductRequest,
) (*ProductView, error) {
	if req == nil {
		return nil, failure.DomainRule(failure.KeyMalformedRequest, "request body is required")
	}
	if f := s.guardWrite(); f != nil {
		return nil, f
	}
	if f := req.Validate(); f != nil {
		return nil, f
	}

	product := req.toDomain(time.Now().UTC())

	err := s.withUnitOfWork(ctx, func(uow storage.UnitOfWork) error {
		existing, err := s.products.GetBySKU(ctx, product.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return failure.Conflict(failure.KeyConflict,
				fmt.Sprintf("sku %q is already in use", product.SKU))
		}
		if product.CategoryID != nil {
			if err := s.requireCategory(ctx, *product.CategoryID); err != nil {
				return err
			}
		}
		return uow.AddProduct(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	view := NewProductView(product)
	return &view, nil
}

// GetProduct returns one product, served from the cache when possible.
func (s *Service) GetProduct(ctx context.Context, id string) (*ProductView, error) {
	productID, f := parseID(id)
	if f != nil {
		return nil, f
	}

	if s.cache != nil {
		cached, err := s.cache.GetProduct(ctx, productID)
		if err != nil {
			s.log.Warn("product cache read failed", "error", err)
		} else if cached != nil {
			view := NewProductView(cached)
			return &view, nil
		}
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, failure.Classify(err)
	}
	if product == nil {
		return nil, failure.NotFound("product", id)
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product, s.cfg.CacheTTL); err != nil {
			s.log.Warn("product cache write failed", "error", err)
		}
	}

	view := NewProductView(product)
	return &view, nil
}

// ListProducts returns one page of products matching the filter. An empty
// page is a valid result, not a NotFound.
func (s *Service) ListProducts(
	ctx context.Context,
	req ListProductsRequest,
) (*ProductListView, error) {
	if f := req.Validate(); f != nil {
		return nil, f
	}
	if req.Limit == 0 {
		req.Limit = defaultListLimit
	}

	filter := storage.ProductFilter{
		Status: domain.ProductStatus(req.Status),
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.CategoryID != "" {
		id := uuid.MustParse(req.CategoryID)
		filter.CategoryID = &id
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, failure.Classify(err)
	}

	items := make([]ProductView, 0, len(products))
	for _, p := range products {
		items = append(items, NewProductView(p))
	}
	return &ProductListView{
		Items:  items,
		Total:  total,
		Limit:  req.Limit,
		Offset: req.Offset,
	}, nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (s *Service) UpdateProduct(
	ctx context.Context,
	id string,
	req *UpdateProductRequest,
) (*ProductView, error) {
	if req == nil {
		return nil, failure.DomainRule(failure.KeyMalformedRequest, "request body is required")
	}
	if f := s.guardWrite(); f != nil {
		return nil, f
	}
	productID, f := parseID(id)
	if f != nil {
		return nil, f
	}
	if f := req.Validate(); f != nil {
		return nil, f
	}

	var updated *domain.Product
	err := s.withUnitOfWork(ctx, func(uow storage.UnitOfWork) error {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return failure.NotFound("product", id)
		}

		req.applyTo(product, time.Now().UTC())
		if product.CategoryID != nil {
			if err := s.requireCategory(ctx, *product.CategoryID); err != nil {
				return err
			}
		}
		if err := uow.UpdateProduct(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, productID)
	view := NewProductView(updated)
	return &view, nil
}

// DeleteProduct soft-deletes a product. The row stays recoverable until the
// retention pruner purges it.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if f := s.guardWrite(); f != nil {
		return f
	}
	productID, f := parseID(id)
	if f != nil {
		return f
	}

	err := s.withUnitOfWork(ctx, func(uow storage.UnitOfWork) error {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return failure.NotFound("product", id)
		}
		return uow.DeleteProduct(ctx, productID, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	s.invalidateProduct(ctx, productID)
	return nil
}

// invalidateProduct drops a product from the cache after a committed
// mutation. Best effort: a cache fault never fails the operation.
func (s *Service) invalidateProduct(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.log.Warn("product cache invalidation failed", "product_id", id.String(), "error", err)
	}
}
