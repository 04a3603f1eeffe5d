package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
)

// CreateProductRequest is the inbound payload for product creation. Fields
// arrive unvalidated; Validate reports every broken rule in one failure.
type CreateProductRequest struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	CategoryID  *string `json:"categoryId"`
	Status      string  `json:"status"`
}

// toDomain builds the persistence-ready product. It must only be called on a
// validated request; the mapping itself cannot fail.
func (r *CreateProductRequest) toDomain(now time.Time) *domain.Product {
	status := domain.ProductStatus(r.Status)
	if r.Status == "" {
		status = domain.ProductStatusActive
	}

	p := &domain.Product{
		ID:          uuid.New(),
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  *r.PriceCents,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if r.CategoryID != nil && *r.CategoryID != "" {
		id := uuid.MustParse(*r.CategoryID)
		p.CategoryID = &id
	}
	return p
}

// UpdateProductRequest replaces the mutable fields of a product. The SKU is
// the immutable business key and cannot be changed after creation.
type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	CategoryID  *string `json:"categoryId"`
	Status      string  `json:"status"`
}

// applyTo writes the validated request onto the stored product.
func (r *UpdateProductRequest) applyTo(p *domain.Product, now time.Time) {
	p.Name = r.Name
	p.Description = r.Description
	p.PriceCents = *r.PriceCents
	p.Status = domain.ProductStatus(r.Status)
	if r.Status == "" {
		p.Status = domain.ProductStatusActive
	}
	p.CategoryID = nil
	if r.CategoryID != nil && *r.CategoryID != "" {
		id := uuid.MustParse(*r.CategoryID)
		p.CategoryID = &id
	}
	p.UpdatedAt = now
}

// CreateCategoryRequest is the inbound payload for category creation.
type CreateCategoryRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func (r *CreateCategoryRequest) toDomain(now time.Time) *domain.Category {
	return &domain.Category{
		ID:        uuid.New(),
		Slug:      r.Slug,
		Name:      r.Name,
		CreatedAt: now,
	}
}

// ListProductsRequest carries the query parameters of a product listing.
type ListProductsRequest struct {
	CategoryID string
	Status     string
	Limit      int
	Offset     int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)
