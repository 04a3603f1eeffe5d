package catalog

import (
	"time"

	"github.com/Waito3007/aRefactor/internal/core/domain"
)

// ProductView is the client representation of a product.
type ProductView struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewProductView(p *domain.Product) ProductView {
	view := ProductView{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		view.CategoryID = &id
	}
	return view
}

// ProductListView is one page of products plus the total match count.
type ProductListView struct {
	Items  []ProductView `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// CategoryView is the client representation of a category.
type CategoryView struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCategoryView(c *domain.Category) CategoryView {
	return CategoryView{
		ID:        c.ID.String(),
		Slug:      c.Slug,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
