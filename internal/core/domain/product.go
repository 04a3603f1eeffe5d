package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product is a single sellable catalog entry.
type Product struct {
	ID          uuid.UUID
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	CategoryID  *uuid.UUID
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// DeletedAt marks a soft-deleted product. Soft-deleted rows are invisible
	// to reads and purged by the retention pruner.
	DeletedAt *time.Time
}

// Deleted reports whether the product has been soft-deleted.
func (p *Product) Deleted() bool {
	return p.DeletedAt != nil
}
