package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
	"github.com/Waito3007/aRefactor/internal/infra/storage"
)

// ProductRepo implements storage.ProductRepository using PostgreSQL.
type ProductRepo struct {
	db *DB
}

// NewProductRepo creates a new PostgreSQL product repository.
func NewProductRepo(db *DB) *ProductRepo {
	return &ProductRepo{db: db}
}

type productRow struct {
	ID          uuid.UUID     `db:"id"`
	SKU         string        `db:"sku"`
	Name        string        `db:"name"`
	Description string        `db:"description"`
	PriceCents  int64         `db:"price_cents"`
	CategoryID  uuid.NullUUID `db:"category_id"`
	Status      string        `db:"status"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   sql.NullTime  `db:"deleted_at"`
}

func (p *productRow) toDomain() *domain.Product {
	product := &domain.Product{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Status:      domain.ProductStatus(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID.Valid {
		id := p.CategoryID.UUID
		product.CategoryID = &id
	}
	if p.DeletedAt.Valid {
		at := p.DeletedAt.Time
		product.DeletedAt = &at
	}
	return product
}

const productColumns = `id, sku, name, description, price_cents, category_id, status, created_at, updated_at, deleted_at`

// GetByID retrieves a product by id, ignoring soft-deleted rows.
func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`

	var row productRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return row.toDomain(), nil
}

// GetBySKU retrieves a product by SKU, ignoring soft-deleted rows.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE sku = $1 AND deleted_at IS NULL
	`

	var row productRow
	err := r.db.GetContext(ctx, &row, query, sku)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by sku: %w", err)
	}

	return row.toDomain(), nil
}

// List returns the filtered page plus the total match count.
func (r *ProductRepo) List(
	ctx context.Context,
	filter storage.ProductFilter,
) ([]*domain.Product, int, error) {
	where := "deleted_at IS NULL"
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ` + where + `
		ORDER BY created_at DESC, id
	`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toDomain())
	}
	return products, total, nil
}

// CountByCategory counts visible products assigned to a category.
func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE category_id = $1 AND deleted_at IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query, categoryID); err != nil {
		return 0, fmt.Errorf("failed to count products by category: %w", err)
	}
	return count, nil
}

// PurgeDeletedBefore permanently removes products soft-deleted before the cutoff.
func (r *ProductRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM products WHERE deleted_at IS NOT NULL AND deleted_at < $1`

	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge products: %w", err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read purge count: %w", err)
	}
	return purged, nil
}
