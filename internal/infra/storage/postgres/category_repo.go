package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
)

// CategoryRepo implements storage.CategoryRepository using PostgreSQL.
type CategoryRepo struct {
	db *DB
}

// NewCategoryRepo creates a new PostgreSQL category repository.
func NewCategoryRepo(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

type categoryRow struct {
	ID        uuid.UUID `db:"id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (c *categoryRow) toDomain() *domain.Category {
	return &domain.Category{
		ID:        c.ID,
		Slug:      c.Slug,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

// GetByID retrieves a category by id.
func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, slug, name, created_at
		FROM categories
		WHERE id = $1
	`

	var row categoryRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return row.toDomain(), nil
}

// GetBySlug retrieves a category by slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `
		SELECT id, slug, name, created_at
		FROM categories
		WHERE slug = $1
	`

	var row categoryRow
	err := r.db.GetContext(ctx, &row, query, slug)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return row.toDomain(), nil
}

// List retrieves all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, slug, name, created_at
		FROM categories
		ORDER BY name
	`

	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, rows[i].toDomain())
	}
	return categories, nil
}
