package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/Waito3007/aRefactor/internal/core/failure"
	"github.com/Waito3007/aRefactor/internal/infra/storage"
)

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(
	ctx context.Context,
	req *CreateCategoryRequest,
) (*CategoryView, error) {
	if req == nil {
		return nil, failure.DomainRule(failure.KeyMalformedRequest, "request body is required")
	}
	if f := s.guardWrite(); f != nil {
		return nil, f
	}
	if f := req.Validate(); f != nil {
		return nil, f
	}

	category := req.toDomain(time.Now().UTC())

	err := s.withUnitOfWork(ctx, func(uow storage.UnitOfWork) error {
		existing, err := s.categories.GetBySlug(ctx, category.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return failure.Conflict(failure.KeyConflict,
				fmt.Sprintf("slug %q is already in use", category.Slug))
		}
		return uow.AddCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	view := NewCategoryView(category)
	return &view, nil
}

// GetCategory returns one category by id.
func (s *Service) GetCategory(ctx context.Context, id string) (*CategoryView, error) {
	categoryID, f := parseID(id)
	if f != nil {
		return nil, f
	}

	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, failure.Classify(err)
	}
	if category == nil {
		return nil, failure.NotFound("category", id)
	}

	view := NewCategoryView(category)
	return &view, nil
}

// ListCategories returns every category ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]CategoryView, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, failure.Classify(err)
	}

	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, NewCategoryView(c))
	}
	return views, nil
}

// DeleteCategory removes an empty category. A category still referenced by
// visible products cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if f := s.guardWrite(); f != nil {
		return f
	}
	categoryID, f := parseID(id)
	if f != nil {
		return f
	}

	return s.withUnitOfWork(ctx, func(uow storage.UnitOfWork) error {
		category, err := s.categories.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return failure.NotFound("category", id)
		}

		inUse, err := s.products.CountByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return failure.Conflict(failure.KeyCategoryInUse,
				fmt.Sprintf("category %q still has %d products", category.Slug, inUse))
		}
		return uow.DeleteCategory(ctx, categoryID)
	})
}
