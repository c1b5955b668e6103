// Package repository defines the persistence contracts for the inventory
// domain. Implementations live in subpackages (postgres).
package repository

import (
	"context"

	"github.com/m-akash/e-commerce-inventory-api/internal/domain"
)

// ProductRepository is the persistence contract for products.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, p *domain.Product) error

	// GetByID returns the product with its category and owner summaries
	// joined in. Returns apperrors.ErrNotFound if no product matches.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns one page of products matching the filter plus the total
	// number of matches across all pages.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Search returns every product whose name or description matches the
	// term, newest first.
	Search(ctx context.Context, term string) ([]domain.Product, error)

	// Update persists the mutable fields of the product. The owner is never
	// changed. Returns apperrors.ErrNotFound if no product matches.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes the product. Returns apperrors.ErrNotFound if no
	// product matches.
	Delete(ctx context.Context, id string) error
}

// CategoryRepository is the persistence contract for categories.
type CategoryRepository interface {
	// GetByID returns the category. Returns apperrors.ErrNotFound if no
	// category matches.
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]domain.Category, error)
}
