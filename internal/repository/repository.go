package repository

import (
	"context"

	"github.com/zeeshukhan/shopify-custom-app/internal/domain"
)

// SnippetRepository defines the interface for review snippet persistence.
type SnippetRepository interface {
	// Upsert inserts a snippet or overwrites the content of the existing
	// record matching (shop, productID). Atomic with respect to that key.
	Upsert(ctx context.Context, snippet *domain.ReviewSnippet) error

	// GetByShopAndProduct retrieves the snippet for one product.
	// Returns an error wrapping errors.ErrNotFound when no record exists.
	GetByShopAndProduct(ctx context.Context, shop, productID string) (*domain.ReviewSnippet, error)

	// ListByShopAndProducts returns the stored snippets for exactly the given
	// product IDs in one query. Products with no record are simply absent
	// from the result.
	ListByShopAndProducts(ctx context.Context, shop string, productIDs []string) ([]domain.ReviewSnippet, error)
}
