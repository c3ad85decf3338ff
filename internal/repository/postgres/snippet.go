package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zeeshukhan/shopify-custom-app/internal/domain"
	"github.com/zeeshukhan/shopify-custom-app/pkg/database"
	apperrors "github.com/zeeshukhan/shopify-custom-app/pkg/errors"
)

// SnippetRepository implements review snippet persistence using PostgreSQL.
type SnippetRepository struct {
	pool database.DBTX
}

// NewSnippetRepository creates a new PostgreSQL-backed snippet repository.
func NewSnippetRepository(pool database.DBTX) *SnippetRepository {
	return &SnippetRepository{pool: pool}
}

// Upsert inserts a new snippet or overwrites the content of the existing
// record for (shop, product_id). The conflict target is the composite unique
// key, so concurrent submissions resolve to last-writer-wins without a
// read-then-write race.
func (r *SnippetRepository) Upsert(ctx context.Context, snippet *domain.ReviewSnippet) error {
	query := `
		INSERT INTO review_snippets (shop, product_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (shop, product_id)
		DO UPDATE SET content = EXCLUDED.content, updated_at = now()`

	_, err := r.pool.Exec(ctx, query,
		snippet.Shop,
		snippet.ProductID,
		snippet.Content,
	)
	if err != nil {
		return fmt.Errorf("upsert review snippet: %w", err)
	}

	return nil
}

// GetByShopAndProduct retrieves the snippet for one product of one shop.
func (r *SnippetRepository) GetByShopAndProduct(ctx context.Context, shop, productID string) (*domain.ReviewSnippet, error) {
	query := `
		SELECT id, shop, product_id, content, created_at, updated_at
		FROM review_snippets
		WHERE shop = $1 AND product_id = $2`

	var s domain.ReviewSnippet

	err := r.pool.QueryRow(ctx, query, shop, productID).Scan(
		&s.ID,
		&s.Shop,
		&s.ProductID,
		&s.Content,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("snippet for %s/%s: %w", shop, productID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get review snippet: %w", err)
	}

	return &s, nil
}

// ListByShopAndProducts returns the stored snippets matching any of the given
// product IDs in a single batched query. An empty ID list returns an empty
// slice without touching the database.
func (r *SnippetRepository) ListByShopAndProducts(ctx context.Context, shop string, productIDs []string) ([]domain.ReviewSnippet, error) {
	if len(productIDs) == 0 {
		return []domain.ReviewSnippet{}, nil
	}

	query := `
		SELECT id, shop, product_id, content, created_at, updated_at
		FROM review_snippets
		WHERE shop = $1 AND product_id = ANY($2)`

	rows, err := r.pool.Query(ctx, query, shop, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list review snippets: %w", err)
	}
	defer rows.Close()

	var snippets []domain.ReviewSnippet

	for rows.Next() {
		var s domain.ReviewSnippet

		if err := rows.Scan(
			&s.ID,
			&s.Shop,
			&s.ProductID,
			&s.Content,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snippet row: %w", err)
		}

		snippets = append(snippets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snippet rows: %w", err)
	}

	if snippets == nil {
		snippets = []domain.ReviewSnippet{}
	}

	return snippets, nil
}
