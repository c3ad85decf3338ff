package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeeshukhan/shopify-custom-app/internal/domain"
	"github.com/zeeshukhan/shopify-custom-app/internal/event"
	"github.com/zeeshukhan/shopify-custom-app/internal/repository"
	"github.com/zeeshukhan/shopify-custom-app/internal/shopify"
	apperrors "github.com/zeeshukhan/shopify-custom-app/pkg/errors"
)

// PageSize is the fixed number of products per admin page.
const PageSize = 5

// AdminClient is the subset of the Shopify Admin client used by this service.
type AdminClient interface {
	ListProducts(ctx context.Context, args shopify.PageArgs) (*shopify.ProductConnection, error)
	UpdateVariantPrice(ctx context.Context, productID, variantID, price string) ([]shopify.UserError, error)
}

// EventPublisher publishes domain events after successful writes.
type EventPublisher interface {
	PublishPriceUpdated(ctx context.Context, data event.PriceUpdatedData) error
}

// PageResult is one page of products merged with the locally stored snippets
// for exactly the products on that page.
type PageResult struct {
	Products   *shopify.ProductConnection `json:"products"`
	SnippetMap map[string]string          `json:"snippetMap"`
}

// UpdatePriceInput holds the form fields of a price-update submission.
type UpdatePriceInput struct {
	ProductID     string
	VariantID     string
	Price         string
	ReviewSnippet string
}

// ProductPageService implements the product page read and write paths.
type ProductPageService struct {
	admin  AdminClient
	repo   repository.SnippetRepository
	events EventPublisher
	logger *slog.Logger
}

// NewProductPageService creates a new product page service.
func NewProductPageService(admin AdminClient, repo repository.SnippetRepository, events EventPublisher, logger *slog.Logger) *ProductPageService {
	return &ProductPageService{
		admin:  admin,
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// ListPage fetches one page of products from the Admin API and merges in the
// stored review snippets for the products on that page. The snippet lookup is
// a single batched query over the page's product IDs; products with no stored
// snippet are simply absent from the map.
func (s *ProductPageService) ListPage(ctx context.Context, sess shopify.Session, cursor, direction string) (*PageResult, error) {
	args := shopify.PageArgsFor(cursor, direction, PageSize)

	products, err := s.admin.ListProducts(ctx, args)
	if err != nil {
		return nil, apperrors.Upstream("shopify", err)
	}

	snippets, err := s.repo.ListByShopAndProducts(ctx, sess.Shop, products.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("load snippets for page: %w", err)
	}

	snippetMap := make(map[string]string, len(snippets))
	for _, snippet := range snippets {
		snippetMap[snippet.ProductID] = snippet.Content
	}

	return &PageResult{
		Products:   products,
		SnippetMap: snippetMap,
	}, nil
}

// UpdatePrice updates the product's first variant price via the Admin API and,
// only if the mutation reports zero userErrors, upserts the review snippet
// locally. There is no transaction spanning the two systems: the remote
// mutation always runs first and the local write is skipped on failure.
func (s *ProductPageService) UpdatePrice(ctx context.Context, sess shopify.Session, input UpdatePriceInput) error {
	if input.ProductID == "" || input.VariantID == "" {
		return apperrors.InvalidInput("missing product or variant id")
	}

	userErrors, err := s.admin.UpdateVariantPrice(ctx, input.ProductID, input.VariantID, input.Price)
	if err != nil {
		return apperrors.Upstream("shopify", err)
	}

	if len(userErrors) > 0 {
		messages := make([]string, len(userErrors))
		for i, ue := range userErrors {
			messages[i] = ue.Message
		}
		return apperrors.InvalidInput(strings.Join(messages, ", "))
	}

	snippet := &domain.ReviewSnippet{
		Shop:      sess.Shop,
		ProductID: input.ProductID,
		Content:   input.ReviewSnippet,
	}
	if err := s.repo.Upsert(ctx, snippet); err != nil {
		return fmt.Errorf("save review snippet: %w", err)
	}

	s.logger.InfoContext(ctx, "variant price updated",
		slog.String("shop", sess.Shop),
		slog.String("product_id", input.ProductID),
		slog.String("variant_id", input.VariantID),
	)

	// Best effort: a publish failure must not fail a write that already
	// succeeded in both Shopify and the local store.
	if err := s.events.PublishPriceUpdated(ctx, event.PriceUpdatedData{
		Shop:      sess.Shop,
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		Price:     input.Price,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish price_updated event",
			slog.String("product_id", input.ProductID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
