package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zeeshukhan/shopify-custom-app/internal/domain"
	"github.com/zeeshukhan/shopify-custom-app/internal/event"
	"github.com/zeeshukhan/shopify-custom-app/internal/shopify"
	apperrors "github.com/zeeshukhan/shopify-custom-app/pkg/errors"
)

// =============================================================================
// Mocks
// =============================================================================

type mockAdminClient struct {
	mock.Mock
}

func (m *mockAdminClient) ListProducts(ctx context.Context, args shopify.PageArgs) (*shopify.ProductConnection, error) {
	callArgs := m.Called(ctx, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).(*shopify.ProductConnection), callArgs.Error(1)
}

func (m *mockAdminClient) UpdateVariantPrice(ctx context.Context, productID, variantID, price string) ([]shopify.UserError, error) {
	callArgs := m.Called(ctx, productID, variantID, price)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]shopify.UserError), callArgs.Error(1)
}

type mockSnippetRepo struct {
	mock.Mock
}

func (m *mockSnippetRepo) Upsert(ctx context.Context, snippet *domain.ReviewSnippet) error {
	return m.Called(ctx, snippet).Error(0)
}

func (m *mockSnippetRepo) GetByShopAndProduct(ctx context.Context, shop, productID string) (*domain.ReviewSnippet, error) {
	callArgs := m.Called(ctx, shop, productID)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).(*domain.ReviewSnippet), callArgs.Error(1)
}

func (m *mockSnippetRepo) ListByShopAndProducts(ctx context.Context, shop string, productIDs []string) ([]domain.ReviewSnippet, error) {
	callArgs := m.Called(ctx, shop, productIDs)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]domain.ReviewSnippet), callArgs.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishPriceUpdated(ctx context.Context, data event.PriceUpdatedData) error {
	return m.Called(ctx, data).Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func newTestService(t *testing.T) (*ProductPageService, *mockAdminClient, *mockSnippetRepo, *mockEventPublisher) {
	t.Helper()

	admin := new(mockAdminClient)
	repo := new(mockSnippetRepo)
	events := new(mockEventPublisher)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewProductPageService(admin, repo, events, logger), admin, repo, events
}

func testSession() shopify.Session {
	return shopify.Session{Shop: "merchant.myshopify.com"}
}

func productPage(ids ...string) *shopify.ProductConnection {
	conn := &shopify.ProductConnection{
		PageInfo: shopify.PageInfo{HasNextPage: true},
	}
	for i, id := range ids {
		conn.Edges = append(conn.Edges, shopify.ProductEdge{
			Cursor: id + "-cursor",
			Node: shopify.Product{
				ID:    id,
				Title: "Product " + string(rune('A'+i)),
			},
		})
	}
	return conn
}

// =============================================================================
// ListPage
// =============================================================================

func TestListPage_MergesSnippetsForPageProducts(t *testing.T) {
	svc, admin, repo, _ := newTestService(t)
	ctx := context.Background()

	page := productPage("gid://shopify/Product/1", "gid://shopify/Product/2", "gid://shopify/Product/3")
	admin.On("ListProducts", ctx, shopify.PageArgsFor("cur0", shopify.DirectionForward, PageSize)).
		Return(page, nil)

	// The repo must be queried with exactly the IDs on the returned page.
	now := time.Now()
	repo.On("ListByShopAndProducts", ctx, "merchant.myshopify.com",
		[]string{"gid://shopify/Product/1", "gid://shopify/Product/2", "gid://shopify/Product/3"}).
		Return([]domain.ReviewSnippet{
			{ID: 1, Shop: "merchant.myshopify.com", ProductID: "gid://shopify/Product/1", Content: "Top rated", CreatedAt: now, UpdatedAt: now},
			{ID: 3, Shop: "merchant.myshopify.com", ProductID: "gid://shopify/Product/3", Content: "Bestseller", CreatedAt: now, UpdatedAt: now},
		}, nil)

	result, err := svc.ListPage(ctx, testSession(), "cur0", shopify.DirectionForward)

	require.NoError(t, err)
	assert.Equal(t, page, result.Products)
	assert.Equal(t, map[string]string{
		"gid://shopify/Product/1": "Top rated",
		"gid://shopify/Product/3": "Bestseller",
	}, result.SnippetMap)

	admin.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestListPage_BackwardDirection(t *testing.T) {
	svc, admin, repo, _ := newTestService(t)
	ctx := context.Background()

	admin.On("ListProducts", ctx, shopify.PageArgsFor("cur9", shopify.DirectionBackward, PageSize)).
		Return(productPage(), nil)
	repo.On("ListByShopAndProducts", ctx, "merchant.myshopify.com", []string{}).
		Return([]domain.ReviewSnippet{}, nil)

	result, err := svc.ListPage(ctx, testSession(), "cur9", shopify.DirectionBackward)

	require.NoError(t, err)
	assert.Empty(t, result.SnippetMap)
	admin.AssertExpectations(t)
}

func TestListPage_AdminFailureIsUpstream(t *testing.T) {
	svc, admin, repo, _ := newTestService(t)
	ctx := context.Background()

	admin.On("ListProducts", ctx, mock.Anything).
		Return(nil, errors.New("connection reset"))

	result, err := svc.ListPage(ctx, testSession(), "", "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	repo.AssertNotCalled(t, "ListByShopAndProducts", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPage_RepoFailure(t *testing.T) {
	svc, admin, repo, _ := newTestService(t)
	ctx := context.Background()

	admin.On("ListProducts", ctx, mock.Anything).
		Return(productPage("gid://shopify/Product/1"), nil)
	repo.On("ListByShopAndProducts", ctx, "merchant.myshopify.com", mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := svc.ListPage(ctx, testSession(), "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load snippets for page")
}

// =============================================================================
// UpdatePrice
// =============================================================================

func TestUpdatePrice_Success(t *testing.T) {
	svc, admin, repo, events := newTestService(t)
	ctx := context.Background()

	admin.On("UpdateVariantPrice", ctx, "gid://shopify/Product/1", "gid://shopify/ProductVariant/11", "24.99").
		Return([]shopify.UserError{}, nil)
	repo.On("Upsert", ctx, &domain.ReviewSnippet{
		Shop:      "merchant.myshopify.com",
		ProductID: "gid://shopify/Product/1",
		Content:   "Loved by 500 customers",
	}).Return(nil)
	events.On("PublishPriceUpdated", ctx, event.PriceUpdatedData{
		Shop:      "merchant.myshopify.com",
		ProductID: "gid://shopify/Product/1",
		VariantID: "gid://shopify/ProductVariant/11",
		Price:     "24.99",
	}).Return(nil)

	err := svc.UpdatePrice(ctx, testSession(), UpdatePriceInput{
		ProductID:     "gid://shopify/Product/1",
		VariantID:     "gid://shopify/ProductVariant/11",
		Price:         "24.99",
		ReviewSnippet: "Loved by 500 customers",
	})

	require.NoError(t, err)
	admin.AssertExpectations(t)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestUpdatePrice_MissingIDs(t *testing.T) {
	tests := []struct {
		name  string
		input UpdatePriceInput
	}{
		{"missing product id", UpdatePriceInput{VariantID: "gid://shopify/ProductVariant/11", Price: "9.99"}},
		{"missing variant id", UpdatePriceInput{ProductID: "gid://shopify/Product/1", Price: "9.99"}},
		{"missing both", UpdatePriceInput{Price: "9.99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, admin, repo, _ := newTestService(t)

			err := svc.UpdatePrice(context.Background(), testSession(), tt.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Contains(t, err.Error(), "missing product or variant id")

			// Neither the remote mutation nor the local write may run.
			admin.AssertNotCalled(t, "UpdateVariantPrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdatePrice_UserErrorsSkipLocalWrite(t *testing.T) {
	svc, admin, repo, events := newTestService(t)
	ctx := context.Background()

	admin.On("UpdateVariantPrice", ctx, "gid://shopify/Product/1", "gid://shopify/ProductVariant/11", "-1").
		Return([]shopify.UserError{
			{Field: []string{"variants", "0", "price"}, Message: "Price must be positive"},
			{Field: []string{"variants", "0", "id"}, Message: "Variant does not exist"},
		}, nil)

	err := svc.UpdatePrice(ctx, testSession(), UpdatePriceInput{
		ProductID:     "gid://shopify/Product/1",
		VariantID:     "gid://shopify/ProductVariant/11",
		Price:         "-1",
		ReviewSnippet: "should not be saved",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Price must be positive, Variant does not exist", appErr.Message)

	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "PublishPriceUpdated", mock.Anything, mock.Anything)
}

func TestUpdatePrice_MutationFailureIsUpstream(t *testing.T) {
	svc, admin, repo, _ := newTestService(t)
	ctx := context.Background()

	admin.On("UpdateVariantPrice", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	err := svc.UpdatePrice(ctx, testSession(), UpdatePriceInput{
		ProductID: "gid://shopify/Product/1",
		VariantID: "gid://shopify/ProductVariant/11",
		Price:     "24.99",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpdatePrice_UpsertFailure(t *testing.T) {
	svc, admin, repo, events := newTestService(t)
	ctx := context.Background()

	admin.On("UpdateVariantPrice", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return([]shopify.UserError{}, nil)
	repo.On("Upsert", ctx, mock.Anything).Return(errors.New("connection refused"))

	err := svc.UpdatePrice(ctx, testSession(), UpdatePriceInput{
		ProductID: "gid://shopify/Product/1",
		VariantID: "gid://shopify/ProductVariant/11",
		Price:     "24.99",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save review snippet")
	events.AssertNotCalled(t, "PublishPriceUpdated", mock.Anything, mock.Anything)
}

func TestUpdatePrice_PublishFailureDoesNotFailRequest(t *testing.T) {
	svc, admin, repo, events := newTestService(t)
	ctx := context.Background()

	admin.On("UpdateVariantPrice", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return([]shopify.UserError{}, nil)
	repo.On("Upsert", ctx, mock.Anything).Return(nil)
	events.On("PublishPriceUpdated", ctx, mock.Anything).
		Return(errors.New("broker unreachable"))

	err := svc.UpdatePrice(ctx, testSession(), UpdatePriceInput{
		ProductID: "gid://shopify/Product/1",
		VariantID: "gid://shopify/ProductVariant/11",
		Price:     "24.99",
	})

	require.NoError(t, err)
	events.AssertExpectations(t)
}

func TestUpdatePrice_LatestContentWins(t *testing.T) {
	svc, admin, repo, events := newTestService(t)
	ctx := context.Background()

	admin.On("UpdateVariantPrice", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return([]shopify.UserError{}, nil)
	events.On("PublishPriceUpdated", ctx, mock.Anything).Return(nil)

	var saved []string
	repo.On("Upsert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*domain.ReviewSnippet).Content)
	}).Return(nil)

	for _, content := range []string{"first draft", "final copy"} {
		err := svc.UpdatePrice(ctx, testSession(), UpdatePriceInput{
			ProductID:     "gid://shopify/Product/1",
			VariantID:     "gid://shopify/ProductVariant/11",
			Price:         "24.99",
			ReviewSnippet: content,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"first draft", "final copy"}, saved)
}
