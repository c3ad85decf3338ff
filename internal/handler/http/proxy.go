package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/zeeshukhan/shopify-custom-app/internal/repository"
	apperrors "github.com/zeeshukhan/shopify-custom-app/pkg/errors"
	"github.com/zeeshukhan/shopify-custom-app/pkg/httputil"
)

// SnippetProxyHandler serves the storefront-facing review snippet endpoint,
// called through the Shopify app proxy. Request authenticity (the signed
// query string) is verified upstream; this handler performs no verification.
type SnippetProxyHandler struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

// NewSnippetProxyHandler creates a new snippet proxy HTTP handler.
func NewSnippetProxyHandler(repo repository.SnippetRepository, logger *slog.Logger) *SnippetProxyHandler {
	return &SnippetProxyHandler{
		repo:   repo,
		logger: logger,
	}
}

// snippetProxyResponse is the storefront wire shape. ProductID is a pointer
// so the soft-failure response renders "productId": null.
type snippetProxyResponse struct {
	ProductID     *string `json:"productId"`
	ReviewSnippet string  `json:"reviewSnippet"`
}

// GetSnippet handles GET /proxy/review-snippet?shop=...&productId=...
//
// This endpoint backs a public storefront call path, so it prioritizes
// availability over error visibility: apart from a missing productId (400),
// every outcome — including a store fault — is a 200. A fault returns a null
// product id and an empty snippet rather than a server error the shopper
// would see.
func (h *SnippetProxyHandler) GetSnippet(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	productID := r.URL.Query().Get("productId")

	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Error: "missing productId"})
		return
	}

	// The app proxy always appends shop to the query string; if it is somehow
	// absent, return an empty snippet instead of failing the storefront render.
	if shop == "" {
		httputil.WriteJSON(w, http.StatusOK, snippetProxyResponse{
			ProductID:     &productID,
			ReviewSnippet: "",
		})
		return
	}

	snippet, err := h.repo.GetByShopAndProduct(r.Context(), shop, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			httputil.WriteJSON(w, http.StatusOK, snippetProxyResponse{
				ProductID:     &productID,
				ReviewSnippet: "",
			})
			return
		}

		h.logger.ErrorContext(r.Context(), "snippet proxy lookup failed",
			slog.String("shop", shop),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusOK, snippetProxyResponse{
			ProductID:     nil,
			ReviewSnippet: "",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, snippetProxyResponse{
		ProductID:     &productID,
		ReviewSnippet: snippet.Content,
	})
}
