package http

import (
	"log/slog"
	"net/http"

	"github.com/zeeshukhan/shopify-custom-app/internal/service"
	"github.com/zeeshukhan/shopify-custom-app/pkg/httputil"
	"github.com/zeeshukhan/shopify-custom-app/pkg/validator"
)

// ProductPageHandler handles the embedded admin's product page: a paginated
// product list on GET, a price + snippet submission on POST.
type ProductPageHandler struct {
	service *service.ProductPageService
	logger  *slog.Logger
}

// NewProductPageHandler creates a new product page HTTP handler.
func NewProductPageHandler(svc *service.ProductPageService, logger *slog.Logger) *ProductPageHandler {
	return &ProductPageHandler{
		service: svc,
		logger:  logger,
	}
}

// UpdatePriceRequest is the form body of a price-update submission.
type UpdatePriceRequest struct {
	ProductID     string `validate:"required"`
	VariantID     string `validate:"required"`
	Price         string
	ReviewSnippet string
}

type okBody struct {
	OK bool `json:"ok"`
}

// ListProducts handles GET /api/products.
//
// Query parameters: cursor (opaque, optional) and direction
// (forward|backward, default forward). Responds with one page of products and
// the snippet map for that page:
//
//	{"products": {"edges": [...], "pageInfo": {...}}, "snippetMap": {...}}
func (h *ProductPageHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeAuthError(w, "missing session")
		return
	}

	cursor := r.URL.Query().Get("cursor")
	direction := r.URL.Query().Get("direction")

	result, err := h.service.ListPage(r.Context(), sess, cursor, direction)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// UpdatePrice handles POST /api/products.
//
// Accepts a form-encoded body with productId, variantId, price, and an
// optional reviewSnippet. The variant price is updated in Shopify first; the
// snippet is upserted locally only if the mutation reports no userErrors.
func (h *ProductPageHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeAuthError(w, "missing session")
		return
	}

	if err := r.ParseForm(); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Error: "invalid form body"})
		return
	}

	req := UpdatePriceRequest{
		ProductID:     r.PostFormValue("productId"),
		VariantID:     r.PostFormValue("variantId"),
		Price:         r.PostFormValue("price"),
		ReviewSnippet: r.PostFormValue("reviewSnippet"),
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Error: "missing product or variant id"})
		return
	}

	input := service.UpdatePriceInput{
		ProductID:     req.ProductID,
		VariantID:     req.VariantID,
		Price:         req.Price,
		ReviewSnippet: req.ReviewSnippet,
	}

	if err := h.service.UpdatePrice(r.Context(), sess, input); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, okBody{OK: true})
}
