package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zeeshukhan/shopify-custom-app/internal/repository"
	"github.com/zeeshukhan/shopify-custom-app/internal/service"
	"github.com/zeeshukhan/shopify-custom-app/pkg/health"
	"github.com/zeeshukhan/shopify-custom-app/pkg/middleware"
)

// NewRouter creates a chi router with all app routes registered.
//
// The admin surface (/api/products) sits behind session-token auth; the
// storefront proxy endpoint does not — the app proxy's signature check runs
// upstream of this service.
func NewRouter(
	pageService *service.ProductPageService,
	snippetRepo repository.SnippetRepository,
	healthHandler *health.Handler,
	apiSecret string,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("shopify-custom-app"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	// Prometheus metrics endpoint
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Embedded admin API endpoints
	pageHandler := NewProductPageHandler(pageService, logger)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(SessionAuth(apiSecret))

		r.Get("/", pageHandler.ListProducts)
		r.Post("/", pageHandler.UpdatePrice)
	})

	// Storefront app-proxy endpoint (unauthenticated here)
	proxyHandler := NewSnippetProxyHandler(snippetRepo, logger)

	r.Get("/proxy/review-snippet", proxyHandler.GetSnippet)

	return r
}
