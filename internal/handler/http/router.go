package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m-akash/e-commerce-inventory-api/pkg/health"
	"github.com/m-akash/e-commerce-inventory-api/pkg/middleware"
)

// RouterConfig holds the dependencies for building the HTTP router.
type RouterConfig struct {
	Products   *ProductHandler
	Categories *CategoryHandler
	Health     *health.Handler
	Auth       middleware.TokenValidator
	CORS       middleware.CORSConfig
	Logger     *slog.Logger
}

// NewRouter builds the chi router with the full middleware stack. All /api
// routes require a valid bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.PrometheusMetrics())

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Auth(cfg.Auth))

		api.Route("/products", func(pr chi.Router) {
			pr.Post("/", cfg.Products.Create)
			pr.Get("/", cfg.Products.List)
			pr.Get("/search", cfg.Products.Search)

			pr.Route("/{id}", func(ir chi.Router) {
				ir.Get("/", cfg.Products.Get)
				ir.Patch("/", cfg.Products.Update)
				ir.Delete("/", cfg.Products.Delete)
				ir.Post("/upload-image", cfg.Products.UploadImage)
				ir.Delete("/image", cfg.Products.DeleteImage)
			})
		})

		api.With(middleware.CacheControl(5 * time.Minute)).
			Get("/categories", cfg.Categories.List)
	})

	return r
}
