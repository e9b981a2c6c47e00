package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khaizansolutions/khaizan-storefront/api/controllers"
	quotecontrollers "github.com/khaizansolutions/khaizan-storefront/api/controllers/quote"
	"github.com/khaizansolutions/khaizan-storefront/api/middleware"
	"github.com/khaizansolutions/khaizan-storefront/internal/catalog"
	"github.com/khaizansolutions/khaizan-storefront/internal/quote"
	"github.com/khaizansolutions/khaizan-storefront/pkg/config"
	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
	"github.com/khaizansolutions/khaizan-storefront/pkg/metrics"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config         *config.Config
	Logger         *logger.Logger
	QuoteService   quote.Service
	CatalogService catalog.Service
	HTTPMetrics    *metrics.HTTPMetrics
	Registry       *prometheus.Registry
	Pingers        map[string]controllers.Pinger
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.CatalogService, logg))
			r.Get("/featured", controllers.FeaturedList(deps.CatalogService, logg))
			r.Get("/facets", controllers.ProductFacets(deps.CatalogService, logg))
			r.Get("/{slug}", controllers.ProductFetch(deps.CatalogService, logg))
		})

		r.Get("/categories", controllers.CategoryList(deps.CatalogService, logg))

		r.Route("/quote", func(r chi.Router) {
			r.Use(middleware.SessionID(logg, cfg.App.IsProd()))

			r.Get("/", quotecontrollers.QuoteFetch(deps.QuoteService, logg))
			r.Delete("/", quotecontrollers.QuoteClear(deps.QuoteService, logg))
			r.Get("/count", quotecontrollers.QuoteCount(deps.QuoteService, logg))
			r.Post("/submit", quotecontrollers.QuoteSubmit(deps.QuoteService, logg))

			r.Route("/items", func(r chi.Router) {
				r.Post("/", quotecontrollers.QuoteItemAdd(deps.QuoteService, logg))
				r.Put("/{productID}", quotecontrollers.QuoteItemUpdate(deps.QuoteService, logg))
				r.Delete("/{productID}", quotecontrollers.QuoteItemRemove(deps.QuoteService, logg))
			})
		})
	})

	return r
}
