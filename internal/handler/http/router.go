package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cartedge/coursecart/pkg/health"
	"github.com/cartedge/coursecart/pkg/middleware"
)

// RouterDeps bundles everything the edge router serves.
type RouterDeps struct {
	Carts         CartService
	Catalog       CatalogService
	Checkout      CheckoutService
	HealthHandler *health.Handler
	Logger        *slog.Logger
	CORSOrigins   []string
}

// NewRouter creates a chi router with all edge routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(deps.CORSOrigins))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics())
	r.Use(middleware.Tracing("coursecart"))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(deps.Carts, deps.Catalog, deps.Logger)
	coursesHandler := NewCoursesHandler(deps.Catalog, deps.Logger)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionFromHeaders)

		r.Get("/courses", coursesHandler.ListCourses)
		r.Get("/courses/{courseID}", coursesHandler.GetCourse)
		r.Post("/courses/{courseID}/resolve", coursesHandler.ResolveSelection)

		r.Get("/cart", cartHandler.GetCart)
		r.Delete("/cart", cartHandler.ClearCart)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Delete("/cart/items/{courseID}/{sessionID}", cartHandler.RemoveItem)
		r.Post("/cart/merge", cartHandler.MergeCart)

		r.Post("/checkout", checkoutHandler.Checkout)
		r.Post("/payment", checkoutHandler.Payment)
	})

	return r
}
