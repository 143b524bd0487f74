package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/analytics"
	"github.com/noah-isme/storefront/internal/audit"
	"github.com/noah-isme/storefront/internal/auth"
	"github.com/noah-isme/storefront/internal/booking"
	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/checkout"
	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/health"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/order"
	"github.com/noah-isme/storefront/internal/queue"
	"github.com/noah-isme/storefront/internal/ratelimit"
	"github.com/noah-isme/storefront/internal/reviews"
	"github.com/noah-isme/storefront/internal/security"
	"github.com/noah-isme/storefront/internal/user"
	"github.com/noah-isme/storefront/internal/wishlist"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Catalog   *catalog.Handler
	Reviews   *reviews.Handler
	Cart      *cart.Handler
	Checkout  *checkout.Handler
	Orders    *order.Handler
	Staff     *order.AdminHandler
	Bookings  *booking.Handler
	Wishlist  *wishlist.Handler
	Users     *user.Handler
	Analytics *analytics.Handler
	Audit     audit.Handler
	Queue     *queue.AdminHandler
	Health    health.Handler
}

// RouterConfig carries the cross-cutting middleware.
type RouterConfig struct {
	Logger         zerolog.Logger
	Auth           auth.Middleware
	Idem           common.Idem
	CheckoutLimit  ratelimit.Handler
	HTTPMetrics    *obs.HTTPMetrics
	MetricsHandler http.Handler
	Tracing        bool
	CORSOrigins    []string
	BodyLimit      int64
	SecureHeaders  bool
}

// NewRouter builds the storefront HTTP API.
func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: cfg.HTTPMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: cfg.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.CORSOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Request-ID", "Retry-After"},
		AllowCredentials: len(cfg.CORSOrigins) > 0,
		MaxAge:           300,
	}))
	r.Use(security.Headers{Enable: cfg.SecureHeaders, EnableHSTS: true}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimit}.Middleware)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(audit.RequestContext)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	r.Get("/health/live", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)

	authn := cfg.Auth
	staff := authn.RequireRole(common.RoleCashier, common.RoleAdmin)
	admin := authn.RequireRole(common.RoleAdmin)

	r.Route("/products", func(p chi.Router) {
		p.Get("/", h.Catalog.Products)
		p.Get("/facets", h.Catalog.Facets)
		p.With(authn.RequireAuth, staff).Post("/", h.Catalog.CreateProduct)
		p.Route("/{id}", func(one chi.Router) {
			one.Get("/", h.Catalog.ProductDetail)
			one.Get("/reviews", h.Reviews.List)
			one.Get("/reviews/stats", h.Reviews.Stats)
			one.With(authn.RequireAuth).Post("/reviews", h.Reviews.Create)
		})
	})

	r.Route("/carts", func(c chi.Router) {
		c.Use(authn.Authenticate)
		c.Get("/{id}", h.Cart.Get)
		c.Group(func(g chi.Router) {
			g.Use(cfg.Idem.Middleware)
			g.Post("/", h.Cart.Create)
			g.Post("/{id}/items", h.Cart.AddItem)
			g.Patch("/{id}/items/{productId}", h.Cart.UpdateItem)
			g.Delete("/{id}/items/{productId}", h.Cart.RemoveItem)
			g.Delete("/{id}", h.Cart.Clear)
		})
	})

	r.With(authn.RequireAuth, cfg.CheckoutLimit.Middleware, cfg.Idem.Middleware).Post("/checkout", h.Checkout.Checkout)

	r.Group(func(authR chi.Router) {
		authR.Use(authn.RequireAuth)
		authR.Get("/me", h.Users.Me)
		authR.Patch("/me", h.Users.Update)

		authR.Get("/orders", h.Orders.List)
		authR.Get("/orders/{id}", h.Orders.Get)

		authR.Get("/bookings", h.Bookings.List)
		authR.With(cfg.Idem.Middleware).Post("/bookings", h.Bookings.Create)
		authR.Post("/bookings/{id}/cancel", h.Bookings.Cancel)

		authR.Get("/wishlist", h.Wishlist.List)
		authR.Get("/wishlist/{productId}", h.Wishlist.Check)
		authR.Put("/wishlist/{productId}", h.Wishlist.Add)
		authR.Delete("/wishlist/{productId}", h.Wishlist.Remove)
	})

	r.Route("/staff", func(s chi.Router) {
		s.Use(authn.RequireAuth, staff)
		s.Get("/orders", h.Staff.List)
		s.Post("/orders/{id}/approve", h.Staff.Approve)
		s.Post("/orders/{id}/reject", h.Staff.Reject)
	})

	r.Route("/admin", func(a chi.Router) {
		a.Use(authn.RequireAuth, admin)
		a.Get("/orders", h.Staff.List)
		a.Post("/cashiers", h.Users.GrantCashier)
		a.Get("/overview", h.Analytics.Overview)
		a.Get("/audit", h.Audit.List)
		if h.Queue != nil {
			a.Get("/queue/stats", h.Queue.Stats)
			a.Get("/queue/dlq", h.Queue.ListDLQ)
			a.Post("/queue/dlq/replay", h.Queue.ReplayDLQ)
		}
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
