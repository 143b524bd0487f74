package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/analytics"
	"github.com/noah-isme/storefront/internal/audit"
	"github.com/noah-isme/storefront/internal/auth"
	"github.com/noah-isme/storefront/internal/booking"
	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/checkout"
	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/config"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/events"
	"github.com/noah-isme/storefront/internal/health"
	"github.com/noah-isme/storefront/internal/lock"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/order"
	"github.com/noah-isme/storefront/internal/queue"
	"github.com/noah-isme/storefront/internal/ratelimit"
	"github.com/noah-isme/storefront/internal/resilience"
	"github.com/noah-isme/storefront/internal/reviews"
	"github.com/noah-isme/storefront/internal/user"
	"github.com/noah-isme/storefront/internal/wishlist"
)

// Dependencies holds the shared infrastructure clients built at startup.
type Dependencies struct {
	Config    *config.Config
	Logger    zerolog.Logger
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Queries   *dbgen.Queries
	Tasks     *asynq.Client
	Inspector *asynq.Inspector
	Events    *events.Bus
	Locker    lock.Locker

	closers []func() error
}

// Options tweak infrastructure that differs between the api and tests.
type Options struct {
	Tracing          bool
	Registry         prometheus.Registerer
	MetricsNamespace string
	LatencyBuckets   []float64
	// ExposeMetrics mounts /metrics on the API router.
	ExposeMetrics bool
}

// NewDependencies connects to Postgres, Redis and the optional AMQP broker.
// Close must be called to release them.
func NewDependencies(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*Dependencies, error) {
	d := &Dependencies{Config: cfg, Logger: logger}

	if cfg.DBAutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Msg("database migrations applied")
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, obs.PGXTracer{})
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	d.DB = pool
	d.closers = append(d.closers, func() error { pool.Close(); return nil })
	d.Queries = dbgen.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if opts.Tracing {
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			logger.Warn().Err(err).Msg("redis tracing instrumentation failed")
		}
		if err := redisotel.InstrumentMetrics(rdb); err != nil {
			logger.Warn().Err(err).Msg("redis metrics instrumentation failed")
		}
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		d.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	d.Redis = rdb
	d.closers = append(d.closers, rdb.Close)

	connOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("parse asynq redis uri: %w", err)
	}
	d.Tasks = asynq.NewClient(connOpt)
	d.Inspector = asynq.NewInspector(connOpt)
	d.closers = append(d.closers, d.Tasks.Close, d.Inspector.Close)

	bus := &events.Bus{
		Store: d.Queries,
		Scheduler: events.QueueScheduler{
			Queue:       queue.Enqueuer{Client: d.Tasks, Queue: queue.DefaultQueue},
			MaxAttempts: 8,
		},
	}
	if cfg.EventsAMQPURL != "" {
		var (
			pub       *events.AMQPPublisher
			closeAMQP func() error
		)
		err := resilience.Retry(ctx, 3, 500*time.Millisecond, func(context.Context) error {
			var dialErr error
			pub, closeAMQP, dialErr = events.DialAMQP(cfg.EventsAMQPURL, cfg.EventsAMQPExchange)
			return dialErr
		})
		if err != nil {
			logger.Warn().Err(err).Msg("amqp unavailable, events will not be broadcast")
		} else {
			pub.Breaker = resilience.NewBreaker("amqp", 5, 0.5, 30*time.Second).WithLogger(logger)
			bus.Notifiers = append(bus.Notifiers, pub)
			d.closers = append(d.closers, closeAMQP)
		}
	}
	d.Events = bus
	d.Locker = lock.Locker{R: rdb, RetryBackoff: cfg.LockRetryBackoff, MaxWait: cfg.CheckoutLockTTL}

	return d, nil
}

// Close releases every client in reverse order of creation.
func (d *Dependencies) Close() error {
	var joined error
	for i := len(d.closers) - 1; i >= 0; i-- {
		joined = errors.Join(joined, d.closers[i]())
	}
	d.closers = nil
	return joined
}

// Server bundles what cmd/api needs to serve HTTP.
type Server struct {
	Handler http.Handler
	Metrics *obs.HTTPMetrics
}

// NewServer wires services and handlers on top of the shared dependencies.
func NewServer(d *Dependencies, opts Options) (*Server, error) {
	cfg := d.Config
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := opts.MetricsNamespace
	if ns == "" {
		ns = "storefront"
	}
	obs.MustRegisterDomainMetrics(ns, reg)
	httpMetrics := obs.NewHTTPMetrics(ns, opts.LatencyBuckets, reg)
	var metricsHandler http.Handler
	if opts.ExposeMetrics {
		metricsHandler = promhttp.Handler()
	}

	auditSvc := &audit.Service{Store: d.Queries, Enabled: cfg.AuditEnabled, Logger: d.Logger}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Queries:      d.Queries,
		Cache:        catalog.NewCache(d.Redis, cfg.CatalogCacheTTL),
		Audit:        auditSvc,
		DefaultLimit: cfg.CatalogDefaultLimit,
		MaxLimit:     cfg.CatalogMaxLimit,
	})
	if err != nil {
		return nil, err
	}

	carts := &cart.RedisStore{R: d.Redis, TTL: cfg.CartTTL}
	cartSvc := &cart.Service{Store: carts, Catalog: catalogSvc, Lock: d.Locker, LockTTL: cfg.CheckoutLockTTL}
	checkoutSvc := &checkout.Service{
		DB:      d.DB,
		Carts:   carts,
		Lock:    d.Locker,
		Events:  d.Events,
		LockTTL: cfg.CheckoutLockTTL,
		Logger:  d.Logger,
	}
	orderSvc := &order.Service{Q: d.Queries, Events: d.Events, Audit: auditSvc}
	bookingSvc := &booking.Service{Q: d.Queries, Events: d.Events, AutoConfirm: cfg.BookingAutoConfirm}
	userSvc := &user.Service{Q: d.Queries, Audit: auditSvc}
	analyticsSvc := &analytics.Service{Q: d.Queries, R: d.Redis, TTL: cfg.AdminOverviewTTL}

	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		ClockSkew: cfg.JWTClockSkew,
	})
	if err != nil {
		return nil, err
	}

	limiter, err := newLimiter(cfg, d.Redis)
	if err != nil {
		return nil, err
	}
	logger := d.Logger

	handlers := Handlers{
		Catalog:   catalog.NewHandler(catalog.HandlerConfig{Service: catalogSvc}),
		Reviews:   &reviews.Handler{Svc: &reviews.Service{Q: d.Queries}},
		Cart:      &cart.Handler{Svc: cartSvc},
		Checkout:  &checkout.Handler{Svc: checkoutSvc},
		Orders:    &order.Handler{Svc: orderSvc},
		Staff:     &order.AdminHandler{Svc: orderSvc},
		Bookings:  &booking.Handler{Svc: bookingSvc},
		Wishlist:  &wishlist.Handler{Svc: &wishlist.Service{Q: d.Queries}},
		Users:     &user.Handler{Service: userSvc},
		Analytics: &analytics.Handler{Svc: analyticsSvc},
		Audit:     audit.Handler{Svc: auditSvc},
		Queue:     &queue.AdminHandler{Inspector: d.Inspector, Queue: queue.DefaultQueue, Logger: logger},
		Health:    health.Handler{Checker: health.Deps{Pool: d.DB, Redis: d.Redis}},
	}

	router := NewRouter(RouterConfig{
		Logger: logger,
		Auth:   auth.Middleware{Verifier: verifier, Roles: userSvc, Logger: logger},
		Idem:   common.Idem{R: d.Redis, TTL: cfg.IdempotencyTTL},
		CheckoutLimit: ratelimit.Handler{
			Limiter: limiter,
			Config:  ratelimit.Config{Key: ratelimit.ByUserOrIP("checkout"), Window: cfg.RateLimitWindow, Max: cfg.RateLimitMax},
			OnError: func(err error) { logger.Warn().Err(err).Msg("rate limiter unavailable") },
		},
		HTTPMetrics:    httpMetrics,
		MetricsHandler: metricsHandler,
		Tracing:        opts.Tracing,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		BodyLimit:      cfg.BodyLimitBytes,
		SecureHeaders:  cfg.SecureHeaders,
	}, handlers)

	return &Server{Handler: router, Metrics: httpMetrics}, nil
}

func newLimiter(cfg *config.Config, rdb *redis.Client) (ratelimit.Limiter, error) {
	if cfg.RateLimitBackend == config.RateLimitFixed {
		return ratelimit.NewFixedWindow(rdb, "rl:fixed")
	}
	return ratelimit.SlidingWindow{Client: rdb, Prefix: "rl:sliding"}, nil
}
