package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/config"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/events"
	"github.com/noah-isme/storefront/internal/lock"
	"github.com/noah-isme/storefront/internal/notify"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, queries := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	connOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse asynq redis uri")
	}

	notifyHandler := &notify.Handler{
		Q:       queries,
		Mail:    common.LogEmailSender{Logger: logger.With().Str("from", cfg.NotifyEmailFrom).Logger()},
		Enabled: cfg.NotifyEmailEnabled,
		Topics:  topicFilter(envOrDefault("NOTIFY_TOPICS", "")),
		Lock:    lock.Locker{R: redisClient, RetryBackoff: cfg.LockRetryBackoff, MaxWait: 5 * time.Second},
		LockTTL: 30 * time.Second,
		Logger:  logger,
	}

	mux := queue.NewMux(logger)
	mux.Handle(events.TaskNotify, notifyHandler.Handle)

	if addr := envOrDefault("WORKER_METRICS_ADDR", ""); addr != "" {
		metricsSrv := &http.Server{Addr: addr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server exited")
			}
		}()
		defer metricsSrv.Close()
	}

	srv := queue.NewServer(connOpt, queue.DefaultQueue, cfg.WorkerConcurrency, logger)
	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker starting")
	if err := srv.Start(mux.Handler()); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}

	<-ctx.Done()
	logger.Info().Msg("worker draining")
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

func topicFilter(csv string) map[string]bool {
	if csv == "" {
		return nil
	}
	topics := make(map[string]bool)
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics[t] = true
		}
	}
	return topics
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, *dbgen.Queries) {
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, obs.PGXTracer{})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	return pool, dbgen.New(pool)
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
