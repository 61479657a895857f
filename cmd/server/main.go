package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	checkoutroot "github.com/openlearn/checkout"
	"github.com/openlearn/checkout/internal/api"
	"github.com/openlearn/checkout/internal/cache"
	"github.com/openlearn/checkout/internal/config"
	"github.com/openlearn/checkout/internal/metrics"
	"github.com/openlearn/checkout/internal/notify"
	"github.com/openlearn/checkout/internal/outbox"
	"github.com/openlearn/checkout/internal/repository"
	"github.com/openlearn/checkout/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(checkoutroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Optional coupon read cache
	var couponCache *cache.CouponCache
	if cfg.RedisURL != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		couponCache = cache.NewCouponCache(rdb, cfg.CouponCacheTTL)
		slog.Info("coupon cache enabled", "ttl", cfg.CouponCacheTTL)
	}

	// Initialize services
	txManager := repository.NewTxManager(pool)
	couponService := service.NewCouponService(repository.NewCouponRepo(pool), couponCache)
	enrollmentBatch := service.NewEnrollmentBatch(txManager)
	checkoutService := service.NewCheckoutService(
		txManager,
		couponService,
		service.NewGatewayProcessor(cfg),
		&service.MockProcessor{},
		enrollmentBatch,
		couponCache,
		cfg.OrderEventsTopic,
	)

	// Optional ops notifications
	notifier, err := notify.New(cfg.OpsBotToken, cfg.OpsChatID)
	if err != nil {
		slog.Error("failed to create ops notifier", "error", err)
		os.Exit(1)
	}
	if notifier != nil {
		slog.Info("ops notifications enabled", "chat_id", cfg.OpsChatID)
	}

	// Optional outbox relay
	if brokers := outbox.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		writer := outbox.NewWriter(brokers)
		defer writer.Close()
		relay := outbox.NewRelay(pool, writer, cfg.OutboxPollInterval)
		go relay.Run(ctx)
		slog.Info("outbox relay started", "brokers", brokers, "topic", cfg.OrderEventsTopic)
	}

	router := api.NewRouter(api.Deps{
		Checkout:   checkoutService,
		Coupons:    couponService,
		Notifier:   notifier,
		Metrics:    metrics.NewCheckoutMetrics(),
		AdminToken: cfg.AdminToken,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
