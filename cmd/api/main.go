package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prolens/internal/auth"
	"prolens/internal/cache"
	"prolens/internal/catalog"
	"prolens/internal/config"
	"prolens/internal/database"
	"prolens/internal/events"
	"prolens/internal/handler"
	"prolens/internal/metrics"
	"prolens/internal/repository"
	"prolens/internal/router"
	"prolens/internal/service"
	"prolens/internal/validate"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting prolens API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// Repositories
	txManager := repository.NewTxManager(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	shippingRepo := repository.NewShippingRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)

	productCache := cache.NewNopProductCache()
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, product cache disabled")
		} else {
			defer client.Close()
			productCache = cache.NewRedisProductCache(client, cfg.Redis.TTL, logger)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("product cache enabled")
		}
	}

	publisher := events.NewNopPublisher()
	if cfg.Kafka.Enabled {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		publisher = events.NewKafkaPublisher(writer, logger)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.OrderTopic).
			Msg("order event publishing enabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	validator := validate.New()

	seedCatalog(ctx, cfg, productRepo, validator, logger)

	// Services
	productService := service.NewProductService(productRepo, productCache, logger)
	cartService := service.NewCartService(txManager, cartRepo, productRepo, logger)
	orderService := service.NewOrderService(
		txManager, cartRepo, productRepo, orderRepo, shippingRepo,
		productCache, publisher, m, logger,
	)
	shippingService := service.NewShippingService(shippingRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, logger)

	handlers := router.Handlers{
		Product:  handler.NewProductHandler(productService, validator, logger),
		Cart:     handler.NewCartHandler(cartService, validator, logger),
		Order:    handler.NewOrderHandler(orderService, validator, logger),
		Shipping: handler.NewShippingHandler(shippingService, validator, logger),
		Review:   handler.NewReviewHandler(reviewService, validator, logger),
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	mux := router.New(handlers, tokens, m, registry, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// seedCatalog imports the configured seed files. Failures leave the catalog as it is.
func seedCatalog(ctx context.Context, cfg *config.Config, store catalog.Store, validator *validate.Validator, logger zerolog.Logger) {
	if len(cfg.Catalog.SeedFiles) == 0 {
		logger.Info().Msg("no catalog seed files configured")
		return
	}

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		l, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for catalog files (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, catalog.NewFileLoader(logger), cfg.S3.Prefix, cfg.S3.Enabled, logger)
	importer := catalog.NewImporter(loader, store, validator, logger)

	if _, err := importer.Import(ctx, cfg.Catalog.SeedFiles); err != nil {
		logger.Warn().Err(err).Msg("catalog seed failed")
	}
}
