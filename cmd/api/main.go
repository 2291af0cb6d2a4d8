package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freshkart/internal/cart"
	"freshkart/internal/config"
	"freshkart/internal/database"
	"freshkart/internal/discount"
	"freshkart/internal/events"
	"freshkart/internal/handler"
	"freshkart/internal/payment"
	"freshkart/internal/pricing"
	"freshkart/internal/repository"
	"freshkart/internal/router"
	"freshkart/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting freshkart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	inventoryRepo := repository.NewInventoryRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)
	backOfficeRepo := repository.NewBackOfficeRepository(pool, logger)

	cartStore, closeCartStore, err := newCartStore(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeCartStore()

	publisher := newPublisher(cfg.Kafka, logger)
	defer publisher.Close()

	// Discount code files come from S3 with a local fallback
	fileLoader := discount.NewFileLoader(logger)
	var s3Loader discount.Loader
	if cfg.S3.Enabled {
		s3Loader, err = discount.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		}
	} else {
		logger.Info().Msg("using local file system for discount code files (S3 disabled)")
	}
	codeLoader := discount.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	importer := discount.NewImporter(codeLoader, discountRepo, logger)
	validator := discount.NewValidator(discountRepo, logger)

	policy := pricing.NewPolicy(cfg.Delivery.FreeThreshold, cfg.Delivery.Fee)
	gateway := payment.NewClient(cfg.Payment, logger)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, logger)
	cartService := service.NewCartService(cartStore, catalogRepo, validator, policy, logger)
	orderService := service.NewOrderService(orderRepo, inventoryRepo, discountRepo, validator, publisher, logger)
	paymentService := service.NewPaymentService(gateway, orderRepo, orderService, cfg.Payment, publisher, logger)
	addressService := service.NewAddressService(addressRepo, logger)
	checkoutService := service.NewCheckoutService(cartStore, addressService, paymentService, orderService, validator, policy, logger)
	reviewService := service.NewReviewService(reviewRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, logger)
	profileService := service.NewProfileService(profileRepo, logger)
	adminService := service.NewAdminService(catalogRepo, inventoryRepo, pool, discountRepo, backOfficeRepo, importer, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, cartService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Payment:  handler.NewPaymentHandler(paymentService, logger),
		Address:  handler.NewAddressHandler(addressService, logger),
		Review:   handler.NewReviewHandler(reviewService, logger),
		Account:  handler.NewAccountHandler(wishlistService, profileService, logger),
		Admin:    handler.NewAdminHandler(adminService, orderService, logger),
	}, router.Options{
		AdminAPIKey:    cfg.Auth.APIKey,
		JWTSecret:      cfg.Auth.JWTSecret,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
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

// newCartStore returns the Redis cart store when enabled, otherwise an
// in-process store that does not survive restarts.
func newCartStore(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (cart.Store, func(), error) {
	if !cfg.Enabled {
		logger.Warn().Msg("redis disabled, carts are kept in memory")
		return cart.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Dur("ttl", cfg.CartTTL).Msg("redis cart store connected")
	return cart.NewRedisStore(client, cfg.CartTTL, logger), func() { client.Close() }, nil
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled {
		return events.NopPublisher{}
	}
	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("publishing order events to kafka")
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
}
