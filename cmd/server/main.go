package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/blekas10/shopnatural-checkout/internal/checkout"
	"github.com/blekas10/shopnatural-checkout/internal/config"
	"github.com/blekas10/shopnatural-checkout/internal/events"
	"github.com/blekas10/shopnatural-checkout/internal/i18n"
	"github.com/blekas10/shopnatural-checkout/internal/logging"
	"github.com/blekas10/shopnatural-checkout/internal/orders"
	"github.com/blekas10/shopnatural-checkout/internal/pickup"
	"github.com/blekas10/shopnatural-checkout/internal/promo"
	"github.com/blekas10/shopnatural-checkout/internal/server"
	"github.com/blekas10/shopnatural-checkout/internal/store"
	"github.com/blekas10/shopnatural-checkout/internal/validation"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	var kv store.KV
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, snapshots held in memory only", "error", err)
		kv = store.NewMemoryKV()
	} else {
		kv = store.NewRedisKV(redisClient, "checkout:", cfg.Checkout.SnapshotTTL)
	}

	validator := validation.NewValidator(validation.LibPhoneChecker{}, i18n.Fallback, cfg.Checkout.HomeCountry)
	promoValidator := promo.NewHTTPValidator(cfg.External.PromoServiceURL, cfg.External.ClientTimeout)
	pickupFetcher := pickup.NewHTTPFetcher(cfg.External.PickupServiceURL, cfg.External.ClientTimeout)
	orderClient := orders.NewClient(cfg.External.OrderServiceURL, cfg.External.ClientTimeout)

	var publisher checkout.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers...)
		defer kafkaPub.Close()
		publisher = kafkaPub
		logger.Info("kafka event publishing enabled", "brokers", cfg.Kafka.Brokers)
	}

	sessions := checkout.NewManager(cfg.Checkout.SessionIdleTTL)
	defer sessions.Close()

	engine := checkout.NewEngine(
		checkout.Config{
			VatRate:     cfg.Checkout.VatRate,
			HomeCountry: cfg.Checkout.HomeCountry,
		},
		validator,
		promoValidator,
		pickupFetcher,
		checkout.NewSnapshotStore(kv),
		orderClient,
		publisher,
		sessions,
	)

	router := server.NewRouter(
		server.NewCheckoutHandler(engine, cfg.HTTP.RequestTimeout),
		server.NewCartHandler(cfg.Checkout.VatRate),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: router,
	}

	go func() {
		logger.Info("checkout service listening", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
