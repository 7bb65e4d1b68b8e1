package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lsnsvra/UPB-Pedia/internal/cart"
	"github.com/lsnsvra/UPB-Pedia/internal/catalog"
	"github.com/lsnsvra/UPB-Pedia/internal/config"
	"github.com/lsnsvra/UPB-Pedia/internal/currency"
	"github.com/lsnsvra/UPB-Pedia/internal/order"
	"github.com/lsnsvra/UPB-Pedia/internal/payment"
	"github.com/lsnsvra/UPB-Pedia/internal/session"
	"github.com/lsnsvra/UPB-Pedia/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("service configuration",
		zap.String("port", cfg.HTTPPort),
		zap.String("catalog_base_url", cfg.CatalogBaseURL),
		zap.Duration("order_ttl", cfg.OrderTTL),
		zap.Bool("redis_sessions", cfg.RedisAddr != ""))

	// Session backend: Redis when configured, in-memory otherwise.
	var sessions session.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		sessions = session.NewRedisStore(client, cfg.SessionTTL)
	} else {
		memStore := session.NewMemoryStore(cfg.SessionTTL)
		defer memStore.Close()
		sessions = memStore
	}

	converter := currency.New(cfg.ExchangeRate)
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout, logger)
	carts := cart.NewStore(sessions, logger)
	pricer := cart.NewPricer(catalogClient, converter)
	methods := payment.NewRegistry()
	ledger := order.NewLedger(sessions, carts, pricer, methods, converter, cfg.OrderTTL, cfg.PaymentDelay, logger)

	renderer, err := web.NewRenderer(logger)
	if err != nil {
		logger.Fatal("failed to build renderer", zap.Error(err))
	}

	handlers := web.NewHandlers(catalogClient, carts, pricer, ledger, methods, converter, sessions, renderer, logger)
	router := web.NewRouter(handlers, logger, 30*time.Second)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	return logger
}
