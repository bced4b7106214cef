package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"storehub-backend/config"
	"storehub-backend/internal/delivery/http/middleware"
	v1 "storehub-backend/internal/delivery/http/v1"
	"storehub-backend/internal/domain"
	"storehub-backend/internal/infrastructure/aigateway"
	"storehub-backend/internal/infrastructure/cache"
	"storehub-backend/internal/infrastructure/metrics"
	"storehub-backend/internal/infrastructure/realtime"
	"storehub-backend/internal/infrastructure/telegram"
	"storehub-backend/internal/repository/pgstore"
	"storehub-backend/internal/usecase"
	"storehub-backend/pkg/logger"
	"storehub-backend/pkg/utils"
)

const serviceName = "storehub-backend"

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := pgstore.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	storeRepo := pgstore.NewStoreRepository(pgxPool)
	productRepo := pgstore.NewProductRepository(pgxPool)
	categoryRepo := pgstore.NewCategoryRepository(pgxPool)
	catalogRepo := pgstore.NewCatalogRepository(pgxPool)
	orderRepo := pgstore.NewOrderRepository(pgxPool)
	txManager := pgstore.NewTransactionManager(pgxPool)

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 10m; entries set their own TTLs
	memCache := cache.NewMemoryCache(30*time.Minute, 10*time.Minute)
	clientStorage := cache.NewKeyValueStorage(memCache, "client:", cfg.CartTTL)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Realtime: one LISTEN connection feeding an in-process hub
	appCtx, stopBackground := context.WithCancel(context.Background())
	hub := realtime.NewHub(64)
	listener := realtime.NewListener(pgxPool, cfg.RealtimeChannel, realtime.PublisherFunc(func(evt domain.ChangeEvent) {
		if !evt.IsResync() {
			appMetrics.RealtimeEvent(evt.Table)
		}
		hub.Publish(evt)
	}))
	go func() {
		if err := listener.Run(appCtx); err != nil {
			log.Error().Err(err).Msg("[Realtime] Listener stopped")
		}
	}()

	// Integrations
	notifier := telegram.NewClient(cfg.TelegramAPIURL, cfg.TelegramBotToken)
	assistant := aigateway.NewClient(cfg.AIGatewayURL, cfg.AIGatewayKey, cfg.AIModel, cfg.AITimeout)

	// --- Modules Initialization ---

	// Tenancy and storefront
	resolverUC := usecase.NewResolverUsecase(storeRepo, cfg.PlatformDomains, memCache, cfg.CacheDomainTTL, appMetrics)
	storefrontUC := usecase.NewStorefrontUsecase(storeRepo, productRepo, categoryRepo, memCache, cfg.CacheStorefrontTTL)
	invalidator := usecase.NewCacheInvalidator(hub, storefrontUC, resolverUC)
	go invalidator.Run(appCtx)

	// Buyer state
	cartUC := usecase.NewCartUsecase(clientStorage, cfg.MaxCartQuantity)
	favoritesUC := usecase.NewFavoritesUsecase(clientStorage)

	// Orders
	orderUC := usecase.NewOrderUsecase(storeRepo, orderRepo, notifier, appMetrics)

	// Seller back office
	sellerCategoryUC := usecase.NewSellerCategoryUsecase(storeRepo, categoryRepo, catalogRepo, hub, storefrontUC, cfg.LiveListRefresh, cfg.LiveListIdleTTL)
	go sellerCategoryUC.RunJanitor(appCtx, time.Minute)
	trashUC := usecase.NewTrashUsecase(storeRepo, productRepo, txManager, storefrontUC)
	sellerOrderUC := usecase.NewSellerOrderUsecase(storeRepo, orderRepo)
	aiUC := usecase.NewAIUsecase(storeRepo, productRepo, assistant)

	handlers := v1.Handlers{
		Storefront: v1.NewStorefrontHandler(resolverUC, storefrontUC),
		Cart:       v1.NewCartHandler(cartUC, favoritesUC),
		Order:      v1.NewOrderHandler(orderUC),
		Seller:     v1.NewSellerHandler(sellerCategoryUC, trashUC, sellerOrderUC, aiUC),
		Health:     v1.NewHealthHandler(pgxPool),
	}

	// Set up Router
	mux := http.NewServeMux()
	handlers.Register(mux)
	mux.Handle("GET /metrics", metrics.Handler(registry))

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Rate limiter with lifecycle management: cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
		cfg.TrustedProxyHeaders,
	)

	// Metrics sits on the mux so route patterns are visible; CORS wraps everything so
	// rate limited responses still carry the headers.
	handler := middleware.Metrics(appMetrics)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = middleware.NewCORSMiddleware(cfg)(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, cfg.Env, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop background work after in-flight requests are done
	rateLimiter.Shutdown()
	stopBackground()
	sellerCategoryUC.Close()
	hub.Close()
	pgxPool.Close()

	logger.ServiceStop(serviceName)
}
