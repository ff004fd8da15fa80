package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shop-directory/internal/api/http"
	"github.com/spec-kit/shop-directory/internal/api/http/handlers"
	"github.com/spec-kit/shop-directory/internal/auth"
	"github.com/spec-kit/shop-directory/internal/config"
	"github.com/spec-kit/shop-directory/internal/events"
	"github.com/spec-kit/shop-directory/internal/guard"
	"github.com/spec-kit/shop-directory/internal/observability"
	"github.com/spec-kit/shop-directory/internal/persistence"
	"github.com/spec-kit/shop-directory/internal/ratelimit"
	"github.com/spec-kit/shop-directory/internal/repository"
	"github.com/spec-kit/shop-directory/internal/service"
	"github.com/spec-kit/shop-directory/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	logger.Info("document store ready", zap.String("driver", cfg.Store.Driver))

	redisClient := persistence.NewRedis(ctx, cfg.Redis, logger)
	var claims guard.Guard = guard.NewLocal()
	if redisClient != nil {
		defer redisClient.Close()
		claims = guard.NewRedis(redisClient, cfg.App.Name+":claim:", cfg.Redis.ClaimTTL())
	}

	var tokens *auth.TokenManager
	if cfg.Auth.Enabled {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	}

	userRepo := repository.NewUserRepository(store)
	businessRepo := repository.NewBusinessRepository(store)
	productRepo := repository.NewProductRepository(store)
	reviewRepo := repository.NewReviewRepository(store)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	accountService := service.NewAccountService(service.AccountDependencies{
		UserRepo:   userRepo,
		Guard:      claims,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	listingService := service.NewListingService(service.ListingDependencies{
		BusinessRepo: businessRepo,
		Guard:        claims,
		Dispatcher:   dispatcher,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		BusinessRepo: businessRepo,
		ProductRepo:  productRepo,
		Metrics:      service.NewPlaceholderMetrics(cfg.Stats),
		Dispatcher:   dispatcher,
	})
	publicService := service.NewPublicService(service.PublicDependencies{
		BusinessRepo: businessRepo,
		ProductRepo:  productRepo,
		ReviewRepo:   reviewRepo,
		Dispatcher:   dispatcher,
	})

	limiter := ratelimit.NewLimiterStore(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, time.Minute)
	defer limiter.Stop()

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(httptransport.AppConfig{
		Name:      cfg.App.Name,
		BodyLimit: cfg.App.BodyLimit(),
	}, logger, metrics)
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	dependencies := map[string]handlers.Pinger{"store": store}
	if redisClient != nil {
		dependencies["redis"] = redisPinger(redisClient)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, dependencies),
		Accounts:       handlers.NewAccountHandler(accountService),
		Listings:       handlers.NewListingHandler(listingService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Public:         handlers.NewPublicHandler(publicService),
		AuthMiddleware: auth.NewAuthMiddleware(cfg.Auth.Enabled, tokens, userRepo),
		AccountLimiter: limiter,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Bool("auth_enabled", cfg.Auth.Enabled))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := store.Close(closeCtx); err != nil {
		logger.Warn("closing document store", zap.Error(err))
	}
}

func redisPinger(client *goredis.Client) handlers.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
