package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"netparc/backend/libs/db"
	"netparc/backend/libs/metrics"
	libredis "netparc/backend/libs/redis"
	"netparc/backend/services/billing-service/internal/clients"
	"netparc/backend/services/billing-service/internal/config"
	httpserver "netparc/backend/services/billing-service/internal/http"
	"netparc/backend/services/billing-service/internal/http/handlers"
	redisstore "netparc/backend/services/billing-service/internal/redis"
	"netparc/backend/services/billing-service/internal/repository"
	"netparc/backend/services/billing-service/internal/service"
)

// App wires billing-service dependencies.
type App struct {
	server      *httpserver.Server
	reconciler  *service.Reconciler
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := db.NewPostgres(cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		pool.Close()
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Pricing.Timezone)
	if err != nil {
		pool.Close()
		redisClient.Close()
		return nil, err
	}

	sessionRepo := repository.NewSessionRepository(pool)
	inventoryClient := clients.NewInventoryClient(cfg.Inventory.URL, cfg.InventoryTimeout(), logger)
	openStore := redisstore.NewStore(redisClient, cfg.OpenSessionTTL())

	billingService := service.NewBillingService(sessionRepo, inventoryClient, openStore, cfg.Pricing.PerHour, logger)
	reconciler := service.NewReconciler(sessionRepo, inventoryClient, cfg.ReconcileInterval(), logger)

	sessionsHandler := handlers.NewSessionsHandler(billingService, loc, logger)
	router := metrics.Middleware("billing-service")(httpserver.NewRouter(sessionsHandler))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		reconciler:  reconciler,
		db:          pool,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the HTTP server and the reconciliation loop.
func (a *App) Run(ctx context.Context) error {
	go a.reconciler.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
