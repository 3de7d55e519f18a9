package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"netparc/backend/libs/db"
	"netparc/backend/libs/metrics"
	"netparc/backend/services/inventory-service/internal/config"
	httpserver "netparc/backend/services/inventory-service/internal/http"
	"netparc/backend/services/inventory-service/internal/http/handlers"
	"netparc/backend/services/inventory-service/internal/repository"
	"netparc/backend/services/inventory-service/internal/service"
)

// App wires inventory-service dependencies.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := db.NewPostgres(cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}

	stationRepo := repository.NewStationRepository(pool)
	inventoryService := service.NewInventoryService(stationRepo, logger)
	stationsHandler := handlers.NewStationsHandler(inventoryService, logger)

	router := metrics.Middleware("inventory-service")(httpserver.NewRouter(stationsHandler))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     pool,
		logger: logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
