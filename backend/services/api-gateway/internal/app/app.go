package app

import (
	"context"

	"go.uber.org/zap"

	"netparc/backend/services/api-gateway/internal/clients"
	"netparc/backend/services/api-gateway/internal/config"
	httpserver "netparc/backend/services/api-gateway/internal/http"
	"netparc/backend/services/api-gateway/internal/http/handlers"
	"netparc/backend/services/api-gateway/internal/http/middleware"
	"netparc/backend/services/api-gateway/internal/http/ws"
)

// App wires gateway dependencies.
type App struct {
	server *httpserver.Server
	feed   *ws.Feed
	logger *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := clients.NewDefaultHTTPClient(cfg.HTTPTimeout())

	inventoryClient := clients.NewInventoryClient(cfg.Services.InventoryURL, httpClient)
	billingClient := clients.NewBillingClient(cfg.Services.BillingURL, httpClient)

	stationsHandlers := handlers.NewStationsHandlers(inventoryClient, logger)
	sessionsHandlers := handlers.NewSessionsHandlers(billingClient, logger)
	feed := ws.NewFeed(inventoryClient, cfg.FeedPollInterval(), cfg.FeedWriteTimeout(), logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		StationsHandlers: stationsHandlers,
		SessionsHandlers: sessionsHandlers,
		StationsFeed:     feed,
	})

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
		middleware.MetricsMiddleware("api-gateway"),
	)

	return &App{
		server: server,
		feed:   feed,
		logger: logger,
	}, nil
}

// Run starts the station feed and serves HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	go a.feed.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources (none yet).
func (a *App) Close() {}
