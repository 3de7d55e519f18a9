package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"netparc/backend/services/api-gateway/internal/http/handlers"
	"netparc/backend/services/api-gateway/internal/http/ws"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	StationsHandlers *handlers.StationsHandlers
	SessionsHandlers *handlers.SessionsHandlers
	StationsFeed     *ws.Feed
}

// NewRouter wires the public HTTP surface.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/stations", deps.StationsHandlers.List)
	mux.HandleFunc("POST /api/stations", deps.StationsHandlers.Create)
	mux.HandleFunc("DELETE /api/stations/{id}", deps.StationsHandlers.Delete)
	mux.HandleFunc("GET /api/stations/ws", deps.StationsFeed.Handle)

	mux.HandleFunc("POST /api/sessions/open", deps.SessionsHandlers.Open)
	mux.HandleFunc("POST /api/sessions/close", deps.SessionsHandlers.Close)
	mux.HandleFunc("GET /api/history", deps.SessionsHandlers.History)

	return mux
}
