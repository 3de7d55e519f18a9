package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"netparc/backend/services/inventory-service/internal/http/handlers"
)

// NewRouter registers endpoints.
func NewRouter(stations *handlers.StationsHandler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /stations", http.HandlerFunc(stations.List))
	mux.Handle("POST /stations", http.HandlerFunc(stations.Create))
	mux.Handle("DELETE /stations/{id}", http.HandlerFunc(stations.Delete))
	mux.Handle("POST /stations/{id}/lease", http.HandlerFunc(stations.Lease))
	mux.Handle("POST /stations/{id}/release", http.HandlerFunc(stations.Release))

	mux.Handle("GET /health", handlers.NewHealthHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
