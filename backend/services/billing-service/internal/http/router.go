package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"netparc/backend/services/billing-service/internal/http/handlers"
)

// NewRouter registers endpoints.
func NewRouter(sessions *handlers.SessionsHandler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /sessions/open", http.HandlerFunc(sessions.Open))
	mux.Handle("POST /sessions/close", http.HandlerFunc(sessions.Close))
	mux.Handle("GET /sessions/closed", http.HandlerFunc(sessions.Closed))
	mux.Handle("GET /sessions/active", http.HandlerFunc(sessions.Active))

	mux.Handle("GET /health", handlers.NewHealthHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
