package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"netparc/backend/services/api-gateway/internal/clients"
)

// SessionsHandlers proxies the session lifecycle to the billing authority.
// Opening and closing always go through billing; the gateway never talks to
// inventory about leases.
type SessionsHandlers struct {
	billing *clients.BillingClient
	logger  *zap.Logger
}

// NewSessionsHandlers returns handler.
func NewSessionsHandlers(billing *clients.BillingClient, logger *zap.Logger) *SessionsHandlers {
	return &SessionsHandlers{billing: billing, logger: logger}
}

type sessionRequest struct {
	StationID int64 `json:"station_id"`
}

// Open handles POST /api/sessions/open.
func (h *SessionsHandlers) Open(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StationID <= 0 {
		writeError(w, http.StatusBadRequest, "station_id is required", "")
		return
	}

	status, body, err := h.billing.OpenSession(r.Context(), req.StationID)
	if err != nil {
		h.logger.Error("billing open failed", zap.Error(err), zap.Int64("station_id", req.StationID))
		writeUpstreamUnavailable(w)
		return
	}
	if status >= http.StatusMultipleChoices {
		translateError(w, status, body)
		return
	}
	writeRaw(w, status, body)
}

// Close handles POST /api/sessions/close.
func (h *SessionsHandlers) Close(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StationID <= 0 {
		writeError(w, http.StatusBadRequest, "station_id is required", "")
		return
	}

	status, body, err := h.billing.CloseSession(r.Context(), req.StationID)
	if err != nil {
		h.logger.Error("billing close failed", zap.Error(err), zap.Int64("station_id", req.StationID))
		writeUpstreamUnavailable(w)
		return
	}
	if status >= http.StatusMultipleChoices {
		translateError(w, status, body)
		return
	}
	writeRaw(w, status, body)
}

// History handles GET /api/history.
func (h *SessionsHandlers) History(w http.ResponseWriter, r *http.Request) {
	status, body, err := h.billing.History(r.Context())
	if err != nil {
		h.logger.Error("billing history failed", zap.Error(err))
		writeUpstreamUnavailable(w)
		return
	}
	if status >= http.StatusMultipleChoices {
		translateError(w, status, body)
		return
	}
	writeRaw(w, status, body)
}
