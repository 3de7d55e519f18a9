package handlers

import (
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"netparc/backend/services/api-gateway/internal/clients"
)

// StationsHandlers proxies station CRUD to the inventory authority.
type StationsHandlers struct {
	inventory *clients.InventoryClient
	logger    *zap.Logger
}

// NewStationsHandlers returns handler.
func NewStationsHandlers(inventory *clients.InventoryClient, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{inventory: inventory, logger: logger}
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	status, body, err := h.inventory.ListStations(r.Context())
	if err != nil {
		h.logger.Error("inventory list failed", zap.Error(err))
		writeUpstreamUnavailable(w)
		return
	}
	if status >= http.StatusMultipleChoices {
		translateError(w, status, body)
		return
	}
	writeRaw(w, status, body)
}

// Create handles POST /api/stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	status, body, err := h.inventory.CreateStation(r.Context(), payload)
	if err != nil {
		h.logger.Error("inventory create failed", zap.Error(err))
		writeUpstreamUnavailable(w)
		return
	}
	if status >= http.StatusMultipleChoices {
		translateError(w, status, body)
		return
	}
	writeRaw(w, status, body)
}

// Delete handles DELETE /api/stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid station id", "")
		return
	}

	status, body, err := h.inventory.DeleteStation(r.Context(), id)
	if err != nil {
		h.logger.Error("inventory delete failed", zap.Error(err), zap.Int64("station_id", id))
		writeUpstreamUnavailable(w)
		return
	}
	if status >= http.StatusMultipleChoices {
		translateError(w, status, body)
		return
	}
	writeRaw(w, status, body)
}
