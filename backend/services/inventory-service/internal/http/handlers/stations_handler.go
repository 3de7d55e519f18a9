package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"netparc/backend/services/inventory-service/internal/models"
	"netparc/backend/services/inventory-service/internal/service"
)

// StationsHandler serves station CRUD and the lease/release mutations.
type StationsHandler struct {
	svc    *service.InventoryService
	logger *zap.Logger
}

// NewStationsHandler returns handler.
func NewStationsHandler(svc *service.InventoryService, logger *zap.Logger) *StationsHandler {
	return &StationsHandler{svc: svc, logger: logger}
}

// List handles GET /stations.
func (h *StationsHandler) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.svc.ListStations(r.Context())
	if err != nil {
		h.logger.Error("list stations failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to list stations")
		return
	}
	if stations == nil {
		stations = []models.Station{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stations": stations})
}

type createStationRequest struct {
	Name string `json:"name"`
}

// Create handles POST /stations. An absent name asks for PC-<n> synthesis.
func (h *StationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, CodeInternal, "invalid request body")
			return
		}
	}

	station, err := h.svc.CreateStation(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, models.ErrNameTaken) {
			writeError(w, http.StatusConflict, CodeConflict, "station name already exists")
			return
		}
		h.logger.Error("create station failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to create station")
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// Delete handles DELETE /stations/{id}.
func (h *StationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := stationID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteStation(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "station not found")
			return
		}
		h.logger.Error("delete station failed", zap.Int64("station_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to delete station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Lease handles POST /stations/{id}/lease.
func (h *StationsHandler) Lease(w http.ResponseWriter, r *http.Request) {
	id, ok := stationID(w, r)
	if !ok {
		return
	}
	if err := h.svc.LeaseStation(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyLeased):
			writeError(w, http.StatusConflict, CodeConflict, "station already leased")
		case errors.Is(err, models.ErrStationNotFound):
			writeError(w, http.StatusNotFound, CodeNotFound, "station not found")
		default:
			h.logger.Error("lease station failed", zap.Int64("station_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, CodeInternal, "failed to lease station")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": models.StationStateLeased})
}

// Release handles POST /stations/{id}/release.
func (h *StationsHandler) Release(w http.ResponseWriter, r *http.Request) {
	id, ok := stationID(w, r)
	if !ok {
		return
	}
	if err := h.svc.ReleaseStation(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "station not found")
			return
		}
		h.logger.Error("release station failed", zap.Int64("station_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to release station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": models.StationStateFree})
}

func stationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, CodeInternal, "invalid station id")
		return 0, false
	}
	return id, true
}
