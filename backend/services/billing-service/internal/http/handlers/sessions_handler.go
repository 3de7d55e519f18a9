package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"netparc/backend/services/billing-service/internal/models"
	"netparc/backend/services/billing-service/internal/service"
)

// SessionsHandler serves the open/close saga endpoints and session listings.
// Timestamps are stored in UTC; loc only affects how they are rendered.
type SessionsHandler struct {
	svc    *service.BillingService
	loc    *time.Location
	logger *zap.Logger
}

// NewSessionsHandler returns handler.
func NewSessionsHandler(svc *service.BillingService, loc *time.Location, logger *zap.Logger) *SessionsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SessionsHandler{svc: svc, loc: loc, logger: logger}
}

type sessionRequest struct {
	StationID int64 `json:"station_id"`
}

type sessionDTO struct {
	ID        int64   `json:"id"`
	StationID int64   `json:"station_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time,omitempty"`
	Price     float64 `json:"price"`
}

func (h *SessionsHandler) dto(s models.Session) sessionDTO {
	d := sessionDTO{
		ID:        s.ID,
		StationID: s.StationID,
		StartTime: s.StartTime.In(h.loc).Format(time.RFC3339),
		Price:     s.Price,
	}
	if s.EndTime != nil {
		d.EndTime = s.EndTime.In(h.loc).Format(time.RFC3339)
	}
	return d
}

// Open handles POST /sessions/open.
func (h *SessionsHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StationID <= 0 {
		writeError(w, http.StatusBadRequest, CodeInternal, "invalid station id")
		return
	}

	session, err := h.svc.OpenSession(r.Context(), req.StationID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSessionAlreadyOpen):
			writeError(w, http.StatusConflict, CodeAlreadyOpen, "session already open for station")
		case errors.Is(err, models.ErrStationUnavailable):
			writeError(w, http.StatusConflict, CodeStationUnavailable, "station already leased")
		case errors.Is(err, models.ErrStationNotFound):
			writeError(w, http.StatusNotFound, CodeNotFound, "station not found")
		case errors.Is(err, models.ErrInventoryUnavailable):
			writeError(w, http.StatusServiceUnavailable, CodeDependencyUnavailable, "inventory unavailable, retry later")
		default:
			h.logger.Error("open session failed", zap.Int64("station_id", req.StationID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, CodeInternal, "failed to open session")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": session.ID,
		"station_id": session.StationID,
		"start_time": session.StartTime.In(h.loc).Format(time.RFC3339),
	})
}

// Close handles POST /sessions/close.
func (h *SessionsHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StationID <= 0 {
		writeError(w, http.StatusBadRequest, CodeInternal, "invalid station id")
		return
	}

	result, err := h.svc.CloseSession(r.Context(), req.StationID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveSession) {
			writeError(w, http.StatusNotFound, CodeNoActiveSession, "no active session for station")
			return
		}
		h.logger.Error("close session failed", zap.Int64("station_id", req.StationID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to close session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":     result.SessionID,
		"price":          result.Price,
		"duration_hours": result.DurationHours,
	})
}

// Closed handles GET /sessions/closed.
func (h *SessionsHandler) Closed(w http.ResponseWriter, r *http.Request) {
	sessions, total, err := h.svc.ListClosedSessions(r.Context())
	if err != nil {
		h.logger.Error("list closed sessions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to list sessions")
		return
	}

	dtos := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, h.dto(s))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions":      dtos,
		"total_revenue": total,
	})
}

// Active handles GET /sessions/active.
func (h *SessionsHandler) Active(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListActiveSessions(r.Context())
	if err != nil {
		h.logger.Error("list active sessions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to list sessions")
		return
	}

	dtos := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, h.dto(s))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": dtos})
}
