package handlers

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in authority responses. The gateway translates them
// into user-facing messages without leaking internal wording.
const (
	codeConflict              = "conflict"
	codeAlreadyOpen           = "already_open"
	codeStationUnavailable    = "station_unavailable"
	codeNoActiveSession       = "no_active_session"
	codeNotFound              = "not_found"
	codeDependencyUnavailable = "dependency_unavailable"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeRaw passes an authority's successful response through untouched.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeUpstreamUnavailable is the answer when an authority cannot be reached
// at all. Nothing has been committed on the caller's behalf, so retrying is
// safe.
func writeUpstreamUnavailable(w http.ResponseWriter) {
	writeError(w, http.StatusServiceUnavailable,
		"service temporarily unavailable, please retry", codeDependencyUnavailable)
}

// translateError maps an authority error response onto the gateway's public
// contract. Unknown codes and statuses collapse to a generic message so
// internals never leak.
func translateError(w http.ResponseWriter, upstreamStatus int, body []byte) {
	var upstream errorBody
	_ = json.Unmarshal(body, &upstream)

	switch upstream.Code {
	case codeConflict, codeAlreadyOpen, codeStationUnavailable:
		writeError(w, http.StatusConflict, "station unavailable", upstream.Code)
		return
	case codeNoActiveSession, codeNotFound:
		msg := upstream.Error
		if msg == "" {
			msg = "not found"
		}
		writeError(w, http.StatusNotFound, msg, upstream.Code)
		return
	case codeDependencyUnavailable:
		writeUpstreamUnavailable(w)
		return
	}

	switch {
	case upstreamStatus == http.StatusConflict:
		writeError(w, http.StatusConflict, "station unavailable", codeConflict)
	case upstreamStatus == http.StatusNotFound:
		writeError(w, http.StatusNotFound, "not found", codeNotFound)
	case upstreamStatus >= http.StatusInternalServerError:
		writeUpstreamUnavailable(w)
	default:
		writeError(w, http.StatusBadGateway, "unexpected upstream response", "")
	}
}
