package handlers

import (
	"encoding/json"
	"net/http"
)

// Machine-readable error codes carried in the wire body. Clients map these
// back to typed errors without parsing messages.
const (
	CodeConflict = "conflict"
	CodeNotFound = "not_found"
	CodeInternal = "internal"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}
