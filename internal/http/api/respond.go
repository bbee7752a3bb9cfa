// Package api holds the small JSON response helpers shared by all HTTP
// handlers. Error bodies carry a stable reason string and nothing else; no
// stack traces or internal identifiers cross the API boundary.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, reason string) {
	WriteJSON(w, status, errorResponse{Error: reason})
}
