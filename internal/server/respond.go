package server

import (
	"encoding/json"
	"net/http"
)

// writeResult writes the success envelope: {"result": v}.
func writeResult(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"result": v})
}

// writeError writes the failure envelope: {"errorMessage": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"errorMessage": message})
}

// writeJSON encodes v as the whole response body. The logger level routes
// respond with bare JSON strings rather than envelopes, so they call this
// directly.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
