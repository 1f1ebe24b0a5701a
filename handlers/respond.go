package handlers

import (
	"encoding/json"
	"net/http"
)

// Every response is JSON with a success flag; failures carry a single
// error string. Helpers keep the handlers to one line per exit.

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
