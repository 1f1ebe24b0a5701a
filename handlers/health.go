package handlers

import (
	"net/http"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"cors":   "enabled",
		})
	}
}

// GetStats serves latency quantiles for the external collaborators.
func GetStats(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"stats":   deps.Metrics.Snapshot(),
		})
	}
}
