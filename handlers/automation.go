package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// StopAutomation cancels every in-flight automation session. A workflow
// id in the body additionally marks that workflow cancelled so a later
// publish of it is refused.
func StopAutomation(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stopped := deps.Agent.StopAll()

		var req struct {
			WorkflowID string `json:"workflow_id"`
		}
		// Body is optional; stop works without one.
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.WorkflowID != "" {
			deps.Workflows.SetStatus(req.WorkflowID, workflowCancelled)
		}

		log.Printf("StopAutomation: cancelled %d session(s)", stopped)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"stopped": stopped,
			"message": "Automation stopped successfully. The agent will release control of your screen.",
		})
	}
}
