package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// ReadSource fetches content from the selected source. Plain text comes
// straight from the request; notes and docs go through the agent, which
// currently declines both with guidance to use plain text.
func ReadSource(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SourceType string `json:"source_type"`
			SourceData struct {
				Text      string `json:"text"`
				NoteTitle string `json:"note_title"`
				DocURL    string `json:"doc_url"`
				DocName   string `json:"doc_name"`
			} `json:"source_data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.SourceType == "" {
			writeError(w, http.StatusBadRequest, "source_type is required")
			return
		}

		switch req.SourceType {
		case "photo-capture":
			writeError(w, http.StatusBadRequest, "Photo capture should use the upload-photo endpoint first")

		case "plain-text":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"content": req.SourceData.Text,
			})

		case "macbook-notes":
			content, err := deps.Agent.ReadAppleNotes(r.Context(), req.SourceData.NoteTitle)
			if err != nil {
				log.Printf("ReadSource apple notes: %v", err)
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"content": content,
			})

		case "google-docs":
			content, err := deps.Agent.ReadGoogleDocs(r.Context(), req.SourceData.DocURL, req.SourceData.DocName)
			if err != nil {
				log.Printf("ReadSource google docs: %v", err)
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"content": content,
			})

		default:
			writeError(w, http.StatusBadRequest, "Invalid source type")
		}
	}
}
