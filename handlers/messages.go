package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Justin3134/linkedinflow/models"
)

const maxLikersToMessage = 10

// MessageLikers fetches a post's likers and sends each a personalized
// message, recording successes. Likers extraction is a placeholder in the
// agent, so this currently fails with that explanation.
func MessageLikers(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PostURL string `json:"post_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.PostURL == "" {
			writeError(w, http.StatusBadRequest, "post_url is required")
			return
		}
		if deps.LLM == nil {
			writeError(w, http.StatusInternalServerError, "Language model is not configured")
			return
		}

		likers, err := deps.Agent.GetPostLikers(r.Context(), req.PostURL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(likers) > maxLikersToMessage {
			likers = likers[:maxLikersToMessage]
		}

		type likerResult struct {
			Liker       models.Liker `json:"liker"`
			MessageSent bool         `json:"message_sent"`
		}
		results := make([]likerResult, 0, len(likers))
		sent := 0

		for _, liker := range likers {
			message, err := deps.LLM.GenerateMessage(r.Context(),
				fmt.Sprintf("User: %s", liker.Name), "post_like")
			if err != nil {
				log.Printf("MessageLikers generation error: %v", err)
				results = append(results, likerResult{Liker: liker})
				continue
			}

			if err := deps.Agent.MessageUser(r.Context(), liker.ProfileURL, message); err != nil {
				log.Printf("MessageLikers send error: %v", err)
				results = append(results, likerResult{Liker: liker})
				continue
			}

			_, err = deps.DB.Exec(`
				INSERT INTO message_history (recipient_profile, message_text, context, sent_at)
				VALUES ($1, $2, $3, $4)`,
				liker.ProfileURL, message, "post_like", time.Now().UTC().Unix())
			if err != nil {
				log.Println("MessageLikers insert error:", err)
			}

			sent++
			results = append(results, likerResult{Liker: liker, MessageSent: true})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"messages_sent": sent,
			"results":       results,
		})
	}
}
