package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Justin3134/linkedinflow/models"
	"github.com/Justin3134/linkedinflow/services"
)

// GetPostComments asks the agent for a post's comments and drafts a
// suggested reply for each. Comment extraction is still a placeholder in
// the agent, so today this reports that honestly instead of faking data.
func GetPostComments(deps *Deps) http.HandlerFunc {
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

		comments, err := deps.Agent.GetPostComments(r.Context(), req.PostURL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		type suggestedReply struct {
			OriginalComment models.Comment `json:"original_comment"`
			Reply           string         `json:"reply"`
		}
		replies := make([]suggestedReply, 0, len(comments))
		for _, comment := range comments {
			reply := ""
			if deps.LLM != nil {
				reply, err = deps.LLM.GenerateComment(r.Context(), comment.Text, req.PostURL)
				if err != nil {
					log.Printf("GetPostComments reply generation: %v", err)
				}
			}
			replies = append(replies, suggestedReply{OriginalComment: comment, Reply: reply})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":           true,
			"comments":          comments,
			"suggested_replies": replies,
		})
	}
}

// ReplyToComments drives the agent through the provided replies as one
// batch task and records each one in comment history on success. The
// agent drives at most services.MaxRepliesPerTask replies per task, so
// the batch is capped here first; only replies the agent was actually
// asked to type are recorded or counted.
func ReplyToComments(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PostURL  string                `json:"post_url"`
			Comments []models.CommentReply `json:"comments"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.PostURL == "" {
			writeError(w, http.StatusBadRequest, "post_url is required")
			return
		}
		if len(req.Comments) == 0 {
			writeError(w, http.StatusBadRequest, "comments are required")
			return
		}

		comments := req.Comments
		skipped := 0
		if len(comments) > services.MaxRepliesPerTask {
			skipped = len(comments) - services.MaxRepliesPerTask
			comments = comments[:services.MaxRepliesPerTask]
			log.Printf("ReplyToComments: %d comments submitted, replying to the first %d",
				len(req.Comments), services.MaxRepliesPerTask)
		}

		if err := deps.Agent.ReplyToComments(r.Context(), req.PostURL, comments); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			log.Printf("ReplyToComments agent error: %v", err)
			return
		}

		// Shared post identifier across the history tables is just the
		// URL's trailing segment.
		postID := req.PostURL
		if idx := strings.LastIndex(postID, "/"); idx >= 0 {
			postID = postID[idx+1:]
		}

		type replyResult struct {
			CommenterName string `json:"commenter_name"`
			ReplySent     bool   `json:"reply_sent"`
		}
		results := make([]replyResult, 0, len(comments))

		now := time.Now().UTC().Unix()
		saved := 0
		for _, item := range comments {
			commenter := item.CommenterName
			if commenter == "" {
				commenter = "Unknown"
			}
			_, err := deps.DB.Exec(`
				INSERT INTO comment_history (post_id, commenter_name, comment_text, reply_sent, created_at)
				VALUES ($1, $2, $3, $4, $5)`,
				postID, commenter, item.CommentText, item.ReplyText, now)
			if err != nil {
				log.Println("ReplyToComments insert error:", err)
				results = append(results, replyResult{CommenterName: commenter})
				continue
			}
			saved++
			results = append(results, replyResult{CommenterName: commenter, ReplySent: true})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"replies_sent": saved,
			"skipped":      skipped,
			"results":      results,
		})
	}
}
