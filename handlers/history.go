package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/Justin3134/linkedinflow/models"
)

const (
	historyPostsLimit    = 20
	historyCommentsLimit = 50
	historyMessagesLimit = 30
)

// GetHistory returns the recent activity across all three history tables.
func GetHistory(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := fetchPostHistory(deps.DB)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch post history")
			log.Println("GetHistory posts error:", err)
			return
		}
		comments, err := fetchCommentHistory(deps.DB)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch comment history")
			log.Println("GetHistory comments error:", err)
			return
		}
		messages, err := fetchMessageHistory(deps.DB)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch message history")
			log.Println("GetHistory messages error:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"posts":    posts,
			"comments": comments,
			"messages": messages,
		})
	}
}

func fetchPostHistory(db *sql.DB) ([]map[string]interface{}, error) {
	rows, err := db.Query(`
		SELECT post_id, content, linkedin_url, created_at, engagement_count
		FROM post_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, historyPostsLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []map[string]interface{}{}
	for rows.Next() {
		var rec models.PostRecord
		if err := rows.Scan(&rec.PostID, &rec.Content, &rec.LinkedInURL, &rec.CreatedAt, &rec.EngagementCount); err != nil {
			return nil, err
		}
		posts = append(posts, map[string]interface{}{
			"id":               rec.PostID,
			"content":          truncate(rec.Content, 100),
			"url":              rec.LinkedInURL,
			"created_at":       formatUnix(rec.CreatedAt),
			"engagement_count": rec.EngagementCount,
		})
	}
	return posts, rows.Err()
}

func fetchCommentHistory(db *sql.DB) ([]map[string]interface{}, error) {
	rows, err := db.Query(`
		SELECT post_id, commenter_name, reply_sent, created_at
		FROM comment_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, historyCommentsLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []map[string]interface{}{}
	for rows.Next() {
		var rec models.CommentRecord
		if err := rows.Scan(&rec.PostID, &rec.CommenterName, &rec.ReplySent, &rec.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, map[string]interface{}{
			"post_id":    rec.PostID,
			"commenter":  rec.CommenterName,
			"reply":      truncate(rec.ReplySent, 100),
			"created_at": formatUnix(rec.CreatedAt),
		})
	}
	return comments, rows.Err()
}

func fetchMessageHistory(db *sql.DB) ([]map[string]interface{}, error) {
	rows, err := db.Query(`
		SELECT recipient_profile, context, sent_at
		FROM message_history
		ORDER BY sent_at DESC, id DESC
		LIMIT $1`, historyMessagesLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []map[string]interface{}{}
	for rows.Next() {
		var rec models.MessageRecord
		if err := rows.Scan(&rec.RecipientProfile, &rec.Context, &rec.SentAt); err != nil {
			return nil, err
		}
		messages = append(messages, map[string]interface{}{
			"recipient": rec.RecipientProfile,
			"context":   rec.Context,
			"sent_at":   formatUnix(rec.SentAt),
		})
	}
	return messages, rows.Err()
}

// truncate cuts on runes so a multi-byte character is never split at
// the boundary.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
