package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateContent turns source content into a LinkedIn post, a comment
// reply, or a direct message depending on action_type.
func GenerateContent(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SourceContent    string `json:"source_content"`
			ActionType       string `json:"action_type"`
			Context          string `json:"context"`
			PhotoURL         string `json:"photo_url"`
			SourceType       string `json:"source_type"`
			CommentText      string `json:"comment_text"`
			RecipientContext string `json:"recipient_context"`
			TriggerContext   string `json:"trigger_context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if deps.LLM == nil {
			writeError(w, http.StatusInternalServerError, "Language model is not configured")
			return
		}

		switch req.ActionType {
		case "post":
			generatePostContent(deps, w, r, req.SourceContent, req.Context, req.PhotoURL, req.SourceType)

		case "comment":
			reply, err := deps.LLM.GenerateComment(r.Context(), req.CommentText, req.Context)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"reply":   reply,
			})

		case "messages":
			trigger := req.TriggerContext
			if trigger == "" {
				trigger = "post_like"
			}
			message, err := deps.LLM.GenerateMessage(r.Context(), req.RecipientContext, trigger)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": message,
			})

		default:
			writeError(w, http.StatusBadRequest, "Invalid action type")
		}
	}
}

func generatePostContent(deps *Deps, w http.ResponseWriter, r *http.Request, sourceContent, extraContext, photoURL, sourceType string) {
	usePhoto := photoURL != "" && sourceType == "photo-capture"

	source := sourceContent
	if usePhoto {
		source = fmt.Sprintf(
			"User uploaded a photo and wrote these notes: %s. Create a LinkedIn post that describes the photo and incorporates the notes.",
			sourceContent)
	}

	post, err := deps.LLM.GeneratePost(r.Context(), source, extraContext)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := map[string]interface{}{
		"success":           true,
		"post_content":      post.Content,
		"hashtags":          post.Hashtags,
		"image_description": post.ImageDescription,
	}

	if usePhoto {
		// Attach the uploaded photo instead of generating one; fall back
		// to generation when the upload can no longer be found on disk.
		if path, ok := resolveUploadedPhoto(deps, photoURL); ok {
			result["image_path"] = path
			result["image_url"] = photoURL
			writeJSON(w, http.StatusOK, result)
			return
		}
		log.Printf("GenerateContent: uploaded photo for %s missing, generating instead", photoURL)
	}

	attachGeneratedImage(r.Context(), deps, result, post.ImageDescription)
	writeJSON(w, http.StatusOK, result)
}

// attachGeneratedImage adds image fields to the result when generation
// succeeds; a failed image never fails the text result.
func attachGeneratedImage(ctx context.Context, deps *Deps, result map[string]interface{}, description string) {
	if deps.Images == nil {
		return
	}
	filename := fmt.Sprintf("post_%s.png", uuid.NewString()[:8])
	image, err := deps.Images.GeneratePostImage(ctx, description, filename)
	if err != nil {
		log.Printf("GenerateContent image generation failed: %v", err)
		return
	}
	result["image_path"] = image.LocalPath
	result["image_url"] = image.RemoteURL
}

// resolveUploadedPhoto maps a served photo URL back to the uploaded file
// and stages a copy in the linkedin_posts folder for the agent.
func resolveUploadedPhoto(deps *Deps, photoURL string) (string, bool) {
	parsed, err := url.Parse(photoURL)
	if err != nil {
		return "", false
	}
	filename := filepath.Base(parsed.Path)
	if filename == "." || strings.HasPrefix(filename, "..") {
		return "", false
	}

	uploadPath := filepath.Join(deps.Cfg.ImagesDir, "uploads", filename)
	if _, err := os.Stat(uploadPath); err != nil {
		return "", false
	}

	postsDir := filepath.Join(deps.Cfg.ImagesDir, "linkedin_posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		log.Printf("resolveUploadedPhoto mkdir error: %v", err)
		return "", false
	}
	staged := filepath.Join(postsDir, filename)
	data, err := os.ReadFile(uploadPath)
	if err != nil {
		return "", false
	}
	if err := os.WriteFile(staged, data, 0o644); err != nil {
		log.Printf("resolveUploadedPhoto stage error: %v", err)
		return "", false
	}

	abs, err := filepath.Abs(staged)
	if err != nil {
		abs = staged
	}
	return abs, true
}
