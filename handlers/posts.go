package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreatePostDraft drives the agent to compose a draft without publishing.
// Deprecated in the UI in favor of CreateAndPublishPost; kept because the
// two-step draft/publish flow still works.
func CreatePostDraft(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PostContent string `json:"post_content"`
			ImagePath   string `json:"image_path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.PostContent == "" {
			writeError(w, http.StatusBadRequest, "Post content is required")
			return
		}

		if err := deps.Agent.CreatePostDraft(r.Context(), req.PostContent, req.ImagePath); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			log.Printf("CreatePostDraft agent error: %v", err)
			return
		}

		workflowID := uuid.NewString()
		deps.Workflows.Put(workflowID, &Workflow{
			PostContent: req.PostContent,
			ImagePath:   req.ImagePath,
			Status:      workflowDraft,
		})

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"workflow_id": workflowID,
		})
	}
}

// CreateAndPublishPost is the one-shot flow: resolve the image (remote
// URL or local path), drive the agent to compose the draft, and record it
// in post history. Despite the name the agent stops before the Post
// button; publishing stays manual.
func CreateAndPublishPost(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PostContent string `json:"post_content"`
			ImagePath   string `json:"image_path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.PostContent == "" {
			writeError(w, http.StatusBadRequest, "Post content is required")
			return
		}

		imagePath := ""
		if req.ImagePath != "" {
			resolved, err := resolvePostImage(deps, r, req.ImagePath)
			if err != nil {
				// A broken image reference downgrades to a text-only post.
				log.Printf("CreateAndPublishPost image resolve failed: %v", err)
			} else {
				imagePath = resolved
			}
		}

		log.Printf("CreateAndPublishPost: content length %d, image=%q", len(req.PostContent), imagePath)

		if err := deps.Agent.CreatePostDraft(r.Context(), req.PostContent, imagePath); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			log.Printf("CreateAndPublishPost agent error: %v", err)
			return
		}

		postID := fmt.Sprintf("draft_%s", uuid.NewString()[:8])
		var recordID int
		err := deps.DB.QueryRow(`
			INSERT INTO post_history (post_id, content, image_url, linkedin_url, created_at, engagement_count, source_type)
			VALUES ($1, $2, $3, $4, $5, 0, $6)
			RETURNING id`,
			postID, req.PostContent, req.ImagePath, "Draft ready",
			time.Now().UTC().Unix(), "automated",
		).Scan(&recordID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to record post")
			log.Println("CreateAndPublishPost insert error:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"post_url":  "Draft ready",
			"post_id":   postID,
			"record_id": recordID,
			"message":   "Post draft created successfully! Review and post manually on LinkedIn.",
		})
	}
}

// PublishPost clicks Post on a known workflow's draft and records it.
func PublishPost(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WorkflowID string `json:"workflow_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		workflow, ok := deps.Workflows.Get(req.WorkflowID)
		if !ok {
			writeError(w, http.StatusNotFound, "Workflow not found")
			return
		}
		if workflow.Status == workflowCancelled {
			writeError(w, http.StatusConflict, "Workflow was cancelled")
			return
		}

		if err := deps.Agent.PublishPost(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to publish")
			log.Printf("PublishPost agent error: %v", err)
			return
		}

		postID := fmt.Sprintf("posted_%s", uuid.NewString()[:8])
		_, err := deps.DB.Exec(`
			INSERT INTO post_history (post_id, content, image_url, linkedin_url, created_at, engagement_count, source_type)
			VALUES ($1, $2, $3, $4, $5, 0, $6)`,
			postID, workflow.PostContent, workflow.ImagePath, "Posted successfully",
			time.Now().UTC().Unix(), "unknown")
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to record post")
			log.Println("PublishPost insert error:", err)
			return
		}

		deps.Workflows.SetStatus(req.WorkflowID, workflowPublished)
		workflow.PostURL = "Posted successfully"

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"post_url": "Posted successfully",
			"post_id":  postID,
		})
	}
}

// resolvePostImage turns the request's image reference into a local file:
// remote URLs are downloaded, local paths are verified.
func resolvePostImage(deps *Deps, r *http.Request, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if deps.Images == nil {
			return "", fmt.Errorf("image service is not configured")
		}
		filename := fmt.Sprintf("post_image_%s.png", uuid.NewString()[:8])
		log.Printf("CreateAndPublishPost: downloading image from %s", ref)
		return deps.Images.Download(r.Context(), ref, filename)
	}

	if _, err := os.Stat(ref); err != nil {
		return "", fmt.Errorf("image path does not exist: %s", ref)
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return ref, nil
	}
	return abs, nil
}
