package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Justin3134/linkedinflow/models"
)

var (
	// ErrStopped is returned when a stop request cancels the session.
	ErrStopped = errors.New("operation stopped by user")
	// ErrTaskTimeout is returned when the agent does not finish in time.
	ErrTaskTimeout = errors.New("operation timed out")
)

const (
	defaultTaskTimeout = 5 * time.Minute
	defaultPollEvery   = time.Second
	agentModel         = "lux-actor-1"

	// MaxRepliesPerTask caps how many comment replies one agent task will
	// drive. Callers must cap their batch to this before recording
	// anything as sent.
	MaxRepliesPerTask = 5
)

// Runner drives the automation agent synchronously: create the remote
// task, poll until it settles, cancel it on stop or timeout. Each call
// runs under its own cancellable session so one HTTP request can
// interrupt a task started by another without any shared flag.
type Runner struct {
	API       AgentAPI
	ImagesDir string
	Timeout   time.Duration
	PollEvery time.Duration
	Metrics   *Metrics

	mu       sync.Mutex
	sessions map[string]context.CancelFunc
}

func NewRunner(api AgentAPI, imagesDir string, metrics *Metrics) *Runner {
	return &Runner{
		API:       api,
		ImagesDir: imagesDir,
		Timeout:   defaultTaskTimeout,
		PollEvery: defaultPollEvery,
		Metrics:   metrics,
		sessions:  make(map[string]context.CancelFunc),
	}
}

func (r *Runner) register(sessionID string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = cancel
}

func (r *Runner) unregister(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// StopAll cancels every live session and returns how many were stopped.
func (r *Runner) StopAll() int {
	r.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(r.sessions))
	for id, cancel := range r.sessions {
		cancels = append(cancels, cancel)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if len(cancels) > 0 {
		log.Printf("[Agent] Stopped %d automation session(s)", len(cancels))
	}
	return len(cancels)
}

// Stop cancels one session by id. Unknown ids are a no-op.
func (r *Runner) Stop(sessionID string) bool {
	r.mu.Lock()
	cancel, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// ActiveSessions reports how many automation tasks are in flight.
func (r *Runner) ActiveSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run executes one agent task to completion. It blocks until the remote
// task completes, fails, is stopped, or times out.
func (r *Runner) Run(ctx context.Context, task AgentTask) error {
	if r.Metrics != nil {
		defer r.Metrics.Observe("automation")()
	}

	sessionID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	r.register(sessionID, cancel)
	defer func() {
		r.unregister(sessionID)
		cancel()
	}()

	taskID, err := r.API.CreateTask(ctx, task)
	if err != nil {
		return err
	}
	log.Printf("[Agent] Task %s started (%s)", taskID, task.Task)

	ticker := time.NewTicker(r.PollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.cancelRemote(taskID)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrTaskTimeout
			}
			return ErrStopped
		case <-ticker.C:
			status, err := r.API.GetTask(ctx, taskID)
			if err != nil {
				if ctx.Err() != nil {
					continue // let the ctx.Done branch classify it
				}
				// The remote task is still driving the screen; stop it
				// before giving up on polling.
				r.cancelRemote(taskID)
				return err
			}
			switch status.Status {
			case "completed":
				log.Printf("[Agent] Task %s completed", taskID)
				return nil
			case "failed":
				if status.Error != "" {
					return fmt.Errorf("agent task failed: %s", status.Error)
				}
				return errors.New("agent task failed")
			}
		}
	}
}

// cancelRemote cancels the remote task under a fresh context; the
// session context is usually already dead by the time this runs.
func (r *Runner) cancelRemote(taskID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.API.CancelTask(ctx, taskID); err != nil {
		log.Printf("[Agent] Cancel of task %s failed: %v", taskID, err)
	}
}

// CreatePostDraft walks the agent through composing a LinkedIn post:
// open the feed, open the composer, paste the content, upload the image
// if there is one, and stop before the Post button. Publishing stays a
// manual step.
func (r *Runner) CreatePostDraft(ctx context.Context, content, imagePath string) error {
	postsDir, err := filepath.Abs(filepath.Join(r.ImagesDir, "linkedin_posts"))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		return err
	}

	// Stage the image inside the dedicated folder so the file-dialog steps
	// have a stable path to navigate to.
	finalImagePath := ""
	if imagePath != "" {
		if _, err := os.Stat(imagePath); err == nil {
			finalImagePath = filepath.Join(postsDir, filepath.Base(imagePath))
			if imagePath != finalImagePath {
				if err := copyFile(imagePath, finalImagePath); err != nil {
					return fmt.Errorf("stage image: %w", err)
				}
			}
		} else {
			log.Printf("[Agent] Image path does not exist, posting without image: %s", imagePath)
		}
	}

	todos := []string{
		"Open a new browser tab and navigate to linkedin.com/feed",
		"Wait 3 seconds for page to load",
		"Click the text box or button that says 'Start a post'",
		"Wait 2 seconds for the post composer modal to open",
		"Click inside the main text input area in the modal (where you type posts)",
		fmt.Sprintf("Type the following content in the post editor: %s", content),
		"Wait 1 second to verify text appears",
	}
	instruction := "Create a LinkedIn post draft with the provided content"

	if finalImagePath != "" {
		todos = append(todos,
			"Click the icon button with a picture or camera icon (Add media/Photo button) in the post editor toolbar",
			"Wait 2 seconds for file dialog to open",
			fmt.Sprintf("Navigate the file dialog to this exact folder: %s", postsDir),
			fmt.Sprintf("Look for file named: %s", filepath.Base(finalImagePath)),
			"Click on the image file to select it",
			"Click 'Open' button to upload",
			"Wait 5 seconds for upload to complete",
			"STOP - Do NOT click Post button. Draft is ready.",
		)
		instruction += " and the staged image, then stop without clicking Post"
	} else {
		todos = append(todos, "STOP - Do NOT click Post button. Draft is ready.")
		instruction += ", then stop without clicking Post"
	}

	return r.Run(ctx, AgentTask{
		Model:       agentModel,
		Task:        "Create LinkedIn post: open tab, type text, upload image, STOP",
		Instruction: instruction,
		Todos:       todos,
	})
}

// PublishPost clicks Post on the draft currently sitting in the composer.
func (r *Runner) PublishPost(ctx context.Context) error {
	return r.Run(ctx, AgentTask{
		Model: agentModel,
		Task:  "Publish the LinkedIn post draft",
		Instruction: "Click the 'Post' button to publish the LinkedIn post that is currently in draft. " +
			"The post text box should be visible with content.",
		Todos: []string{
			"Find the 'Post' button in the composer modal",
			"Click the 'Post' button",
			"Wait 3 seconds for the post to be published",
		},
	})
}

// ReplyToComments navigates to a post and posts replies to up to five of
// its comments.
func (r *Runner) ReplyToComments(ctx context.Context, postURL string, replies []models.CommentReply) error {
	todos := []string{
		fmt.Sprintf("Navigate to %s in the browser", postURL),
		"Wait 5 seconds for the post to load",
		"Scroll down to find the comments section",
		"Click on 'Comments' or expand the comments section",
	}

	limited := replies
	if len(limited) > MaxRepliesPerTask {
		limited = limited[:MaxRepliesPerTask]
	}
	for _, reply := range limited {
		commentPreview := reply.CommentText
		if len(commentPreview) > 50 {
			commentPreview = commentPreview[:50]
		}
		todos = append(todos,
			fmt.Sprintf("Find the comment that contains: %s", commentPreview),
			"Click the 'Reply' button under that comment",
			"Wait 2 seconds for the reply box to appear",
			fmt.Sprintf("Type the following reply: %s", reply.ReplyText),
			"Click 'Post reply' or 'Reply' button",
			"Wait 3 seconds for the reply to be posted",
		)
	}

	return r.Run(ctx, AgentTask{
		Model: agentModel,
		Task:  "Reply to comments on a LinkedIn post",
		Instruction: "Navigate to the LinkedIn post and reply to comments with the provided replies. " +
			"Stop after all replies are posted.",
		Todos: todos,
	})
}

// The extraction and messaging paths below are placeholders: the agent
// reports success or failure only and cannot return structured on-screen
// data, so these fail with an explicit explanation.

func (r *Runner) GetPostComments(ctx context.Context, postURL string) ([]models.Comment, error) {
	return nil, errors.New("comment extraction not yet implemented with the automation agent")
}

func (r *Runner) GetPostLikers(ctx context.Context, postURL string) ([]models.Liker, error) {
	return nil, errors.New("likers extraction not yet implemented with the automation agent")
}

func (r *Runner) MessageUser(ctx context.Context, profileURL, message string) error {
	return errors.New("messaging not yet implemented with the automation agent")
}

func (r *Runner) ReadAppleNotes(ctx context.Context, noteTitle string) (string, error) {
	return "", errors.New("Apple Notes reading requires additional clipboard handling; use the plain-text source for now")
}

func (r *Runner) ReadGoogleDocs(ctx context.Context, docURL, docName string) (string, error) {
	if docURL == "" {
		return "", errors.New("a Google Docs URL is required; use the plain-text source for manual input")
	}
	return "", errors.New("Google Docs reading is not yet implemented; use the plain-text source")
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
