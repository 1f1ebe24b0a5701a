package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Justin3134/linkedinflow/models"
)

// fakeAgentAPI scripts the remote task lifecycle for Runner tests.
type fakeAgentAPI struct {
	mu        sync.Mutex
	created   []AgentTask
	cancelled []string
	// statuses are returned in order; the last one repeats.
	statuses []string
	// getErr makes every GetTask call fail.
	getErr error
}

func (f *fakeAgentAPI) CreateTask(ctx context.Context, task AgentTask) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, task)
	return "task-1", nil
}

func (f *fakeAgentAPI) GetTask(ctx context.Context, taskID string) (*TaskStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	status := "running"
	if len(f.statuses) > 0 {
		status = f.statuses[0]
		if len(f.statuses) > 1 {
			f.statuses = f.statuses[1:]
		}
	}
	if status == "failed" {
		return &TaskStatus{TaskID: taskID, Status: status, Error: "element not found"}, nil
	}
	return &TaskStatus{TaskID: taskID, Status: status}, nil
}

func (f *fakeAgentAPI) CancelTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, taskID)
	return nil
}

func (f *fakeAgentAPI) cancelCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cancelled)
}

func (f *fakeAgentAPI) lastTask(t *testing.T) AgentTask {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		t.Fatal("no task was created")
	}
	return f.created[len(f.created)-1]
}

func newTestRunner(t *testing.T, api AgentAPI) *Runner {
	t.Helper()
	r := NewRunner(api, t.TempDir(), NewMetrics())
	r.PollEvery = 2 * time.Millisecond
	r.Timeout = time.Second
	return r
}

func TestRunnerRunCompletes(t *testing.T) {
	api := &fakeAgentAPI{statuses: []string{"pending", "running", "completed"}}
	r := newTestRunner(t, api)

	err := r.Run(context.Background(), AgentTask{Task: "noop"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.ActiveSessions() != 0 {
		t.Errorf("sessions left registered: %d", r.ActiveSessions())
	}
}

func TestRunnerRunFailure(t *testing.T) {
	api := &fakeAgentAPI{statuses: []string{"failed"}}
	r := newTestRunner(t, api)

	err := r.Run(context.Background(), AgentTask{Task: "noop"})
	if err == nil || !strings.Contains(err.Error(), "element not found") {
		t.Fatalf("expected remote failure, got %v", err)
	}
}

func TestRunnerStopAllInterruptsTask(t *testing.T) {
	api := &fakeAgentAPI{} // always running
	r := newTestRunner(t, api)

	done := make(chan error, 1)
	go func() {
		done <- r.Run(context.Background(), AgentTask{Task: "long"})
	}()

	deadline := time.Now().Add(time.Second)
	for r.ActiveSessions() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("session never registered")
		}
		time.Sleep(time.Millisecond)
	}

	if stopped := r.StopAll(); stopped != 1 {
		t.Errorf("StopAll = %d, want 1", stopped)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrStopped) {
			t.Fatalf("expected ErrStopped, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after StopAll")
	}

	if api.cancelCount() == 0 {
		t.Error("remote task was not cancelled")
	}
}

func TestRunnerTimeoutCancelsRemoteTask(t *testing.T) {
	api := &fakeAgentAPI{} // always running
	r := newTestRunner(t, api)
	r.Timeout = 20 * time.Millisecond

	err := r.Run(context.Background(), AgentTask{Task: "slow"})
	if !errors.Is(err, ErrTaskTimeout) {
		t.Fatalf("expected ErrTaskTimeout, got %v", err)
	}
	if api.cancelCount() == 0 {
		t.Error("remote task was not cancelled on timeout")
	}
}

func TestRunnerPollFailureCancelsRemoteTask(t *testing.T) {
	api := &fakeAgentAPI{getErr: errors.New("agent API unreachable")}
	r := newTestRunner(t, api)

	err := r.Run(context.Background(), AgentTask{Task: "noop"})
	if err == nil || !strings.Contains(err.Error(), "unreachable") {
		t.Fatalf("expected poll error, got %v", err)
	}
	// The remote task would otherwise keep driving the screen.
	if api.cancelCount() == 0 {
		t.Error("remote task was not cancelled after the poll failure")
	}
}

func TestCreatePostDraftStopsBeforePosting(t *testing.T) {
	api := &fakeAgentAPI{statuses: []string{"completed"}}
	r := newTestRunner(t, api)

	if err := r.CreatePostDraft(context.Background(), "hello world", ""); err != nil {
		t.Fatalf("CreatePostDraft: %v", err)
	}

	task := api.lastTask(t)
	joined := strings.Join(task.Todos, "\n")
	if !strings.Contains(joined, "hello world") {
		t.Error("todos missing post content")
	}
	if !strings.Contains(joined, "Do NOT click Post") {
		t.Error("todos missing the stop step")
	}
}

func TestCreatePostDraftStagesImage(t *testing.T) {
	api := &fakeAgentAPI{statuses: []string{"completed"}}
	r := newTestRunner(t, api)

	src := filepath.Join(t.TempDir(), "pic.png")
	if err := os.WriteFile(src, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.CreatePostDraft(context.Background(), "with image", src); err != nil {
		t.Fatalf("CreatePostDraft: %v", err)
	}

	staged := filepath.Join(r.ImagesDir, "linkedin_posts", "pic.png")
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("image was not staged at %s: %v", staged, err)
	}

	task := api.lastTask(t)
	joined := strings.Join(task.Todos, "\n")
	if !strings.Contains(joined, "pic.png") {
		t.Error("todos missing staged image filename")
	}
}

func TestReplyToCommentsLimitsToFive(t *testing.T) {
	api := &fakeAgentAPI{statuses: []string{"completed"}}
	r := newTestRunner(t, api)

	replies := make([]models.CommentReply, 8)
	for i := range replies {
		replies[i] = models.CommentReply{CommentText: "question", ReplyText: "answer"}
	}
	if err := r.ReplyToComments(context.Background(), "https://linkedin.com/posts/x", replies); err != nil {
		t.Fatalf("ReplyToComments: %v", err)
	}

	task := api.lastTask(t)
	count := 0
	for _, todo := range task.Todos {
		if strings.Contains(todo, "Click the 'Reply' button") {
			count++
		}
	}
	if count != 5 {
		t.Errorf("reply steps = %d, want 5", count)
	}
}

func TestPlaceholdersReturnExplicitErrors(t *testing.T) {
	r := newTestRunner(t, &fakeAgentAPI{})
	ctx := context.Background()

	if _, err := r.GetPostComments(ctx, "url"); err == nil {
		t.Error("GetPostComments should not be implemented")
	}
	if _, err := r.GetPostLikers(ctx, "url"); err == nil {
		t.Error("GetPostLikers should not be implemented")
	}
	if err := r.MessageUser(ctx, "url", "hi"); err == nil {
		t.Error("MessageUser should not be implemented")
	}
	if _, err := r.ReadAppleNotes(ctx, "note"); err == nil {
		t.Error("ReadAppleNotes should not be implemented")
	}
	if _, err := r.ReadGoogleDocs(ctx, "", ""); err == nil {
		t.Error("ReadGoogleDocs should require a URL")
	}
}
