package handlers

import (
	"context"
	"database/sql"
	"sync"

	"github.com/Justin3134/linkedinflow/config"
	"github.com/Justin3134/linkedinflow/models"
	"github.com/Justin3134/linkedinflow/services"
)

// ContentGenerator is the language-model collaborator.
type ContentGenerator interface {
	GeneratePost(ctx context.Context, sourceContent, extraContext string) (*models.GeneratedPost, error)
	GenerateComment(ctx context.Context, originalComment, postContext string) (string, error)
	GenerateMessage(ctx context.Context, recipientContext, triggerContext string) (string, error)
}

// ImageService is the image-generation collaborator.
type ImageService interface {
	GeneratePostImage(ctx context.Context, description, filename string) (*models.GeneratedImage, error)
	Download(ctx context.Context, url, filename string) (string, error)
}

// Automation is the screen-automation collaborator.
type Automation interface {
	CreatePostDraft(ctx context.Context, content, imagePath string) error
	PublishPost(ctx context.Context) error
	ReplyToComments(ctx context.Context, postURL string, replies []models.CommentReply) error
	GetPostComments(ctx context.Context, postURL string) ([]models.Comment, error)
	GetPostLikers(ctx context.Context, postURL string) ([]models.Liker, error)
	MessageUser(ctx context.Context, profileURL, message string) error
	ReadAppleNotes(ctx context.Context, noteTitle string) (string, error)
	ReadGoogleDocs(ctx context.Context, docURL, docName string) (string, error)
	StopAll() int
}

// Deps bundles everything the handlers close over.
type Deps struct {
	DB        *sql.DB
	Cfg       *config.Config
	LLM       ContentGenerator
	Images    ImageService
	Agent     Automation
	Metrics   *services.Metrics
	Workflows *WorkflowStore
}

const (
	workflowDraft     = "draft"
	workflowPublished = "published"
	workflowCancelled = "cancelled"
)

// Workflow tracks one draft between create and publish.
type Workflow struct {
	PostContent string
	ImagePath   string
	Status      string
	PostURL     string
}

// WorkflowStore is the in-memory workflow table. State lives only as long
// as the process; history that matters goes to the database.
type WorkflowStore struct {
	mu        sync.Mutex
	workflows map[string]*Workflow
}

func NewWorkflowStore() *WorkflowStore {
	return &WorkflowStore{workflows: make(map[string]*Workflow)}
}

func (s *WorkflowStore) Put(id string, w *Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[id] = w
}

func (s *WorkflowStore) Get(id string) (*Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[id]
	return w, ok
}

func (s *WorkflowStore) SetStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[id]
	if !ok {
		return false
	}
	w.Status = status
	return true
}
