package routes

import (
	"github.com/gorilla/mux"

	"github.com/Justin3134/linkedinflow/handlers"
)

// CreateRoutes registers the full API surface on router.
func CreateRoutes(deps *handlers.Deps, router *mux.Router) *mux.Router {
	router.HandleFunc("/api/health", handlers.Health()).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/stats", handlers.GetStats(deps)).Methods("GET", "OPTIONS")

	if deps.Cfg.AuthEnabled() {
		router.HandleFunc("/api/auth/login", handlers.Login(deps)).Methods("POST", "OPTIONS")
	}

	router.HandleFunc("/api/stop-automation", handlers.StopAutomation(deps)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/read-source", handlers.ReadSource(deps)).Methods("POST", "OPTIONS")

	router.HandleFunc("/api/upload-photo", handlers.UploadPhoto(deps)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/images/uploads/{filename}", handlers.ServeUploadedImage(deps)).Methods("GET")

	router.HandleFunc("/api/generate-content", handlers.GenerateContent(deps)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/create-post-draft", handlers.CreatePostDraft(deps)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/create-and-publish-post", handlers.CreateAndPublishPost(deps)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/publish-post", handlers.PublishPost(deps)).Methods("POST", "OPTIONS")

	router.HandleFunc("/api/get-post-comments", handlers.GetPostComments(deps)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/reply-to-comments", handlers.ReplyToComments(deps)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/message-likers", handlers.MessageLikers(deps)).Methods("POST", "OPTIONS")

	router.HandleFunc("/api/history", handlers.GetHistory(deps)).Methods("GET", "OPTIONS")

	return router
}
