package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/Justin3134/linkedinflow/config"
	"github.com/Justin3134/linkedinflow/database"
	"github.com/Justin3134/linkedinflow/handlers"
	"github.com/Justin3134/linkedinflow/routes"
	"github.com/Justin3134/linkedinflow/services"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Config load failed:", err)
	}

	if err := os.MkdirAll(cfg.ImagesDir, 0o755); err != nil {
		log.Fatal("Failed to create images directory:", err)
	}

	db, err := database.ConnectDB(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	defer db.Close()

	metrics := services.NewMetrics()

	deps := &handlers.Deps{
		DB:        db,
		Cfg:       cfg,
		Metrics:   metrics,
		Workflows: handlers.NewWorkflowStore(),
	}

	llm, err := services.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, metrics)
	if err != nil {
		log.Printf("Language model disabled: %v", err)
	} else {
		deps.LLM = llm
	}

	if cfg.ImageAPIKey != "" {
		deps.Images = services.NewImageGenerator(cfg.ImageAPIURL, cfg.ImageAPIKey, cfg.ImagesDir, metrics)
	} else {
		log.Println("Image generation disabled: OPENAI_IMAGE_API_KEY not set")
	}

	agent := services.NewAgentClient(cfg.OAGIBaseURL, cfg.AGIOpenAPIKey)
	deps.Agent = services.NewRunner(agent, cfg.ImagesDir, metrics)

	router := mux.NewRouter()
	router.Use(handlers.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(handlers.AuthMiddleware(deps))
	routes.CreateRoutes(deps, router)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		// Automation tasks block their request for up to the task
		// timeout, so the write timeout has to outlast it.
		WriteTimeout: 6 * time.Minute,
	}

	log.Printf("linkedinflow listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
