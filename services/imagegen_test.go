package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestGeneratePostImageDownloads(t *testing.T) {
	var gotPrompt string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
			Model  string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"url": "http://" + r.Host + "/img.png"}},
		})
	})
	mux.HandleFunc("/img.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-png-bytes"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gen := NewImageGenerator(server.URL+"/v1/images/generations", "key", t.TempDir(), NewMetrics())

	image, err := gen.GeneratePostImage(context.Background(), "a gopher presenting slides", "post_ab12cd34.png")
	if err != nil {
		t.Fatalf("GeneratePostImage: %v", err)
	}

	if !strings.Contains(gotPrompt, "a gopher presenting slides") {
		t.Errorf("prompt = %q, missing description", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "Professional LinkedIn post image") {
		t.Errorf("prompt = %q, missing enhancement wrapper", gotPrompt)
	}
	if image.RemoteURL == "" {
		t.Error("missing remote URL")
	}

	data, err := os.ReadFile(image.LocalPath)
	if err != nil {
		t.Fatalf("read downloaded image: %v", err)
	}
	if string(data) != "fake-png-bytes" {
		t.Errorf("downloaded bytes = %q", data)
	}
}

func TestGeneratePostImageAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "content policy violation"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gen := NewImageGenerator(server.URL+"/v1/images/generations", "key", t.TempDir(), nil)

	_, err := gen.GeneratePostImage(context.Background(), "desc", "file.png")
	if err == nil || !strings.Contains(err.Error(), "content policy violation") {
		t.Fatalf("expected API error with message, got %v", err)
	}
}

func TestGeneratePostImageNoData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gen := NewImageGenerator(server.URL+"/v1/images/generations", "key", t.TempDir(), nil)
	if _, err := gen.GeneratePostImage(context.Background(), "desc", "file.png"); err == nil {
		t.Fatal("expected error when no image is returned")
	}
}
