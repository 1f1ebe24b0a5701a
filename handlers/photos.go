package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxUploadBytes = 20 << 20 // 20 MiB

// UploadPhoto stores a photo from the photo-capture flow under
// images/uploads and returns the URL it will be served from.
func UploadPhoto(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "No photo file provided")
			return
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No photo file provided")
			return
		}
		defer file.Close()

		if header.Filename == "" {
			writeError(w, http.StatusBadRequest, "No file selected")
			return
		}
		notes := r.FormValue("notes")

		ext := filepath.Ext(header.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		filename := fmt.Sprintf("photo_%s%s", uuid.NewString()[:8], ext)

		uploadsDir := filepath.Join(deps.Cfg.ImagesDir, "uploads")
		if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to prepare uploads folder")
			log.Printf("UploadPhoto mkdir error: %v", err)
			return
		}

		path := filepath.Join(uploadsDir, filename)
		dst, err := os.Create(path)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save photo")
			log.Printf("UploadPhoto create error: %v", err)
			return
		}
		defer dst.Close()
		if _, err := io.Copy(dst, file); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save photo")
			log.Printf("UploadPhoto write error: %v", err)
			return
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"photo_url":  fmt.Sprintf("http://%s/api/images/uploads/%s", r.Host, filename),
			"photo_path": absPath,
			"notes":      notes,
		})
	}
}

// ServeUploadedImage serves files out of images/uploads. The filename is
// reduced to its basename so the route cannot walk the tree.
func ServeUploadedImage(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		filename := filepath.Base(vars["filename"])
		if filename == "." || filename == "/" || strings.HasPrefix(filename, "..") {
			writeError(w, http.StatusBadRequest, "Invalid filename")
			return
		}

		path := filepath.Join(deps.Cfg.ImagesDir, "uploads", filename)
		if _, err := os.Stat(path); err != nil {
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		http.ServeFile(w, r, path)
	}
}
