package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Justin3134/linkedinflow/models"
)

// ImageGenerator calls a hosted image API (OpenAI images endpoint shape)
// and downloads the result into the local images directory.
type ImageGenerator struct {
	APIURL     string
	APIKey     string
	ImagesDir  string
	HTTPClient *http.Client
	Metrics    *Metrics
}

func NewImageGenerator(apiURL, apiKey, imagesDir string, metrics *Metrics) *ImageGenerator {
	return &ImageGenerator{
		APIURL:     apiURL,
		APIKey:     apiKey,
		ImagesDir:  imagesDir,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Metrics:    metrics,
	}
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GeneratePostImage asks the API for one 1024x1024 image matching the
// description and saves it under the images dir as filename.
func (i *ImageGenerator) GeneratePostImage(ctx context.Context, description, filename string) (*models.GeneratedImage, error) {
	if i.Metrics != nil {
		defer i.Metrics.Observe("image")()
	}

	enhanced := fmt.Sprintf(
		"Professional LinkedIn post image: %s. Business professional style, clean design, high quality, corporate appropriate, modern aesthetic",
		description)

	body, _ := json.Marshal(imageRequest{
		Model:   "dall-e-3",
		Prompt:  enhanced,
		Size:    "1024x1024",
		Quality: "standard",
		N:       1,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", i.APIURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+i.APIKey)

	resp, err := i.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image API request: %w", err)
	}
	defer resp.Body.Close()

	var result imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode image API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if result.Error != nil {
			return nil, fmt.Errorf("image API failed (%d): %s", resp.StatusCode, result.Error.Message)
		}
		return nil, fmt.Errorf("image API failed with status %d", resp.StatusCode)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return nil, fmt.Errorf("image API returned no image")
	}

	imageURL := result.Data[0].URL
	localPath, err := i.Download(ctx, imageURL, filename)
	if err != nil {
		return nil, err
	}

	return &models.GeneratedImage{LocalPath: localPath, RemoteURL: imageURL}, nil
}

// Download fetches url and writes it to the images dir under filename,
// returning the absolute path.
func (i *ImageGenerator) Download(ctx context.Context, url, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	resp, err := i.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(i.ImagesDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(i.ImagesDir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
