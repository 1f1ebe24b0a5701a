package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 5001
	DefaultOAGIBaseURL  = "https://api.agiopen.org"
	DefaultImageAPIURL  = "https://api.openai.com/v1/images/generations"
	DefaultImagesDir    = "images"
	DefaultSQLitePath   = "linkedin_automation.db"
	DefaultProfileURL   = "https://www.linkedin.com/feed/"
	DefaultGeminiModel  = "gemini-2.5-flash"
	FallbackGeminiModel = "gemini-2.5-flash-lite"
)

// Config carries everything the server needs. Values come from an optional
// config.yaml, with environment variables taking precedence.
type Config struct {
	Port int `yaml:"port"`

	GeminiAPIKey   string `yaml:"gemini_api_key"`
	ImageAPIKey    string `yaml:"image_api_key"`
	ImageAPIURL    string `yaml:"image_api_url"`
	AGIOpenAPIKey  string `yaml:"agiopen_api_key"`
	OAGIBaseURL    string `yaml:"oagi_base_url"`
	DatabaseURL    string `yaml:"database_url"`
	SQLitePath     string `yaml:"sqlite_path"`
	ImagesDir      string `yaml:"images_dir"`
	ProfileURL     string `yaml:"linkedin_profile_url"`
	AuthPassHash   string `yaml:"auth_password_hash"`
	AuthJWTSecret  string `yaml:"auth_jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func defaults() *Config {
	return &Config{
		Port:        DefaultPort,
		ImageAPIURL: DefaultImageAPIURL,
		OAGIBaseURL: DefaultOAGIBaseURL,
		SQLitePath:  DefaultSQLitePath,
		ImagesDir:   DefaultImagesDir,
		ProfileURL:  DefaultProfileURL,
		AllowedOrigins: []string{
			"http://localhost:8080",
			"http://localhost:8081",
			"http://localhost:3000",
			"http://127.0.0.1:8080",
			"http://127.0.0.1:8081",
			"http://127.0.0.1:3000",
		},
	}
}

// Load reads config.yaml at path (if it exists) and then overlays
// environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		file, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("OPENAI_IMAGE_API_KEY"); v != "" {
		c.ImageAPIKey = v
	}
	if v := os.Getenv("OPENAI_IMAGE_API_URL"); v != "" {
		c.ImageAPIURL = v
	}
	// Either name works; AGIOPEN_API_KEY wins when both are set.
	if v := os.Getenv("OAGI_API_KEY"); v != "" {
		c.AGIOpenAPIKey = v
	}
	if v := os.Getenv("AGIOPEN_API_KEY"); v != "" {
		c.AGIOpenAPIKey = v
	}
	if v := os.Getenv("OAGI_BASE_URL"); v != "" {
		c.OAGIBaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("IMAGES_DIR"); v != "" {
		c.ImagesDir = v
	}
	if v := os.Getenv("LINKEDIN_PROFILE_URL"); v != "" {
		c.ProfileURL = v
	}
	if v := os.Getenv("AUTH_PASSWORD_HASH"); v != "" {
		c.AuthPassHash = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		c.AuthJWTSecret = v
	}
}

// AuthEnabled reports whether the optional token gate is configured.
func (c *Config) AuthEnabled() bool {
	return c.AuthPassHash != "" && c.AuthJWTSecret != ""
}
