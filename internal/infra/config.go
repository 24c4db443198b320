package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	PublicBaseURL   string
	OutputDir       string
	UploadDir       string
	GeoIPDBPath     string
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	ImagenModel     string
	SonarAPIKey     string
	SonarModel      string
	SonarBaseURL    string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	SMTPFrom        string
	HTTPReadTimeout time.Duration
	// The write timeout needs headroom for the full generate pipeline:
	// two upstream AI calls plus compositing on one request.
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "3000"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		OutputDir:        getEnv("OUTPUT_DIR", "generated"),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ImagenModel:      getEnv("IMAGEN_MODEL", "imagen-3.0-generate-002"),
		SonarAPIKey:      os.Getenv("SONAR_API_KEY"),
		SonarModel:       getEnv("SONAR_MODEL", "sonar-pro"),
		SonarBaseURL:     getEnv("SONAR_BASE_URL", "https://api.perplexity.ai"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		SMTPFrom:         getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
