package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DBPath           string
	StoragePath      string
	GeminiAPIKey     string
	GeminiBaseURL    string
	ImageModel       string
	TextModel        string
	ProModel         string
	VideoModel       string
	PollInterval     time.Duration
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "teestudio.db"),
		StoragePath:      getEnv("STORAGE_PATH", "data/assets"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ImageModel:       getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		TextModel:        getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		ProModel:         getEnv("GEMINI_PRO_MODEL", "gemini-2.5-pro"),
		VideoModel:       getEnv("GEMINI_VIDEO_MODEL", "veo-3.1-fast-generate-preview"),
		PollInterval:     time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 5)),
		AllowedOrigins:   splitEnvList("ALLOWED_ORIGINS"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
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

func splitEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
