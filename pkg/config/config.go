package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. It is loaded once at startup and passed
// explicitly to each component; nothing reads the environment afterwards.
type Config struct {
	Port string

	OpenRouterAPIKey string
	OpenRouterModel  string

	BrevoAPIKey string
	SenderEmail string
	SenderName  string

	SheetID   string
	CredsFile string
	// CredsJSON is the base64-encoded service-account JSON, set on deploys
	// where a credentials file cannot be shipped.
	CredsJSON string

	AppName        string
	SiteURL        string
	UnsubscribeURL string

	AllowedOrigins []string
}

// Load reads .env (falling back to .env.example during local dev), applies
// defaults and validates that the external-service settings are present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.example")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", "arcee-ai/trinity-large-preview:free"),
		BrevoAPIKey:      os.Getenv("BREVO_API_KEY"),
		SenderEmail:      os.Getenv("SENDER_EMAIL"),
		SenderName:       getEnv("SENDER_NAME", "Ayxnt"),
		SheetID:          os.Getenv("GOOGLE_SHEET_ID"),
		CredsFile:        getEnv("GOOGLE_CREDS_FILE", "credentials.json"),
		CredsJSON:        os.Getenv("GOOGLE_CREDS_JSON"),
		AppName:          getEnv("APP_NAME", "Ayxnt"),
		SiteURL:          getEnv("APP_SITE_URL", "https://ayxnt.com"),
		UnsubscribeURL:   getEnv("UNSUBSCRIBE_URL", "https://ayxnt.com/unsubscribe"),
		AllowedOrigins:   splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	required := []struct {
		key string
		val string
	}{
		{"OPENROUTER_API_KEY", cfg.OpenRouterAPIKey},
		{"BREVO_API_KEY", cfg.BrevoAPIKey},
		{"SENDER_EMAIL", cfg.SenderEmail},
		{"GOOGLE_SHEET_ID", cfg.SheetID},
	}
	for _, r := range required {
		if r.val == "" {
			return nil, fmt.Errorf("%s not configured", r.key)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
