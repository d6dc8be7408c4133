package config_test

import (
	"strings"
	"testing"

	"waitlist-api/pkg/config"
)

// setRequired fills the keys Load refuses to run without.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("BREVO_API_KEY", "brevo-key")
	t.Setenv("SENDER_EMAIL", "hello@ayxnt.com")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-1")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.OpenRouterModel != "arcee-ai/trinity-large-preview:free" {
		t.Errorf("unexpected default model: %q", cfg.OpenRouterModel)
	}
	if cfg.SenderName != "Ayxnt" || cfg.AppName != "Ayxnt" {
		t.Errorf("unexpected default identity: %q / %q", cfg.SenderName, cfg.AppName)
	}
	if cfg.CredsFile != "credentials.json" {
		t.Errorf("unexpected default credentials file: %q", cfg.CredsFile)
	}
	if cfg.UnsubscribeURL != "https://ayxnt.com/unsubscribe" {
		t.Errorf("unexpected default unsubscribe URL: %q", cfg.UnsubscribeURL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("unexpected default origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("OPENROUTER_MODEL", "meta-llama/llama-3-8b-instruct")
	t.Setenv("APP_NAME", "Acme")
	t.Setenv("GOOGLE_CREDS_JSON", "eyJ0eXBlIjoic2VydmljZV9hY2NvdW50In0=")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.OpenRouterModel != "meta-llama/llama-3-8b-instruct" {
		t.Errorf("unexpected model: %q", cfg.OpenRouterModel)
	}
	if cfg.AppName != "Acme" {
		t.Errorf("unexpected app name: %q", cfg.AppName)
	}
	if cfg.CredsJSON == "" {
		t.Error("expected inline credentials to be picked up")
	}
}

func TestLoad_MissingRequiredKey(t *testing.T) {
	setRequired(t)
	t.Setenv("BREVO_API_KEY", "")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing BREVO_API_KEY")
	}
	if !strings.Contains(err.Error(), "BREVO_API_KEY") {
		t.Errorf("expected error to name the missing key, got %v", err)
	}
}

func TestLoad_OriginsList(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://ayxnt.com, https://www.ayxnt.com ,http://localhost:5173")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"https://ayxnt.com", "https://www.ayxnt.com", "http://localhost:5173"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("expected origins %v, got %v", want, cfg.AllowedOrigins)
	}
	for i, origin := range want {
		if cfg.AllowedOrigins[i] != origin {
			t.Errorf("expected origins %v, got %v", want, cfg.AllowedOrigins)
		}
	}
}
