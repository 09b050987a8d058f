package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "GEMINI_API_KEY", "API_KEY", "BEDROCK_MODEL_ID", "CHAT_PROVIDER", "BOOKING_EVENTS_QUEUE_URL", "CORS_ALLOWED_ORIGINS", "OFFICE_TIMEZONE", "BOOKING_WINDOW_DAYS", "CHAT_TEMPERATURE", "CHAT_TOP_P", "CHAT_TIMEOUT"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.OfficeTimezone != "Asia/Ho_Chi_Minh" {
		t.Fatalf("expected office timezone default, got %s", cfg.OfficeTimezone)
	}
	if cfg.BookingWindowDays != 14 {
		t.Fatalf("expected 14 day window, got %d", cfg.BookingWindowDays)
	}
	if cfg.GeminiAPIKey != "" {
		t.Fatalf("expected empty gemini key, got %q", cfg.GeminiAPIKey)
	}
	if cfg.ChatTemperature != 0.1 || cfg.ChatTopP != 0.8 {
		t.Fatalf("unexpected sampling defaults %v/%v", cfg.ChatTemperature, cfg.ChatTopP)
	}
	if cfg.ChatTimeout != 30*time.Second {
		t.Fatalf("unexpected chat timeout %s", cfg.ChatTimeout)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ChatProvider != ProviderGemini {
		t.Fatalf("expected gemini provider by default, got %q", cfg.ChatProvider)
	}
	if cfg.UsesAWS() {
		t.Fatalf("expected AWS unused by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("BOOKING_WINDOW_DAYS", "7")
	t.Setenv("CHAT_TEMPERATURE", "0.4")
	t.Setenv("CHAT_TIMEOUT", "5s")
	t.Setenv("BEDROCK_MODEL_ID", "anthropic.claude-3-haiku")
	t.Setenv("CHAT_PROVIDER", " Bedrock ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("REDIS_TLS", "true")
	cfg := Load()
	if cfg.Port != "9090" || cfg.Env != "production" {
		t.Fatalf("expected overrides, got %s/%s", cfg.Port, cfg.Env)
	}
	if cfg.GeminiAPIKey != "legacy-key" {
		t.Fatalf("expected API_KEY fallback, got %q", cfg.GeminiAPIKey)
	}
	if cfg.BookingWindowDays != 7 {
		t.Fatalf("expected window override, got %d", cfg.BookingWindowDays)
	}
	if cfg.ChatTemperature != float32(0.4) {
		t.Fatalf("expected temperature override, got %v", cfg.ChatTemperature)
	}
	if cfg.ChatTimeout != 5*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.ChatTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rps override, got %v", cfg.RateLimitRPS)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if !cfg.UsesAWS() {
		t.Fatalf("expected AWS in use when bedrock serves chat")
	}
}

func TestBedrockModelAloneDoesNotSelectBedrock(t *testing.T) {
	t.Setenv("CHAT_PROVIDER", "")
	t.Setenv("BOOKING_EVENTS_QUEUE_URL", "")
	t.Setenv("BEDROCK_MODEL_ID", "anthropic.claude-3-haiku")
	cfg := Load()
	if cfg.UsesBedrock() || cfg.UsesAWS() {
		t.Fatalf("expected gemini to stay the only provider, got %q", cfg.ChatProvider)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("BOOKING_WINDOW_DAYS", "lots")
	t.Setenv("CHAT_TIMEOUT", "soon")
	cfg := Load()
	if cfg.BookingWindowDays != 14 {
		t.Fatalf("expected default window, got %d", cfg.BookingWindowDays)
	}
	if cfg.ChatTimeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.ChatTimeout)
	}
}
